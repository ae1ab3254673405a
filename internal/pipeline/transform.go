package pipeline

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/couchcryptid/air-quality-etl/internal/cache"
	"github.com/couchcryptid/air-quality-etl/internal/domain"
	"github.com/couchcryptid/air-quality-etl/internal/observability"
	"github.com/couchcryptid/air-quality-etl/internal/table"
)

// ErrNoReport is returned by Transform for a table that decodes but yields no
// stations. The message is acknowledged without output.
var ErrNoReport = errors.New("table produced no report")

// Message headers read from the source topic.
const (
	HeaderContentType = "content-type"
	HeaderSource      = "source"
)

// ReportTransformer turns daily table files into serialized city reports.
// Reports are memoized by payload digest, so redelivered files skip the
// computation. The cache keeps its own copy of each report; callers may
// modify what Summarize returns.
type ReportTransformer struct {
	cache   *cache.LRU[string, domain.DailyCitySummary]
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewTransformer creates a ReportTransformer caching up to cacheSize reports.
// A cacheSize of 0 disables caching.
func NewTransformer(cacheSize int, logger *slog.Logger, metrics *observability.Metrics) *ReportTransformer {
	return &ReportTransformer{
		cache:   cache.NewLRU[string, domain.DailyCitySummary](cacheSize),
		logger:  logger,
		metrics: metrics,
	}
}

func (t *ReportTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	report, ok, err := t.Summarize(raw.Headers[HeaderContentType], raw.Value)
	if err != nil {
		return domain.OutputEvent{}, err
	}
	if !ok {
		return domain.OutputEvent{}, ErrNoReport
	}

	out, err := domain.SerializeReport(sourceName(raw), report)
	if err != nil {
		return domain.OutputEvent{}, err
	}
	t.metrics.CityMaxAQI.Set(float64(report.MaxAQI))
	return out, nil
}

// Summarize decodes data according to contentType and builds its report. The
// boolean is false when the table holds no usable rows or station columns.
func (t *ReportTransformer) Summarize(contentType string, data []byte) (domain.DailyCitySummary, bool, error) {
	key := digest(contentType, data)
	if report, ok := t.cache.Get(key); ok {
		t.metrics.ReportCache.WithLabelValues("hit").Inc()
		return cloneReport(report), true, nil
	}
	t.metrics.ReportCache.WithLabelValues("miss").Inc()

	tbl, err := table.Decode(contentType, bytes.NewReader(data))
	if err != nil {
		return domain.DailyCitySummary{}, false, fmt.Errorf("decode table: %w", err)
	}

	report, ok := domain.BuildReport(tbl)
	if !ok {
		return domain.DailyCitySummary{}, false, nil
	}

	t.metrics.StationsPerReport.Observe(float64(len(report.Stations)))
	t.logger.Debug("report built",
		"date", report.Date,
		"stations", len(report.Stations),
		"city_max_aqi", report.MaxAQI,
		"critical_station", report.CriticalStation,
	)
	t.cache.Put(key, cloneReport(report))
	return report, true, nil
}

// cloneReport copies the station slice and per-station maps so a cached report
// shares no mutable state with its callers.
func cloneReport(r domain.DailyCitySummary) domain.DailyCitySummary {
	r.Stations = slices.Clone(r.Stations)
	for i := range r.Stations {
		r.Stations[i].Peaks = maps.Clone(r.Stations[i].Peaks)
		r.Stations[i].SubIndices = maps.Clone(r.Stations[i].SubIndices)
	}
	return r
}

func digest(contentType string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(contentType))
	h.Write([]byte{0})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

func sourceName(raw domain.RawEvent) string {
	if s := raw.Headers[HeaderSource]; s != "" {
		return s
	}
	return string(raw.Key)
}

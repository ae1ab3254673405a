package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// RawEvent is an unprocessed message from the source topic. Its Value holds
// one daily table file.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// ReportEnvelope wraps a daily report with its provenance.
type ReportEnvelope struct {
	Source      string           `json:"source,omitempty"` // originating file name
	ProcessedAt time.Time        `json:"processed_at"`
	Report      DailyCitySummary `json:"report"`
}

// SerializeReport encodes a report for the sink topic, keyed by report date.
// ProcessedAt is stamped from the package clock.
func SerializeReport(source string, report DailyCitySummary) (OutputEvent, error) {
	env := ReportEnvelope{
		Source:      source,
		ProcessedAt: clock.Now().UTC(),
		Report:      report,
	}
	data, err := json.Marshal(env)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize report: %w", err)
	}
	return OutputEvent{
		Key:   []byte(report.Date),
		Value: data,
		Headers: map[string]string{
			"report_date":  report.Date,
			"city_max_aqi": strconv.Itoa(report.MaxAQI),
			"processed_at": env.ProcessedAt.Format(time.RFC3339),
		},
	}, nil
}

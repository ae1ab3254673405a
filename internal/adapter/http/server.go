package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/air-quality-etl/internal/domain"
	"github.com/couchcryptid/air-quality-etl/internal/table"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Summarizer builds a daily report from an uploaded table. The boolean is
// false when the table yields no stations.
type Summarizer interface {
	Summarize(contentType string, data []byte) (domain.DailyCitySummary, bool, error)
}

// Server exposes health, readiness, metrics, and on-demand report endpoints.
type Server struct {
	httpServer     *http.Server
	reports        Summarizer
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics, and
// POST /api/v1/reports routes.
func NewServer(addr string, ready sharedobs.ReadinessChecker, reports Summarizer, maxUploadBytes int64, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		reports:        reports,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("POST /api/v1/reports", s.handleReport)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// handleReport computes a report for the table in the request body. The body
// is CSV unless Content-Type says application/json.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxUploadBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, err)
			return
		}
		writeError(w, http.StatusBadRequest, err)
		return
	}

	report, ok, err := s.reports.Summarize(r.Header.Get("Content-Type"), data)
	switch {
	case errors.Is(err, table.ErrUnsupportedMediaType):
		writeError(w, http.StatusUnsupportedMediaType, err)
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, err)
		return
	case !ok:
		w.WriteHeader(http.StatusNoContent)
		return
	}

	s.logger.Info("report computed",
		"date", report.Date,
		"stations", len(report.Stations),
		"city_max_aqi", report.MaxAQI,
	)
	writeJSON(w, http.StatusOK, report)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client may have gone away
}

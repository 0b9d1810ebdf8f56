// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/okian/garage/internal/adapters/batch"
	"github.com/okian/garage/internal/adapters/importer"
	"github.com/okian/garage/internal/adapters/report"
	service "github.com/okian/garage/internal/app"
	"github.com/okian/garage/internal/domain/compat"
	"github.com/okian/garage/internal/domain/gearing"
	"github.com/okian/garage/internal/domain/model"
	"github.com/okian/garage/internal/domain/suspension"
	"github.com/okian/garage/internal/domain/tirepressure"
	"github.com/okian/garage/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	TirePressure(ctx context.Context, in tirepressure.Input) (tirepressure.Result, error)
	TirePressureBatch(ctx context.Context, ins []tirepressure.Input) ([]tirepressure.Result, error)
	ImportTirePressures(ctx context.Context, src io.Reader) (*service.ImportResult, error)
	WriteImport(w io.Writer, res *service.ImportResult) error

	Suspension(ctx context.Context, in suspension.Input) (suspension.Recommendation, error)
	Catalog() []model.SuspensionSpec

	GearRatios(ctx context.Context, setup gearing.Setup, cadence float64) ([]gearing.GearRatio, error)
	CompareGearing(ctx context.Context, current, proposed gearing.Setup) (gearing.Comparison, error)

	Compatibility(ctx context.Context, d model.Drivetrain) compat.Report

	BuildSetupSheet(ctx context.Context, req service.SheetRequest) (report.SetupSheet, error)
	SetupSheet(ctx context.Context, sheet report.SetupSheet, w io.Writer) error
}

const (
	defaultMaxBodyBytes   = 1 << 20
	defaultMaxUploadBytes = 5 << 20
)

// Server wires HTTP routes for the setup API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	toolsHandler  *ToolsHandler
}

// Option configures a Server.
type Option func(*ToolsHandler)

// WithMaxBodyBytes caps JSON request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(h *ToolsHandler) {
		if n > 0 {
			h.maxBody = n
		}
	}
}

// WithMaxUploadBytes caps spreadsheet uploads.
func WithMaxUploadBytes(n int64) Option {
	return func(h *ToolsHandler) {
		if n > 0 {
			h.maxUpload = n
		}
	}
}

// WithLogger sets the handler logger.
func WithLogger(l logger.Logger) Option {
	return func(h *ToolsHandler) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		toolsHandler:  NewToolsHandler(deps, opts...),
	}
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(_ context.Context, r *mux.Router) {
	r.Use(RequestIDMiddleware)

	r.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz")).Methods(http.MethodGet)
	r.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats")).Methods(http.MethodGet)

	tools := r.PathPrefix("/tools").Subrouter()
	h := s.toolsHandler
	tools.HandleFunc("/tire-pressure/calc", MetricsMiddleware(h.TireCalc, "tire_calc")).Methods(http.MethodPost)
	tools.HandleFunc("/tire-pressure/batch", MetricsMiddleware(h.TireBatch, "tire_batch")).Methods(http.MethodPost)
	tools.HandleFunc("/tire-pressure/import", MetricsMiddleware(h.TireImport, "tire_import")).Methods(http.MethodPost)
	tools.HandleFunc("/suspension/calc", MetricsMiddleware(h.SuspensionCalc, "suspension_calc")).Methods(http.MethodPost)
	tools.HandleFunc("/suspension/catalog", MetricsMiddleware(h.SuspensionCatalog, "suspension_catalog")).Methods(http.MethodGet)
	tools.HandleFunc("/gears/calc", MetricsMiddleware(h.GearsCalc, "gears_calc")).Methods(http.MethodPost)
	tools.HandleFunc("/gears/compare", MetricsMiddleware(h.GearsCompare, "gears_compare")).Methods(http.MethodPost)
	tools.HandleFunc("/compat/check", MetricsMiddleware(h.CompatCheck, "compat_check")).Methods(http.MethodPost)
	tools.HandleFunc("/report/pdf", MetricsMiddleware(h.ReportPDF, "report_pdf")).Methods(http.MethodPost)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// decodeJSON reads a single JSON document from the body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return fmt.Errorf("%w: body exceeds %d bytes", ErrTooLarge, tooBig.Limit)
		}
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data after JSON body", ErrBadRequest)
	}
	return nil
}

// statusFor maps an error to an HTTP status and error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrTooLarge),
		errors.Is(err, batch.ErrBatchTooLarge),
		errors.Is(err, importer.ErrTooManyRows):
		return http.StatusRequestEntityTooLarge, "too_large"
	case errors.Is(err, ErrBadRequest), errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, service.ErrNotStarted), errors.Is(err, batch.ErrStopped):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

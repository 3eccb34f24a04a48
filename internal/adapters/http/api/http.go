// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/okian/emochain/internal/domain/types"
	"github.com/okian/emochain/pkg/logger"
)

const (
	defaultMaxReadyLimit = 100
	defaultMaxBatchSize  = 500
	maxBodyBytes         = 1 << 20
)

// Dependencies required by HTTP handlers.
type Dependencies interface {
	AssessDependencies
	SubmitDependencies
	ValidatorDependencies
	MLDependencies
}

// Server wires HTTP routes for the assessment API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	assessHandler     *AssessHandler
	submitHandler     *SubmitHandler
	validatorsHandler *ValidatorsHandler
	mlHandler         *MLHandler

	maxReadyLimit int
	maxBatchSize  int
}

// Option configures a Server.
type Option func(*Server)

// WithMaxReadyLimit caps the limit parameter of the readiness listing.
func WithMaxReadyLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxReadyLimit = n
		}
	}
}

// WithMaxBatchSize caps the number of items in one batch request.
func WithMaxBatchSize(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBatchSize = n
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		maxReadyLimit: defaultMaxReadyLimit,
		maxBatchSize:  defaultMaxBatchSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.assessHandler = NewAssessHandler(deps, s.maxBatchSize)
	s.submitHandler = NewSubmitHandler(deps)
	s.validatorsHandler = NewValidatorsHandler(deps, s.maxReadyLimit)
	s.mlHandler = NewMLHandler(deps)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("GET /metrics", s.healthHandler.MetricsHandler())
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("POST /v1/assess", MetricsMiddleware(s.assessHandler.HandleAssess, "assess"))
	mux.HandleFunc("POST /v1/assess/batch", MetricsMiddleware(s.assessHandler.HandleAssessBatch, "assess_batch"))
	mux.HandleFunc("POST /v1/assessments", MetricsMiddleware(s.submitHandler.HandleSubmit, "assessments"))
	mux.HandleFunc("GET /v1/validators/ready", MetricsMiddleware(s.validatorsHandler.HandleReady, "validators_ready"))
	mux.HandleFunc("GET /v1/validators/{id}/readiness", MetricsMiddleware(s.validatorsHandler.HandleReadiness, "validator_readiness"))
	mux.HandleFunc("GET /v1/ml/status", MetricsMiddleware(s.mlHandler.HandleStatus, "ml_status"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Get().Error(context.Background(), "failed to encode response",
			logger.Int("status", status), logger.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	return io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
}

func isNotFound(err error) bool {
	return errors.Is(err, types.ErrNotFound)
}

// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/salary/internal/adapters/http/site"
	"github.com/okian/salary/internal/domain/types"
	"github.com/okian/salary/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	PredictDependencies
	StatsProvider
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithCurrencySymbol sets the prefix of the rendered salary.
func WithCurrencySymbol(symbol string) Option {
	return func(s *Server) {
		if symbol != "" {
			s.currency = symbol
		}
	}
}

// WithLogger sets the logger used by handlers and the recovery layer.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// Server wires HTTP routes for the prediction service.
type Server struct {
	currency string
	logger   logger.Logger

	rootHandler    *site.RootHandler
	predictHandler *PredictHandler
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{currency: "$"}
	for _, opt := range opts {
		opt(s)
	}
	s.rootHandler = site.NewRootHandler()
	s.predictHandler = NewPredictHandler(deps, s.currency, s.logger)
	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(deps)
	return s
}

// Register attaches all HTTP routes to mux. Paths not listed here are 404.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	site.Register(ctx, mux)

	mux.HandleFunc("/{$}", s.wrap(s.rootHandler.HandleRoot, "home"))
	mux.HandleFunc("/predict", s.wrap(s.predictHandler.HandlePredictForm, "predict"))
	mux.HandleFunc("/api/v1/predict", s.wrap(s.predictHandler.HandlePredictJSON, "api_predict"))
	mux.HandleFunc("/healthz", s.wrap(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", s.wrap(s.statsHandler.HandleStats, "stats"))
}

// wrap applies request id, metrics and panic recovery, outermost first.
func (s *Server) wrap(h http.HandlerFunc, endpoint string) http.HandlerFunc {
	return RequestIDMiddleware(MetricsMiddleware(RecoverMiddleware(h, s.logger, endpoint), endpoint))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, body types.Error) {
	if body.Message == "" {
		body.Message = http.StatusText(status)
	}
	writeJSON(w, status, body)
}

func methodNotAllowed(w http.ResponseWriter, err error, allow string) {
	w.Header().Set("Allow", allow)
	writeError(w, http.StatusMethodNotAllowed, types.Error{Code: "method_not_allowed", Message: err.Error()})
}

// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/okian/salary/internal/adapters/modelstore"
	"github.com/okian/salary/internal/domain/model"
	"github.com/okian/salary/internal/domain/prediction"
	"github.com/okian/salary/internal/domain/validation"
	"github.com/okian/salary/pkg/logger"
	"github.com/okian/salary/pkg/metrics"
)

// ErrNotStarted is returned by Predict before a successful Start.
var ErrNotStarted = errors.New("service not started")

// Service owns the model for the lifetime of the process and runs the
// request-to-prediction pipeline.
type Service struct {
	mu sync.RWMutex

	// Core components
	store     *modelstore.Store
	predictor prediction.Predictor
	info      modelstore.Info

	// Configuration
	modelPath      string
	expectedSHA256 string

	// State
	started bool

	// Counters
	served  atomic.Int64
	invalid atomic.Int64
	failed  atomic.Int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithModelPath sets the artifact location.
func WithModelPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.modelPath = path
		}
	}
}

// WithExpectedSHA256 pins the artifact checksum.
func WithExpectedSHA256(sum string) Option {
	return func(s *Service) {
		s.expectedSHA256 = sum
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		modelPath: "model.json",
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the model. A failure is a *modelstore.StartupError and the
// service must not serve traffic.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting salary prediction service...", logger.String("modelPath", s.modelPath))

	if s.store == nil {
		s.store = modelstore.New(s.modelPath,
			modelstore.WithExpectedSHA256(s.expectedSHA256),
			modelstore.WithLogger(s.logger),
		)
	}
	m, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Error(ctx, "model load failed", logger.Error(err))
		return err
	}

	s.info = m.Info()
	predictor, err := prediction.NewService(m,
		prediction.WithIdentity(s.info.ModelID, s.info.Version),
		prediction.WithLogger(s.logger),
	)
	if err != nil {
		return err
	}
	s.predictor = predictor

	s.started = true
	s.logger.Info(ctx, "salary prediction service started",
		logger.String("modelID", s.info.ModelID),
		logger.String("version", s.info.Version),
	)

	return nil
}

// Stop releases the model reference. The Service cannot be restarted with
// a different artifact.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.predictor = nil
	s.started = false
	s.logger.Info(context.Background(), "salary prediction service stopped")
}

// Predict validates the raw fields and runs the prediction. Validation
// failures are returned as *validation.InvalidInputError.
func (s *Service) Predict(ctx context.Context, requestID string, src validation.Source) (model.PredictionResult, error) {
	s.mu.RLock()
	predictor := s.predictor
	s.mu.RUnlock()

	if predictor == nil {
		return model.PredictionResult{}, ErrNotStarted
	}

	req, err := validation.Parse(src)
	if err != nil {
		return model.PredictionResult{}, s.reject(ctx, requestID, err)
	}

	res, err := predictor.Predict(ctx, requestID, req)
	// A finite input the model cannot turn into a finite salary is the
	// caller's input, not a service failure.
	var rangeErr *modelstore.RangeError
	if errors.As(err, &rangeErr) && rangeErr.Feature >= 0 && rangeErr.Feature < model.FeatureCount {
		return model.PredictionResult{}, s.reject(ctx, requestID, validation.OutOfRange(src, model.FeatureOrder[rangeErr.Feature]))
	}
	if err != nil {
		s.failed.Add(1)
		s.logger.Warn(ctx, "prediction failed", logger.String("requestID", requestID), logger.Error(err))
		return model.PredictionResult{}, err
	}
	s.served.Add(1)
	return res, nil
}

// reject counts and logs a validation failure and returns it unchanged.
func (s *Service) reject(ctx context.Context, requestID string, err error) error {
	s.invalid.Add(1)
	var invalid *validation.InvalidInputError
	if errors.As(err, &invalid) {
		metrics.RecordInvalidInput(invalid.Field)
		s.logger.Debug(ctx, "rejected prediction input",
			logger.String("requestID", requestID),
			logger.String("field", invalid.Field),
			logger.String("reason", invalid.Reason),
		)
	}
	return err
}

// ModelInfo describes the loaded artifact; zero before Start.
func (s *Service) ModelInfo() modelstore.Info {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.info
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":          s.started,
		"modelPath":        s.modelPath,
		"predictionsTotal": s.served.Load(),
		"invalidInputs":    s.invalid.Load(),
		"failures":         s.failed.Load(),
	}

	if s.store != nil {
		stats["modelPath"] = s.store.Path()
	}
	if s.started {
		stats["modelID"] = s.info.ModelID
		stats["modelVersion"] = s.info.Version
		stats["modelSHA256"] = s.info.SHA256
	}

	return stats
}

// Package prediction turns a validated request into a salary estimate.
package prediction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okian/salary/internal/domain/model"
	"github.com/okian/salary/pkg/logger"
	"github.com/okian/salary/pkg/metrics"
)

// ErrNoModel is returned by NewService when no model is supplied.
var ErrNoModel = errors.New("prediction: model is required")

// Model is the read-only regression the service feeds.
type Model interface {
	Predict(ctx context.Context, x model.FeatureVector) (float64, error)
}

// Predictor computes a salary for a validated request.
type Predictor interface {
	// Predict honors ctx for cancellation. requestID may be empty, in which
	// case one is generated.
	Predict(ctx context.Context, requestID string, req model.PredictionRequest) (model.PredictionResult, error)
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithIdentity records which artifact backs the service.
func WithIdentity(modelID, version string) Option {
	return func(s *Service) {
		s.modelID = modelID
		s.modelVersion = version
	}
}

// WithIDGenerator replaces the request id source.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithLogger sets the logger used for debug tracing.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// Service implements Predictor over a loaded Model. It holds no mutable
// state, so one instance serves all requests.
type Service struct {
	model        Model
	modelID      string
	modelVersion string
	newID        func() string
	logger       logger.Logger
}

var _ Predictor = (*Service)(nil)

// NewService creates a Service. The model must already be loaded.
func NewService(m Model, opts ...Option) (*Service, error) {
	if m == nil {
		return nil, ErrNoModel
	}
	s := &Service{
		model: m,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Predict feeds req to the model as experience, test_score, interview_score.
func (s *Service) Predict(ctx context.Context, requestID string, req model.PredictionRequest) (model.PredictionResult, error) {
	if requestID == "" {
		requestID = s.newID()
	}

	start := time.Now()
	salary, err := s.model.Predict(ctx, req.Vector())
	if err != nil {
		metrics.RecordPredictionError()
		return model.PredictionResult{}, fmt.Errorf("predict %s: %w", requestID, err)
	}
	metrics.RecordPrediction(float64(time.Since(start).Nanoseconds()) / 1e6)

	if s.logger != nil {
		s.logger.Debug(ctx, "prediction computed",
			logger.String("requestID", requestID),
			logger.Float64("experience", req.Experience),
			logger.Float64("testScore", req.TestScore),
			logger.Float64("interviewScore", req.InterviewScore),
			logger.Float64("salary", salary),
		)
	}

	return model.PredictionResult{
		ID:           requestID,
		Salary:       salary,
		ModelID:      s.modelID,
		ModelVersion: s.modelVersion,
	}, nil
}

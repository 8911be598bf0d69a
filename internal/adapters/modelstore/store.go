// Package modelstore loads the salary regression artifact once and serves
// predictions from it for the lifetime of the process.
package modelstore

import (
	"context"
	"sync"
	"time"

	"github.com/okian/salary/internal/domain/model"
	"github.com/okian/salary/pkg/logger"
	"github.com/okian/salary/pkg/metrics"
)

// Model is the read-only prediction capability backed by an artifact.
// Implementations must be safe for concurrent use.
type Model interface {
	// Predict returns the scalar output for one feature vector.
	Predict(ctx context.Context, x model.FeatureVector) (float64, error)
	// Info describes the loaded artifact.
	Info() Info
}

// Info describes a loaded artifact.
type Info struct {
	Path         string    `json:"path" yaml:"path"`
	ModelID      string    `json:"model_id" yaml:"model_id"`
	Version      string    `json:"version" yaml:"version"`
	SHA256       string    `json:"sha256" yaml:"sha256"`
	Features     []string  `json:"features" yaml:"features"`
	Coefficients []float64 `json:"coefficients" yaml:"coefficients"`
	Intercept    float64   `json:"intercept" yaml:"intercept"`
}

// Store owns the single model instance. Load reads the artifact the first
// time it is called; later calls return the same model or the same error.
type Store struct {
	path           string
	expectedSHA256 string
	logger         logger.Logger

	once  sync.Once
	model *LinearModel
	err   error
}

// New creates a Store for the artifact at path. Nothing is read until Load.
func New(path string, opts ...Option) *Store {
	s := &Store{path: path}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads, verifies and decodes the artifact exactly once.
func (s *Store) Load(ctx context.Context) (*LinearModel, error) {
	s.once.Do(func() {
		start := time.Now()
		s.model, s.err = LoadFile(s.path, s.expectedSHA256)
		if s.err != nil {
			return
		}
		info := s.model.Info()
		loadMs := float64(time.Since(start).Microseconds()) / 1000
		metrics.SetModelInfo(info.ModelID, info.Version, info.SHA256, loadMs)
		if s.logger != nil {
			if s.expectedSHA256 == "" {
				s.logger.Warn(ctx, "model checksum not pinned", logger.String("sha256", info.SHA256))
			}
			s.logger.Info(ctx, "model loaded",
				logger.String("path", s.path),
				logger.String("modelID", info.ModelID),
				logger.String("version", info.Version),
				logger.Float64("loadMs", loadMs),
			)
		}
	})
	return s.model, s.err
}

// Path returns the artifact location.
func (s *Store) Path() string { return s.path }

package modelstore

import (
	"errors"
	"fmt"
)

// Sentinel kinds for model store errors.
var (
	ErrArtifactMissing  = errors.New("model artifact missing")
	ErrArtifactCorrupt  = errors.New("model artifact corrupt")
	ErrChecksumMismatch = errors.New("model artifact checksum mismatch")
	ErrFeatureOrder     = errors.New("model feature order mismatch")
	ErrNonFinite        = errors.New("prediction is not finite")
)

// StartupError is returned when the artifact cannot back a running service.
// It is always fatal.
type StartupError struct {
	Path string
	Err  error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("load model %s: %v", e.Path, e.Err)
}

func (e *StartupError) Unwrap() error { return e.Err }

// RangeError reports a finite input whose contribution pushes the output
// past float64. Feature is the index in model.FeatureOrder of the term with
// the largest magnitude. It matches ErrNonFinite.
type RangeError struct {
	Feature int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%v: feature %d out of range", ErrNonFinite, e.Feature)
}

// Is matches ErrNonFinite.
func (e *RangeError) Is(target error) bool { return target == ErrNonFinite }

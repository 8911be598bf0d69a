package modelstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"slices"
	"strings"

	"github.com/okian/salary/internal/domain/model"
)

// artifact is the on-disk shape of the regression.
type artifact struct {
	ModelID      string    `json:"model_id"`
	Version      string    `json:"version"`
	Features     []string  `json:"features"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

// LinearModel is an ordinary least squares regression:
// intercept + sum(coefficients[i] * x[i]). It is immutable after load.
type LinearModel struct {
	path     string
	checksum string
	artifact artifact
	coef     model.FeatureVector
}

var _ Model = (*LinearModel)(nil)

// LoadFile reads the artifact at path, verifies its checksum when
// expectedSHA256 is non-empty, and validates it. Every failure is a
// *StartupError.
func LoadFile(path, expectedSHA256 string) (*LinearModel, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &StartupError{Path: path, Err: fmt.Errorf("%w: %w", ErrArtifactMissing, err)}
		}
		return nil, &StartupError{Path: path, Err: err}
	}
	m, err := Decode(raw, expectedSHA256)
	if err != nil {
		return nil, &StartupError{Path: path, Err: err}
	}
	m.path = path
	return m, nil
}

// Decode verifies and decodes artifact bytes.
func Decode(raw []byte, expectedSHA256 string) (*LinearModel, error) {
	sum := sha256.Sum256(raw)
	got := hex.EncodeToString(sum[:])
	if want := strings.ToLower(strings.TrimSpace(expectedSHA256)); want != "" && got != want {
		return nil, fmt.Errorf("%w: got %s want %s", ErrChecksumMismatch, got, want)
	}

	var a artifact
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrArtifactCorrupt, err)
	}
	if err := validateArtifact(a); err != nil {
		return nil, err
	}

	m := &LinearModel{checksum: got, artifact: a}
	copy(m.coef[:], a.Coefficients)
	return m, nil
}

func validateArtifact(a artifact) error {
	if strings.TrimSpace(a.ModelID) == "" {
		return fmt.Errorf("%w: empty model_id", ErrArtifactCorrupt)
	}
	if !slices.Equal(a.Features, model.FeatureOrder[:]) {
		return fmt.Errorf("%w: got %v want %v", ErrFeatureOrder, a.Features, model.FeatureOrder)
	}
	if len(a.Coefficients) != model.FeatureCount {
		return fmt.Errorf("%w: %d coefficients for %d features", ErrArtifactCorrupt, len(a.Coefficients), model.FeatureCount)
	}
	for i, c := range a.Coefficients {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return fmt.Errorf("%w: coefficient %d is not finite", ErrArtifactCorrupt, i)
		}
	}
	if math.IsNaN(a.Intercept) || math.IsInf(a.Intercept, 0) {
		return fmt.Errorf("%w: intercept is not finite", ErrArtifactCorrupt)
	}
	return nil
}

// Predict computes the regression output for x.
func (m *LinearModel) Predict(ctx context.Context, x model.FeatureVector) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("predict: %w", err)
	}
	y := m.artifact.Intercept
	largest, idx := -1.0, 0
	for i := range x {
		term := m.coef[i] * x[i]
		if mag := math.Abs(term); mag > largest || math.IsNaN(term) {
			largest, idx = mag, i
		}
		y += term
	}
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, &RangeError{Feature: idx}
	}
	return y, nil
}

// Info describes the loaded artifact. The slices are copies.
func (m *LinearModel) Info() Info {
	return Info{
		Path:         m.path,
		ModelID:      m.artifact.ModelID,
		Version:      m.artifact.Version,
		SHA256:       m.checksum,
		Features:     slices.Clone(m.artifact.Features),
		Coefficients: slices.Clone(m.artifact.Coefficients),
		Intercept:    m.artifact.Intercept,
	}
}

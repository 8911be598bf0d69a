// Package validation turns raw prediction fields into a typed request.
package validation

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/okian/salary/internal/domain/model"
)

// ErrInvalidInput is the kind every validation failure matches via errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// Reasons reported on InvalidInputError.
const (
	ReasonMissing    = "missing"
	ReasonNotNumeric = "not a number"
	ReasonNotFinite  = "not a finite number"
	ReasonOutOfRange = "too large for the model"
)

// InvalidInputError reports the first field that failed to parse.
type InvalidInputError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Reason == ReasonMissing {
		return fmt.Sprintf("%s is required", e.Field)
	}
	return fmt.Sprintf("%s: %q is %s", e.Field, e.Value, e.Reason)
}

// Is matches ErrInvalidInput.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Source yields raw field values. ok is false when the field is absent.
type Source interface {
	Lookup(field string) (value string, ok bool)
}

// Values adapts submitted form values.
type Values url.Values

// Lookup returns the first value of field.
func (v Values) Lookup(field string) (string, bool) {
	vs, ok := v[field]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// Fields adapts an already decoded field map.
type Fields map[string]string

// Lookup returns the value of field.
func (f Fields) Lookup(field string) (string, bool) {
	v, ok := f[field]
	return v, ok
}

// OutOfRange returns the error for a parsed value the model cannot use.
func OutOfRange(src Source, field string) *InvalidInputError {
	raw, _ := src.Lookup(field)
	return &InvalidInputError{Field: field, Value: raw, Reason: ReasonOutOfRange}
}

// Parse reads the three features in model.FeatureOrder. Ranges are not
// checked; any finite float is accepted.
func Parse(src Source) (model.PredictionRequest, error) {
	var vec model.FeatureVector
	for i, field := range model.FeatureOrder {
		v, err := parseField(src, field)
		if err != nil {
			return model.PredictionRequest{}, err
		}
		vec[i] = v
	}
	return model.PredictionRequest{
		Experience:     vec[0],
		TestScore:      vec[1],
		InterviewScore: vec[2],
	}, nil
}

func parseField(src Source, field string) (float64, error) {
	raw, ok := src.Lookup(field)
	trimmed := strings.TrimSpace(raw)
	if !ok || trimmed == "" {
		return 0, &InvalidInputError{Field: field, Value: raw, Reason: ReasonMissing}
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	switch {
	case errors.Is(err, strconv.ErrRange) && math.IsInf(v, 0):
		return 0, &InvalidInputError{Field: field, Value: raw, Reason: ReasonOutOfRange}
	case errors.Is(err, strconv.ErrRange):
		// Underflow rounds to zero, which is a usable value.
	case err != nil:
		return 0, &InvalidInputError{Field: field, Value: raw, Reason: ReasonNotNumeric}
	}
	// ParseFloat accepts "NaN" and "Inf"; neither is a usable feature.
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &InvalidInputError{Field: field, Value: raw, Reason: ReasonNotFinite}
	}
	return v, nil
}

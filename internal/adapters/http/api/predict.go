// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/okian/salary/internal/adapters/http/site"
	"github.com/okian/salary/internal/domain/model"
	"github.com/okian/salary/internal/domain/types"
	"github.com/okian/salary/internal/domain/validation"
	"github.com/okian/salary/pkg/logger"
)

// maxBodyBytes bounds form and JSON bodies.
const maxBodyBytes = 1 << 20

// PredictDependencies runs the validate-then-predict pipeline.
type PredictDependencies interface {
	Predict(ctx context.Context, requestID string, src validation.Source) (model.PredictionResult, error)
}

// PredictHandler serves the HTML form submission and the JSON API.
type PredictHandler struct {
	deps     PredictDependencies
	currency string
	logger   logger.Logger
}

// NewPredictHandler creates a new predict handler.
func NewPredictHandler(deps PredictDependencies, currency string, log logger.Logger) *PredictHandler {
	return &PredictHandler{deps: deps, currency: currency, logger: log}
}

// SalaryText formats a prediction the way the form page shows it.
func SalaryText(currency string, salary float64) string {
	return fmt.Sprintf("Employee Salary should be %s%.2f", currency, salary)
}

// HandlePredictForm handles POST /predict form submissions.
func (h *PredictHandler) HandlePredictForm(w http.ResponseWriter, r *http.Request) {
	const op = "api.predict_form"
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		h.render(r.Context(), w, http.StatusMethodNotAllowed, site.Page{
			ErrorText: "Predictions are made by submitting the form.",
		})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	// Accepts urlencoded and multipart bodies; both land in r.PostForm.
	err := r.ParseMultipartForm(maxBodyBytes)
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.logWarn(r.Context(), "unreadable form body", WrapKind(op, ErrBadRequest, err))
		h.render(r.Context(), w, http.StatusBadRequest, site.Page{ErrorText: "The form could not be read."})
		return
	}

	page := site.Page{
		Experience:     r.PostForm.Get(model.FeatureExperience),
		TestScore:      r.PostForm.Get(model.FeatureTestScore),
		InterviewScore: r.PostForm.Get(model.FeatureInterviewScore),
	}

	res, err := h.deps.Predict(r.Context(), RequestID(r.Context()), validation.Values(r.PostForm))
	if err != nil {
		var invalid *validation.InvalidInputError
		if errors.As(err, &invalid) {
			page.ErrorText = "Invalid input: " + invalid.Error()
			h.render(r.Context(), w, http.StatusBadRequest, page)
			return
		}
		h.logError(r.Context(), "prediction failed", Wrap(op, err))
		page.ErrorText = "The prediction could not be computed."
		h.render(r.Context(), w, http.StatusInternalServerError, page)
		return
	}

	page.PredictionText = SalaryText(h.currency, res.Salary)
	h.render(r.Context(), w, http.StatusOK, page)
}

// HandlePredictJSON handles POST /api/v1/predict.
func (h *PredictHandler) HandlePredictJSON(w http.ResponseWriter, r *http.Request) {
	const op = "api.predict_json"
	if r.Method != http.MethodPost {
		methodNotAllowed(w, NewKind(op, ErrMethodNotAllowed), http.MethodPost)
		return
	}

	fields, err := decodeFields(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, types.Error{Code: "bad_request", Message: WrapKind(op, ErrBadRequest, err).Error()})
		return
	}

	res, err := h.deps.Predict(r.Context(), RequestID(r.Context()), fields)
	if err != nil {
		var invalid *validation.InvalidInputError
		if errors.As(err, &invalid) {
			writeError(w, http.StatusBadRequest, types.Error{Code: "invalid_input", Field: invalid.Field, Message: invalid.Error()})
			return
		}
		h.logError(r.Context(), "prediction failed", Wrap(op, err))
		writeError(w, http.StatusInternalServerError, types.Error{Code: "internal_error", Message: ErrInternal.Error()})
		return
	}

	writeJSON(w, http.StatusOK, types.Prediction{
		ID:           res.ID,
		Salary:       res.Salary,
		ModelID:      res.ModelID,
		ModelVersion: res.ModelVersion,
	})
}

// decodeFields reads a JSON object whose feature values may be numbers or
// numeric strings. Null counts as absent; other types are kept verbatim so
// validation rejects them with the field name.
func decodeFields(body io.Reader) (validation.Fields, error) {
	dec := json.NewDecoder(body)
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, errors.New("body must be a JSON object")
	}

	fields := validation.Fields{}
	for _, name := range model.FeatureOrder {
		v, ok := raw[name]
		if !ok || v == nil {
			continue
		}
		switch tv := v.(type) {
		case json.Number:
			fields[name] = tv.String()
		case string:
			fields[name] = tv
		default:
			var buf bytes.Buffer
			_ = json.NewEncoder(&buf).Encode(tv)
			fields[name] = strings.TrimSpace(buf.String())
		}
	}
	return fields, nil
}

func (h *PredictHandler) render(ctx context.Context, w http.ResponseWriter, status int, page site.Page) {
	if err := site.Render(w, status, page); err != nil {
		h.logError(ctx, "render failed", err)
	}
}

func (h *PredictHandler) logWarn(ctx context.Context, msg string, err error) {
	if h.logger != nil {
		h.logger.Warn(ctx, msg, logger.String("requestID", RequestID(ctx)), logger.Error(err))
	}
}

func (h *PredictHandler) logError(ctx context.Context, msg string, err error) {
	if h.logger != nil {
		h.logger.Error(ctx, msg, logger.String("requestID", RequestID(ctx)), logger.Error(err))
	}
}

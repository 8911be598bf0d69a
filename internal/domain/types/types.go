// Package types contains wire shapes shared by the HTTP API and its clients.
package types

// Prediction is the JSON body returned by POST /api/v1/predict.
type Prediction struct {
	ID           string  `json:"id"`
	Salary       float64 `json:"salary"`
	ModelID      string  `json:"model_id"`
	ModelVersion string  `json:"model_version"`
}

// Error is the JSON error body returned by the API.
type Error struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Package model contains domain models passed between layers.
package model

// Feature names in the order the regression was trained on. The model
// artifact must declare exactly this order.
const (
	FeatureExperience     = "experience"
	FeatureTestScore      = "test_score"
	FeatureInterviewScore = "interview_score"

	// FeatureCount is the width of a FeatureVector.
	FeatureCount = 3
)

// FeatureOrder lists the feature names in vector order.
var FeatureOrder = [FeatureCount]string{FeatureExperience, FeatureTestScore, FeatureInterviewScore}

// FeatureVector is one row of model input in FeatureOrder.
type FeatureVector [FeatureCount]float64

// PredictionRequest holds validated form input.
type PredictionRequest struct {
	Experience     float64
	TestScore      float64
	InterviewScore float64
}

// Vector returns the request as model input. The positions must match
// FeatureOrder.
func (r PredictionRequest) Vector() FeatureVector {
	return FeatureVector{r.Experience, r.TestScore, r.InterviewScore}
}

// PredictionResult is the outcome of one prediction. It lives for a single
// request and is never stored.
type PredictionResult struct {
	ID           string  // request id, echoed as X-Request-ID
	Salary       float64 // predicted salary
	ModelID      string
	ModelVersion string
}

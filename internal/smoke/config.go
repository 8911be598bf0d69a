package smoke

import (
	"time"

	"github.com/okian/salary/pkg/logger"
)

// Config holds configuration for a smoke run.
type Config struct {
	BaseURL  string        // Base URL of the service
	Requests int           // Number of valid triples to submit
	Workers  int           // Number of concurrent workers
	Timeout  time.Duration // HTTP request timeout
	Seed     uint64        // Seed for generated inputs; 0 picks one from the run id
	Verbose  bool          // Log every request
	Logger   logger.Logger // Defaults to logger.Get()
}

// Case is one form submission.
type Case struct {
	Experience     string `json:"experience"`
	TestScore      string `json:"test_score"`
	InterviewScore string `json:"interview_score"`
}

// Violation is a single failed check.
type Violation struct {
	Check  string `json:"check"`
	Detail string `json:"detail"`
}

// Report holds the outcome of a run.
type Report struct {
	RunID      string        `json:"run_id"`
	Requests   int           `json:"requests"`
	Succeeded  int           `json:"succeeded"`
	Rejected   int           `json:"rejected"`
	Failed     int           `json:"failed"`
	Mismatches int           `json:"mismatches"`
	Violations []Violation   `json:"violations,omitempty"`
	StartTime  time.Time     `json:"start_time"`
	EndTime    time.Time     `json:"end_time"`
	Duration   time.Duration `json:"duration"`
	RequestsPS float64       `json:"requests_per_second"`
}

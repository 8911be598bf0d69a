package smoke

import "time"

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
	DefaultWorkers          = 8
	DefaultRequests         = 100
	DefaultTimeout          = 10 * time.Second
)

// Form and page markers.
const (
	PredictionMarker = "Employee Salary should be"
	formContentType  = "application/x-www-form-urlencoded"
	maxBodyBytes     = 1 << 20
)

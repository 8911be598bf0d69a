package smoke

import "errors"

// Error constants.
var (
	ErrInvalidConfig = errors.New("invalid smoke config")
	ErrViolation     = errors.New("smoke check failed")
	ErrNoSalary      = errors.New("response carries no salary")
)

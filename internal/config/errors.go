package config

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for this package.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)

// KeyError names the config key that failed validation. It matches
// ErrInvalidConfig.
type KeyError struct {
	Key    string
	Reason string
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("%v: %s %s", ErrInvalidConfig, e.Key, e.Reason)
}

// Is matches ErrInvalidConfig.
func (e *KeyError) Is(target error) bool { return target == ErrInvalidConfig }

package modelstore

import (
	"strings"

	"github.com/okian/salary/pkg/logger"
)

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithExpectedSHA256 pins the artifact checksum (hex). Empty disables the check.
func WithExpectedSHA256(sum string) Option {
	return func(s *Store) {
		s.expectedSHA256 = strings.ToLower(strings.TrimSpace(sum))
	}
}

// WithLogger sets the logger used for load events.
func WithLogger(l logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variable names.
const (
	EnvPrefix     = "SALARY_"
	EnvConfigFile = "SALARY_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if SALARY_CONFIG is set
//  3. env (prefix SALARY_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: read %s: %w", ErrLoadConfig, path, err)
		}
	}

	// SALARY_MODEL_PATH -> model_path. Flat keys, underscores preserved to
	// match the koanf tags. SALARY_CONFIG itself maps to "config" and is ignored.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the fields the service cannot start without.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return &KeyError{Key: "addr", Reason: "must not be empty"}
	case strings.TrimSpace(c.ModelPath) == "":
		return &KeyError{Key: "model_path", Reason: "must not be empty"}
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return &KeyError{Key: "log_format", Reason: fmt.Sprintf("must be text or json, got %q", c.LogFormat)}
	}
	c.ModelSHA256 = strings.ToLower(strings.TrimSpace(c.ModelSHA256))
	return nil
}

// Package config defines service configuration and its layered loader.
//
// Conventions:
// - New returns a Config populated with defaults.
// - Load layers defaults, an optional YAML file and SALARY_* env vars.
// - Errors are wrapped with this package's sentinel kinds.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":5000".
	Addr string `koanf:"addr"`

	// ModelPath points at the regression artifact, relative to the working directory.
	ModelPath string `koanf:"model_path"`

	// ModelSHA256 is the expected artifact checksum; empty disables the check.
	ModelSHA256 string `koanf:"model_sha256"`

	// CurrencySymbol prefixes the rendered salary.
	CurrencySymbol string `koanf:"currency_symbol"`
}

// New creates a Config with default values.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		LogFormat:      "text",
		Addr:           ":5000",
		ModelPath:      "model.json",
		ModelSHA256:    "",
		CurrencySymbol: "$",
	}
}

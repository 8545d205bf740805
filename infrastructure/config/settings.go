// Package config loads engine settings from YAML files, env files,
// and the process environment. Precedence is resolved by the caller:
// defaults, then file, then environment, then flags.
package config

import (
	"errors"
	"os"
	"strconv"
)

// Settings is the full configuration of one run.
type Settings struct {
	// Endpoint is the base URL of the OpenAI-compatible API.
	Endpoint string `yaml:"endpoint" json:"endpoint"`

	// Model is the model identifier sent to the provider.
	Model string `yaml:"model" json:"model"`

	// APIKey authenticates against the provider. Never written back
	// to disk.
	APIKey string `yaml:"api_key" json:"api_key"`

	// MaxSteps bounds the number of completed steps.
	MaxSteps uint `yaml:"max_steps" json:"max_steps"`

	// MaxCost bounds the accumulated token cost.
	MaxCost uint `yaml:"max_cost" json:"max_cost"`

	// Interactive allows the agent to ask the human questions.
	Interactive bool `yaml:"interactive" json:"interactive"`

	// WorkDir is the working directory for tool execution.
	WorkDir string `yaml:"workdir" json:"workdir"`

	// StorePath is the SQLite database for run records; empty
	// disables persistence.
	StorePath string `yaml:"store" json:"store"`

	// LogLevel is the minimum log level.
	LogLevel string `yaml:"log_level" json:"log_level"`

	// SystemPrompt overrides the built-in system prompt.
	SystemPrompt string `yaml:"system_prompt" json:"system_prompt"`
}

// Configuration errors.
var (
	ErrConfigNotFound    = errors.New("config file not found")
	ErrInvalidFormat     = errors.New("invalid config format")
	ErrUnsupportedFormat = errors.New("unsupported config format")
	ErrMissingEnvVar     = errors.New("missing environment variable")
	ErrMissingAPIKey     = errors.New("no API key configured")
)

// Default returns the built-in defaults.
func Default() Settings {
	return Settings{
		Endpoint: "https://api.openai.com",
		Model:    "gpt-4o",
		MaxSteps: 30,
		MaxCost:  200000,
		LogLevel: "info",
	}
}

// Env variable names recognized by ApplyEnv.
const (
	EnvAPIKey         = "REAGENT_API_KEY"
	EnvAPIKeyFallback = "OPENAI_API_KEY"
	EnvEndpoint       = "REAGENT_ENDPOINT"
	EnvModel          = "REAGENT_MODEL"
	EnvMaxSteps       = "REAGENT_MAX_STEPS"
	EnvMaxCost        = "REAGENT_MAX_COST"
	EnvLogLevel       = "REAGENT_LOG_LEVEL"
	EnvStorePath      = "REAGENT_STORE"
)

// ApplyEnv overlays recognized environment variables onto s. The API
// key falls back to OPENAI_API_KEY when REAGENT_API_KEY is unset.
func (s *Settings) ApplyEnv() {
	if v := os.Getenv(EnvAPIKey); v != "" {
		s.APIKey = v
	} else if v := os.Getenv(EnvAPIKeyFallback); v != "" && s.APIKey == "" {
		s.APIKey = v
	}
	if v := os.Getenv(EnvEndpoint); v != "" {
		s.Endpoint = v
	}
	if v := os.Getenv(EnvModel); v != "" {
		s.Model = v
	}
	if v := os.Getenv(EnvMaxSteps); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			s.MaxSteps = uint(n)
		}
	}
	if v := os.Getenv(EnvMaxCost); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			s.MaxCost = uint(n)
		}
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		s.LogLevel = v
	}
	if v := os.Getenv(EnvStorePath); v != "" {
		s.StorePath = v
	}
}

// Validate checks that the settings describe a runnable configuration.
func (s *Settings) Validate() error {
	if s.APIKey == "" {
		return ErrMissingAPIKey
	}
	if s.MaxSteps == 0 {
		return errors.New("max_steps must be positive")
	}
	if s.MaxCost == 0 {
		return errors.New("max_cost must be positive")
	}
	return nil
}

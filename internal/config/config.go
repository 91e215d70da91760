// Package config defines the materials-assistant configuration model and
// default values.
//
// Configuration is assembled from multiple sources with a strict precedence
// chain: built-in defaults < .env file < process environment < explicit
// config file < CLI flag overrides.
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/CodexForgeBR/materials-assistant/internal/ai"
	"github.com/CodexForgeBR/materials-assistant/internal/completion"
)

// Upper bounds accepted by Validate.
const (
	MaxAttemptsLimit    = 20
	BaseDelayMSLimit    = 60000
	RequestTimeoutLimit = 600
)

// WhitelistedVars lists every configuration variable name that may appear in
// config files or the environment. Anything else is ignored during loading.
var WhitelistedVars = [10]string{
	"GEMINI_API_KEY",
	"BASE_URL",
	"MODEL",
	"TEMPERATURE",
	"MAX_TOKENS",
	"MAX_ATTEMPTS",
	"BASE_DELAY_MS",
	"REQUEST_TIMEOUT",
	"LISTEN_ADDR",
	"VERBOSE",
}

// Config holds every configuration field for the materials-assistant CLI.
type Config struct {
	// Provider credentials and endpoint.
	APIKey  string
	BaseURL string
	Model   string

	// Sampling parameters.
	Temperature float64
	MaxTokens   int

	// Retry policy.
	MaxAttempts    int
	BaseDelayMS    int
	RequestTimeout int // seconds, per attempt

	// Web UI.
	ListenAddr string

	Verbose bool

	// CLI-only flags (not loaded from config files).
	ConfigFile string
	EnvFile    string
}

// NewDefaultConfig returns a Config populated with all built-in default values.
func NewDefaultConfig() *Config {
	return &Config{
		BaseURL:        completion.DefaultBaseURL,
		Model:          "gemini-2.0-flash",
		Temperature:    0.7,
		MaxTokens:      1024,
		MaxAttempts:    ai.DefaultMaxAttempts,
		BaseDelayMS:    int(ai.DefaultBaseDelay / time.Millisecond),
		RequestTimeout: int(completion.DefaultTimeout / time.Second),
		ListenAddr:     ":8501",
		EnvFile:        ".env",
	}
}

// BaseDelay returns the first backoff delay.
func (c *Config) BaseDelay() time.Duration {
	return time.Duration(c.BaseDelayMS) * time.Millisecond
}

// Timeout returns the per-attempt network timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// Validate reports the first invalid setting as an *ai.ConfigurationError.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return &ai.ConfigurationError{Field: "GEMINI_API_KEY", Reason: "is not set"}
	}
	if u, err := url.Parse(c.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &ai.ConfigurationError{Field: "BASE_URL", Reason: "must be an absolute http(s) URL"}
	}
	if c.Model == "" {
		return &ai.ConfigurationError{Field: "MODEL", Reason: "must not be empty"}
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return &ai.ConfigurationError{Field: "TEMPERATURE", Reason: "must be between 0 and 2"}
	}
	if c.MaxTokens < 0 {
		return &ai.ConfigurationError{Field: "MAX_TOKENS", Reason: "must not be negative"}
	}
	if c.MaxAttempts < 1 || c.MaxAttempts > MaxAttemptsLimit {
		return &ai.ConfigurationError{Field: "MAX_ATTEMPTS", Reason: fmt.Sprintf("must be between 1 and %d", MaxAttemptsLimit)}
	}
	if c.BaseDelayMS < 1 || c.BaseDelayMS > BaseDelayMSLimit {
		return &ai.ConfigurationError{Field: "BASE_DELAY_MS", Reason: fmt.Sprintf("must be between 1 and %d", BaseDelayMSLimit)}
	}
	if c.RequestTimeout < 1 || c.RequestTimeout > RequestTimeoutLimit {
		return &ai.ConfigurationError{Field: "REQUEST_TIMEOUT", Reason: fmt.Sprintf("must be between 1 and %d", RequestTimeoutLimit)}
	}
	return nil
}

package navigation

import (
	"log/slog"
	"time"
)

// Config holds navigation provider configuration.
type Config struct {
	APIKey string

	// BaseURL overrides every Maps endpoint host. Used by tests.
	BaseURL string

	Timeout time.Duration

	// RateLimit caps requests per second against the Maps APIs.
	RateLimit int

	Logger *slog.Logger
}

// Option is a functional option for configuring providers.
type Option func(*Config)

// WithAPIKey sets the Maps API key.
func WithAPIKey(key string) Option {
	return func(c *Config) { c.APIKey = key }
}

// WithBaseURL overrides the Maps API host.
func WithBaseURL(url string) Option {
	return func(c *Config) { c.BaseURL = url }
}

// WithTimeout sets the HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) { c.Timeout = d }
}

// WithRateLimit sets the request rate limit.
func WithRateLimit(qps int) Option {
	return func(c *Config) { c.RateLimit = qps }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Timeout:   15 * time.Second,
		RateLimit: 10,
		Logger:    slog.Default(),
	}
}

// Apply applies functional options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrNoAPIKey
	}
	return nil
}

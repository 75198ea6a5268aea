package inference

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/teslashibe/go-wayfinder/internal/httpc"
)

// Image detail levels for OpenAI-compatible endpoints. Low detail bills a
// fixed token count per frame regardless of resolution.
const (
	DetailAuto = "auto"
	DetailLow  = "low"
	DetailHigh = "high"
)

// DefaultMaxImages is how many of the newest frames a request carries.
const DefaultMaxImages = 5

// Config holds provider configuration.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string

	MaxTokens   int
	Temperature float64

	// MaxImages caps frames per request; older frames are dropped first.
	// Zero sends none.
	MaxImages int

	// ImageDetail is passed as image_url.detail. Ignored by Gemini.
	ImageDetail string

	Timeout time.Duration
	Logger  *slog.Logger
}

// Option configures a provider.
type Option func(*Config)

// WithBaseURL points the client at an OpenAI-compatible server,
// e.g. "http://localhost:11434/v1" for Ollama.
func WithBaseURL(url string) Option {
	return func(c *Config) { c.BaseURL = url }
}

func WithAPIKey(key string) Option {
	return func(c *Config) { c.APIKey = key }
}

func WithModel(model string) Option {
	return func(c *Config) { c.Model = model }
}

func WithMaxTokens(n int) Option {
	return func(c *Config) { c.MaxTokens = n }
}

func WithTemperature(t float64) Option {
	return func(c *Config) { c.Temperature = t }
}

// WithMaxImages sets how many of the newest frames are sent.
func WithMaxImages(n int) Option {
	return func(c *Config) { c.MaxImages = n }
}

// WithImageDetail sets DetailAuto, DetailLow or DetailHigh.
func WithImageDetail(d string) Option {
	return func(c *Config) { c.ImageDetail = d }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Config) { c.Timeout = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// DefaultConfig returns OpenAI defaults tuned for navigation prompts.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:     "https://api.openai.com/v1",
		Model:       "gpt-4o-mini",
		MaxTokens:   1000,
		Temperature: 0.2,
		MaxImages:   DefaultMaxImages,
		ImageDetail: DetailAuto,
		Timeout:     httpc.DefaultTimeout,
		Logger:      slog.Default(),
	}
}

// Apply runs opts against c in order.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.Model == "" {
		return ErrNoModel
	}
	if c.MaxImages < 0 {
		return fmt.Errorf("inference: max images must not be negative, got %d", c.MaxImages)
	}
	switch c.ImageDetail {
	case DetailAuto, DetailLow, DetailHigh:
	default:
		return fmt.Errorf("inference: unknown image detail %q", c.ImageDetail)
	}
	return nil
}

package tts

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/teslashibe/go-wayfinder/internal/httpc"
)

const (
	// DefaultVoiceID is the ElevenLabs "George" voice.
	DefaultVoiceID = "JBFqnCBsd6RMkjVDRZzb"

	// ModelFlashV2_5 is the low-latency multilingual model.
	ModelFlashV2_5 = "eleven_flash_v2_5"
)

// Config holds ElevenLabs settings.
type Config struct {
	APIKey  string
	BaseURL string
	VoiceID string
	ModelID string
	Format  Format

	// Stability and Similarity are voice_settings, each in [0,1].
	Stability  float64
	Similarity float64

	// Retries is the number of extra attempts after a 429 or 5xx.
	Retries   int
	RetryWait time.Duration

	Timeout time.Duration
	Logger  *slog.Logger
}

// Option configures the provider.
type Option func(*Config)

func WithAPIKey(key string) Option {
	return func(c *Config) { c.APIKey = key }
}

func WithBaseURL(url string) Option {
	return func(c *Config) { c.BaseURL = url }
}

// WithVoice selects the ElevenLabs voice.
func WithVoice(id string) Option {
	return func(c *Config) { c.VoiceID = id }
}

func WithModel(id string) Option {
	return func(c *Config) { c.ModelID = id }
}

func WithFormat(f Format) Option {
	return func(c *Config) { c.Format = f }
}

// WithRetries sets how often rate-limited or failed requests are retried.
func WithRetries(n int, wait time.Duration) Option {
	return func(c *Config) {
		c.Retries = n
		c.RetryWait = wait
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Config) { c.Timeout = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// DefaultConfig returns the voice used for spoken directions.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:    "https://api.elevenlabs.io/v1",
		VoiceID:    DefaultVoiceID,
		ModelID:    ModelFlashV2_5,
		Format:     FormatMP3,
		Stability:  0.5,
		Similarity: 0.75,
		Retries:    2,
		RetryWait:  200 * time.Millisecond,
		Timeout:    httpc.DefaultTimeout,
		Logger:     slog.Default(),
	}
}

// Validate reports the first missing or out-of-range setting.
func (c *Config) Validate() error {
	switch {
	case c.APIKey == "":
		return ErrNoAPIKey
	case c.VoiceID == "":
		return ErrNoVoiceID
	case !c.Format.valid():
		return fmt.Errorf("tts: unsupported format %q", c.Format)
	case c.Stability < 0 || c.Stability > 1 || c.Similarity < 0 || c.Similarity > 1:
		return fmt.Errorf("tts: voice settings must be within [0,1]")
	case c.Retries < 0:
		return fmt.Errorf("tts: retries must not be negative")
	}
	return nil
}

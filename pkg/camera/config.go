// Package camera pulls frames from an MJPEG stream into a frame buffer.
package camera

import (
	"fmt"
	"log/slog"
	"time"
)

// Config holds capture parameters.
type Config struct {
	// StreamURL is an MJPEG endpoint (http://host:81/stream) or a device
	// index such as "0".
	StreamURL string `json:"stream_url"`

	// Quality is the JPEG quality (1-100) frames are re-encoded at.
	Quality int `json:"quality"`

	// Interval is the minimum spacing between stored frames. Zero stores
	// every frame read.
	Interval time.Duration `json:"interval"`

	// ReconnectDelay is the wait before reopening a failed stream.
	ReconnectDelay time.Duration `json:"reconnect_delay"`

	// MaxReadFailures is how many consecutive empty reads trigger a reconnect.
	MaxReadFailures int `json:"max_read_failures"`

	Logger *slog.Logger `json:"-"`
}

// DefaultConfig returns the capture defaults.
func DefaultConfig() Config {
	return Config{
		Quality:         85,
		Interval:        200 * time.Millisecond,
		ReconnectDelay:  2 * time.Second,
		MaxReadFailures: 30,
		Logger:          slog.Default(),
	}
}

// Validate checks if the config values are within valid ranges.
// Returns a list of validation errors, or nil if valid.
func (c *Config) Validate() []string {
	var errors []string

	if c.StreamURL == "" {
		errors = append(errors, "stream_url is required")
	}
	if c.Quality < 1 || c.Quality > 100 {
		errors = append(errors, "quality must be between 1 and 100")
	}
	if c.Interval < 0 {
		errors = append(errors, "interval must not be negative")
	}
	if c.ReconnectDelay < 0 {
		errors = append(errors, "reconnect_delay must not be negative")
	}
	if c.MaxReadFailures < 1 {
		errors = append(errors, "max_read_failures must be at least 1")
	}

	return errors
}

// ConfigError reports invalid capture settings.
type ConfigError struct {
	Problems []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("camera: invalid config: %v", e.Problems)
}

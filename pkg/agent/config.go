// Package agent wires the camera producer, the chain orchestrator and the
// speech and web front ends into one process.
package agent

import (
	"time"

	"github.com/teslashibe/go-wayfinder/pkg/chain"
	"github.com/teslashibe/go-wayfinder/pkg/navigation"
)

// Defaults.
const (
	DefaultPort          = 8080
	DefaultOpenAIModel   = "gpt-4o-mini"
	DefaultGeminiModel   = "gemini-2.0-flash"
	DefaultFrameBuffer   = 5
	DefaultCameraQuality = 85
	DefaultQuery         = "Take me to the nearest restaurant"
)

// Config holds all runtime settings. Field tags match the keys read by
// internal/config.
type Config struct {
	LogLevel string `mapstructure:"log_level"`
	Port     int    `mapstructure:"port"`

	// Reasoning.
	OpenAIAPIKey  string  `mapstructure:"openai_api_key"`
	OpenAIBaseURL string  `mapstructure:"openai_base_url"`
	OpenAIModel   string  `mapstructure:"openai_model"`
	GeminiAPIKey  string  `mapstructure:"gemini_api_key"`
	GeminiModel   string  `mapstructure:"gemini_model"`
	Temperature   float64 `mapstructure:"temperature"`
	MaxTokens     int     `mapstructure:"max_tokens"`
	MaxSteps      int     `mapstructure:"max_steps"`

	// Navigation.
	GoogleMapsAPIKey string `mapstructure:"google_maps_api_key"`
	DefaultLocation  string `mapstructure:"default_location"`
	TravelMode       string `mapstructure:"travel_mode"`

	// Speech.
	ElevenLabsAPIKey  string  `mapstructure:"elevenlabs_api_key"`
	ElevenLabsVoiceID string  `mapstructure:"elevenlabs_voice_id"`
	SpeakResults      bool    `mapstructure:"speak_results"`
	NarrationPace     float64 `mapstructure:"narration_pace"`
	PlayerCommand     string  `mapstructure:"player_command"`

	// Camera.
	CameraStreamURL string        `mapstructure:"camera_stream_url"`
	CameraQuality   int           `mapstructure:"camera_quality"`
	CameraInterval  time.Duration `mapstructure:"camera_interval"`
	FrameBuffer     int           `mapstructure:"frame_buffer"`

	// Agent loop.
	DefaultQuery string        `mapstructure:"default_query"`
	QueryClip    string        `mapstructure:"query_clip"`
	Interval     time.Duration `mapstructure:"interval"`
}

// DefaultConfig returns defaults for every optional setting.
func DefaultConfig() Config {
	return Config{
		LogLevel:        "info",
		Port:            DefaultPort,
		OpenAIModel:     DefaultOpenAIModel,
		GeminiModel:     DefaultGeminiModel,
		Temperature:     0.2,
		MaxTokens:       1000,
		MaxSteps:        chain.DefaultMaxSteps,
		DefaultLocation: navigation.DefaultLocation.String(),
		TravelMode:      navigation.ModeWalking,
		SpeakResults:    true,
		NarrationPace:   1,
		CameraQuality:   DefaultCameraQuality,
		CameraInterval:  200 * time.Millisecond,
		FrameBuffer:     DefaultFrameBuffer,
		DefaultQuery:    DefaultQuery,
	}
}

// Validate checks that required settings are present.
func (c *Config) Validate() error {
	if c.OpenAIAPIKey == "" && c.GeminiAPIKey == "" {
		return &ConfigError{Field: "OpenAIAPIKey", Message: "OPENAI_API_KEY or GEMINI_API_KEY is required"}
	}
	if c.GoogleMapsAPIKey == "" {
		return &ConfigError{Field: "GoogleMapsAPIKey", Message: "GOOGLE_MAPS_API_KEY is required"}
	}
	if (c.SpeakResults || c.QueryClip != "") && c.ElevenLabsAPIKey == "" {
		return &ConfigError{Field: "ElevenLabsAPIKey", Message: "ELEVENLABS_API_KEY is required for speech"}
	}
	if _, err := navigation.ParseLatLng(c.DefaultLocation); err != nil {
		return &ConfigError{Field: "DefaultLocation", Message: "default_location must be \"lat,lng\""}
	}
	if !navigation.ValidMode(c.TravelMode) {
		return &ConfigError{Field: "TravelMode", Message: "travel_mode must be walking, driving, bicycling or transit"}
	}
	if c.MaxSteps < 1 {
		return &ConfigError{Field: "MaxSteps", Message: "max_steps must be at least 1"}
	}
	if c.Port < 0 || c.Port > 65535 {
		return &ConfigError{Field: "Port", Message: "port out of range"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}

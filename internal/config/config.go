// Package config loads agent settings from an optional YAML file and the
// environment.
//
// Precedence, highest first: environment, config file, defaults. Provider
// keys use their conventional names (OPENAI_API_KEY, GOOGLE_MAPS_API_KEY,
// ...); every other key can be set as WAYFINDER_<KEY>.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/teslashibe/go-wayfinder/pkg/agent"
)

// EnvPrefix is prepended to keys read through automatic env binding.
const EnvPrefix = "WAYFINDER"

// envAliases maps config keys to conventional variable names.
var envAliases = map[string][]string{
	"openai_api_key":      {"OPENAI_API_KEY"},
	"openai_base_url":     {"OPENAI_BASE_URL"},
	"openai_model":        {"OPENAI_MODEL"},
	"gemini_api_key":      {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
	"gemini_model":        {"GEMINI_MODEL"},
	"google_maps_api_key": {"GOOGLE_MAPS_API_KEY"},
	"elevenlabs_api_key":  {"ELEVENLABS_API_KEY"},
	"elevenlabs_voice_id": {"ELEVENLABS_VOICE_ID"},
	"camera_stream_url":   {"CAMERA_STREAM_URL"},
	"log_level":           {"LOG_LEVEL"},
	"port":                {"PORT"},
}

// New returns a viper instance with defaults and env bindings installed.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v, agent.DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	for key, names := range envAliases {
		// Prefixed name wins over the conventional one.
		args := append([]string{key, EnvPrefix + "_" + strings.ToUpper(key)}, names...)
		_ = v.BindEnv(args...)
	}
	return v
}

func setDefaults(v *viper.Viper, d agent.Config) {
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("port", d.Port)

	v.SetDefault("openai_api_key", d.OpenAIAPIKey)
	v.SetDefault("openai_base_url", d.OpenAIBaseURL)
	v.SetDefault("openai_model", d.OpenAIModel)
	v.SetDefault("gemini_api_key", d.GeminiAPIKey)
	v.SetDefault("gemini_model", d.GeminiModel)
	v.SetDefault("temperature", d.Temperature)
	v.SetDefault("max_tokens", d.MaxTokens)
	v.SetDefault("max_steps", d.MaxSteps)

	v.SetDefault("google_maps_api_key", d.GoogleMapsAPIKey)
	v.SetDefault("default_location", d.DefaultLocation)
	v.SetDefault("travel_mode", d.TravelMode)

	v.SetDefault("elevenlabs_api_key", d.ElevenLabsAPIKey)
	v.SetDefault("elevenlabs_voice_id", d.ElevenLabsVoiceID)
	v.SetDefault("speak_results", d.SpeakResults)
	v.SetDefault("narration_pace", d.NarrationPace)
	v.SetDefault("player_command", d.PlayerCommand)

	v.SetDefault("camera_stream_url", d.CameraStreamURL)
	v.SetDefault("camera_quality", d.CameraQuality)
	v.SetDefault("camera_interval", d.CameraInterval)
	v.SetDefault("frame_buffer", d.FrameBuffer)

	v.SetDefault("default_query", d.DefaultQuery)
	v.SetDefault("query_clip", d.QueryClip)
	v.SetDefault("interval", d.Interval)
}

// Load reads path (if non-empty) and the environment into an agent.Config.
// The result is not validated; callers decide which settings they need.
func Load(path string) (agent.Config, error) {
	return LoadWith(New(), path)
}

// LoadWith is Load on a caller-supplied viper instance, typically one with
// command-line flags bound.
func LoadWith(v *viper.Viper, path string) (agent.Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return agent.Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg agent.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return agent.Config{}, fmt.Errorf("config: decode: %w", err)
	}
	return cfg, nil
}

package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/teslashibe/go-wayfinder/internal/metrics"
	"github.com/teslashibe/go-wayfinder/pkg/audio"
	"github.com/teslashibe/go-wayfinder/pkg/inference"
	"github.com/teslashibe/go-wayfinder/pkg/navigation"
	"github.com/teslashibe/go-wayfinder/pkg/plan"
	"github.com/teslashibe/go-wayfinder/pkg/reasoning"
	"github.com/teslashibe/go-wayfinder/pkg/stt"
	"github.com/teslashibe/go-wayfinder/pkg/tts"
)

// Build creates the production collaborators from cfg and assembles an
// App. OpenAI is the primary reasoning provider and Gemini the fallback
// when both keys are set.
func Build(ctx context.Context, cfg Config, logger *slog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	plan.SetLogger(logger)
	deps := Deps{Logger: logger}

	provider, err := buildInference(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	deps.Closers = append(deps.Closers, provider.Close)
	deps.Reasoner = reasoning.New(provider,
		reasoning.WithTemperature(cfg.Temperature),
		reasoning.WithMaxTokens(cfg.MaxTokens),
		reasoning.WithLogger(logger),
		reasoning.WithResponseHook(func(r *inference.VisionResponse) {
			metrics.LLMTokensTotal.WithLabelValues("input").Add(float64(r.Usage.PromptTokens))
			metrics.LLMTokensTotal.WithLabelValues("output").Add(float64(r.Usage.CompletionTokens))
			metrics.ReasoningDuration.WithLabelValues(r.Model).Observe(float64(r.LatencyMs) / 1000)
		}),
	)

	nav, err := navigation.NewGoogle(
		navigation.WithAPIKey(cfg.GoogleMapsAPIKey),
		navigation.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("agent: navigation: %w", err)
	}
	deps.Navigator = nav

	if cfg.ElevenLabsAPIKey != "" {
		if cfg.SpeakResults {
			ttsOpts := []tts.Option{tts.WithAPIKey(cfg.ElevenLabsAPIKey), tts.WithLogger(logger)}
			if cfg.ElevenLabsVoiceID != "" {
				ttsOpts = append(ttsOpts, tts.WithVoice(cfg.ElevenLabsVoiceID))
			}
			voice, err := tts.NewElevenLabs(ttsOpts...)
			if err != nil {
				return nil, fmt.Errorf("agent: tts: %w", err)
			}
			deps.Closers = append(deps.Closers, voice.Close)
			deps.Speaker = tts.NewSpeaker(tts.NewCache(voice, 64), NewPlayer(cfg.PlayerCommand, logger), logger)
		}

		transcriber, err := stt.NewElevenLabs(
			stt.WithAPIKey(cfg.ElevenLabsAPIKey),
			stt.WithLogger(logger),
		)
		if err != nil {
			return nil, fmt.Errorf("agent: stt: %w", err)
		}
		deps.Transcriber = transcriber
	}

	return New(cfg, deps)
}

func buildInference(ctx context.Context, cfg Config, logger *slog.Logger) (inference.Provider, error) {
	var providers []inference.Provider

	if cfg.OpenAIAPIKey != "" {
		opts := []inference.Option{
			inference.WithAPIKey(cfg.OpenAIAPIKey),
			inference.WithModel(cfg.OpenAIModel),
			inference.WithMaxImages(cfg.FrameBuffer),
			inference.WithLogger(logger),
		}
		if cfg.OpenAIBaseURL != "" {
			opts = append(opts, inference.WithBaseURL(cfg.OpenAIBaseURL))
		}
		client, err := inference.NewClient(opts...)
		if err != nil {
			return nil, fmt.Errorf("agent: openai: %w", err)
		}
		providers = append(providers, client)
	}

	if cfg.GeminiAPIKey != "" {
		gemini, err := inference.NewGemini(ctx,
			inference.WithAPIKey(cfg.GeminiAPIKey),
			inference.WithModel(cfg.GeminiModel),
			inference.WithMaxImages(cfg.FrameBuffer),
			inference.WithLogger(logger),
		)
		if err != nil {
			return nil, fmt.Errorf("agent: gemini: %w", err)
		}
		providers = append(providers, gemini)
	}

	if len(providers) == 1 {
		return providers[0], nil
	}
	return inference.NewFallback(logger, providers...)
}

// NewPlayer builds an audio player from a command line such as
// "ffplay -nodisp -autoexit -". Empty uses the default command.
func NewPlayer(command string, logger *slog.Logger) *audio.Player {
	opts := []audio.Option{audio.WithLogger(logger)}
	if fields := strings.Fields(command); len(fields) > 0 {
		opts = append(opts, audio.WithCommand(fields[0], fields[1:]...))
	}
	return audio.NewPlayer(opts...)
}

// Package reasoning asks a multimodal model what the action chain should do
// next.
package reasoning

import (
	"context"
	"log/slog"
	"strings"

	"github.com/teslashibe/go-wayfinder/pkg/inference"
)

// Default request parameters.
const (
	DefaultTemperature = 0.2
	DefaultMaxTokens   = 1000
)

// Engine renders prompts and forwards them to an inference provider.
type Engine struct {
	provider    inference.Provider
	model       string
	temperature float64
	maxTokens   int
	onResponse  func(*inference.VisionResponse)
	logger      *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithModel overrides the provider's default model.
func WithModel(model string) Option {
	return func(e *Engine) { e.model = model }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(e *Engine) { e.temperature = t }
}

// WithMaxTokens limits the response length.
func WithMaxTokens(n int) Option {
	return func(e *Engine) { e.maxTokens = n }
}

// WithResponseHook registers a callback that sees every successful
// provider response, for usage accounting.
func WithResponseHook(fn func(*inference.VisionResponse)) Option {
	return func(e *Engine) { e.onResponse = fn }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates an engine over provider.
func New(provider inference.Provider, opts ...Option) *Engine {
	e := &Engine{
		provider:    provider,
		temperature: DefaultTemperature,
		maxTokens:   DefaultMaxTokens,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With("component", "reasoning.engine")
	return e
}

// Reason returns the model's free-text plan for query given the frames and
// the value carried over from the previous action.
func (e *Engine) Reason(ctx context.Context, images []inference.Image, query, prior string) (string, error) {
	resp, err := e.provider.Vision(ctx, &inference.VisionRequest{
		Images:      images,
		Prompt:      BuildPrompt(query, prior),
		Model:       e.model,
		MaxTokens:   e.maxTokens,
		Temperature: e.temperature,
	})
	if err != nil {
		return "", err
	}
	if e.onResponse != nil {
		e.onResponse(resp)
	}

	e.logger.Debug("reasoning response",
		"images", len(images),
		"prior", prior,
		"latency_ms", resp.LatencyMs,
		"chars", len(resp.Content),
	)
	return strings.TrimSpace(resp.Content), nil
}

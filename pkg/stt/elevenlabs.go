package stt

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/teslashibe/go-wayfinder/internal/httpc"
)

const (
	elevenLabsBaseURL  = "https://api.elevenlabs.io/v1"
	providerElevenLabs = "elevenlabs"

	// ModelScribeV1 is the ElevenLabs speech-to-text model.
	ModelScribeV1 = "scribe_v1"
)

// Config holds transcription configuration.
type Config struct {
	APIKey   string
	BaseURL  string
	ModelID  string
	Language string // ISO 639-1; empty lets the service detect it
	Timeout  time.Duration
	Logger   *slog.Logger
}

// Option is a functional option for configuring the transcriber.
type Option func(*Config)

// WithAPIKey sets the API key.
func WithAPIKey(key string) Option {
	return func(c *Config) { c.APIKey = key }
}

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *Config) { c.BaseURL = url }
}

// WithModel sets the model ID.
func WithModel(id string) Option {
	return func(c *Config) { c.ModelID = id }
}

// WithLanguage sets the expected spoken language.
func WithLanguage(code string) Option {
	return func(c *Config) { c.Language = code }
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) { c.Timeout = d }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// DefaultConfig returns defaults for ElevenLabs Scribe.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:  elevenLabsBaseURL,
		ModelID:  ModelScribeV1,
		Language: "en",
		Timeout:  httpc.DefaultTimeout,
		Logger:   slog.Default(),
	}
}

// ElevenLabs transcribes clips with the ElevenLabs speech-to-text API.
type ElevenLabs struct {
	config *Config
	client *resty.Client
	logger *slog.Logger
}

// NewElevenLabs creates a transcriber.
func NewElevenLabs(opts ...Option) (*ElevenLabs, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}

	client := resty.New().
		SetTransport(httpc.NewTransport()).
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("xi-api-key", cfg.APIKey)

	return &ElevenLabs{
		config: cfg,
		client: client,
		logger: cfg.Logger.With("component", "stt.elevenlabs"),
	}, nil
}

type transcriptResponse struct {
	Text         string  `json:"text"`
	LanguageCode string  `json:"language_code"`
	Probability  float64 `json:"language_probability"`
}

type errorResponse struct {
	Detail struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"detail"`
}

// Transcribe uploads the clip as multipart form data.
func (e *ElevenLabs) Transcribe(ctx context.Context, name string, r io.Reader) (string, error) {
	start := time.Now()

	form := map[string]string{"model_id": e.config.ModelID}
	if e.config.Language != "" {
		form["language_code"] = e.config.Language
	}

	var out transcriptResponse
	var apiErr errorResponse
	resp, err := e.client.R().
		SetContext(ctx).
		SetFileReader("file", name, r).
		SetFormData(form).
		SetResult(&out).
		SetError(&apiErr).
		Post("/speech-to-text")
	if err != nil {
		return "", WrapError(providerElevenLabs, err)
	}

	if resp.IsError() {
		msg := apiErr.Detail.Message
		if msg == "" {
			msg = resp.String()
		}
		return "", &APIError{
			StatusCode: resp.StatusCode(),
			Message:    msg,
			Provider:   providerElevenLabs,
		}
	}

	text := strings.TrimSpace(out.Text)
	if text == "" {
		return "", WrapError(providerElevenLabs, ErrNoSpeech)
	}

	e.logger.Debug("transcribed clip",
		"file", name,
		"language", out.LanguageCode,
		"chars", len(text),
		"latency_ms", time.Since(start).Milliseconds(),
	)
	return text, nil
}

// Verify ElevenLabs implements Transcriber at compile time.
var _ Transcriber = (*ElevenLabs)(nil)

// Mock implements Transcriber for testing.
type Mock struct {
	// TranscribeFunc is called when Transcribe is invoked.
	TranscribeFunc func(ctx context.Context, name string, r io.Reader) (string, error)
}

// NewMock returns a mock that transcribes every clip as text.
func NewMock(text string) *Mock {
	return &Mock{
		TranscribeFunc: func(ctx context.Context, name string, r io.Reader) (string, error) {
			if _, err := io.Copy(io.Discard, r); err != nil {
				return "", err
			}
			return text, nil
		},
	}
}

// Transcribe calls TranscribeFunc.
func (m *Mock) Transcribe(ctx context.Context, name string, r io.Reader) (string, error) {
	if m.TranscribeFunc == nil {
		return "", fmt.Errorf("stt mock: no TranscribeFunc")
	}
	return m.TranscribeFunc(ctx, name, r)
}

var _ Transcriber = (*Mock)(nil)

package tts

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/teslashibe/go-wayfinder/internal/httpc"
)

// ElevenLabs synthesizes speech with the ElevenLabs text-to-speech API.
type ElevenLabs struct {
	config *Config
	client *resty.Client
	logger *slog.Logger
}

type synthesisRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

type errorResponse struct {
	Detail struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"detail"`
}

// NewElevenLabs creates the provider.
func NewElevenLabs(opts ...Option) (*ElevenLabs, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger.With("component", "tts.elevenlabs")

	client := resty.New().
		SetTransport(httpc.NewTransport()).
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("xi-api-key", cfg.APIKey).
		SetRetryCount(cfg.Retries).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(cfg.RetryWait * 4).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil || r == nil {
				return false
			}
			code := r.StatusCode()
			retry := code == http.StatusTooManyRequests || code >= 500
			if retry {
				logger.Warn("retrying synthesis", "status", code, "attempt", r.Request.Attempt)
			}
			return retry
		})

	return &ElevenLabs{config: cfg, client: client, logger: logger}, nil
}

// Synthesize returns the whole clip for text.
func (e *ElevenLabs) Synthesize(ctx context.Context, text string) (*Clip, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}
	start := time.Now()

	var apiErr errorResponse
	resp, err := e.client.R().
		SetContext(ctx).
		SetPathParam("voice", e.config.VoiceID).
		SetQueryParam("output_format", string(e.config.Format)).
		SetHeader("Accept", e.config.Format.MIMEType()).
		SetBody(synthesisRequest{
			Text:    text,
			ModelID: e.config.ModelID,
			VoiceSettings: voiceSettings{
				Stability:       e.config.Stability,
				SimilarityBoost: e.config.Similarity,
			},
		}).
		SetError(&apiErr).
		Post("/text-to-speech/{voice}")
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}
	if resp.IsError() {
		msg := apiErr.Detail.Message
		if msg == "" {
			msg = strings.TrimSpace(resp.String())
		}
		return nil, &APIError{StatusCode: resp.StatusCode(), Status: apiErr.Detail.Status, Message: msg}
	}

	clip := &Clip{
		Audio:   resp.Body(),
		Format:  e.config.Format,
		Chars:   len(text),
		Latency: time.Since(start),
	}
	e.logger.Debug("synthesized",
		"chars", clip.Chars,
		"bytes", len(clip.Audio),
		"latency_ms", clip.Latency.Milliseconds(),
	)
	return clip, nil
}

// Close drops idle connections.
func (e *ElevenLabs) Close() error {
	e.client.GetClient().CloseIdleConnections()
	return nil
}

var _ Provider = (*ElevenLabs)(nil)

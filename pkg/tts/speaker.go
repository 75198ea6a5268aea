package tts

import (
	"context"
	"log/slog"
	"strings"
)

// Player plays one encoded clip to completion.
type Player interface {
	Play(ctx context.Context, data []byte) error
}

// Speaker synthesizes text and plays the result.
type Speaker struct {
	provider Provider
	player   Player
	logger   *slog.Logger
}

// NewSpeaker pairs a provider with a player. A nil logger uses slog.Default.
func NewSpeaker(provider Provider, player Player, logger *slog.Logger) *Speaker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Speaker{
		provider: provider,
		player:   player,
		logger:   logger.With("component", "tts.speaker"),
	}
}

// Speak says text aloud and returns once playback has finished.
// Blank text is ignored.
func (s *Speaker) Speak(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	result, err := s.provider.Synthesize(ctx, text)
	if err != nil {
		return err
	}

	s.logger.Debug("speaking", "chars", result.Chars, "duration", result.Duration())
	return s.player.Play(ctx, result.Audio)
}

// Package audio plays encoded audio through an external decoder process.
package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"sync"
)

// DefaultCommand decodes any container ffmpeg understands from stdin and
// exits when playback finishes.
var DefaultCommand = []string{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet", "-"}

// ErrNoCommand is returned when the player has no command configured.
var ErrNoCommand = errors.New("audio: no player command")

// Player pipes audio bytes to a playback command, one clip at a time.
type Player struct {
	command []string
	logger  *slog.Logger

	// Callbacks
	OnPlaybackStart func()
	OnPlaybackEnd   func()

	// playMu serializes clips; mu guards cmd and speaking.
	playMu   sync.Mutex
	mu       sync.Mutex
	cmd      *exec.Cmd
	speaking bool
}

// Option configures a Player.
type Option func(*Player)

// WithCommand replaces the playback command. The clip is written to its stdin.
func WithCommand(name string, args ...string) Option {
	return func(p *Player) { p.command = append([]string{name}, args...) }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Player) { p.logger = l }
}

// NewPlayer creates a player using DefaultCommand unless overridden.
func NewPlayer(opts ...Option) *Player {
	p := &Player{
		command: DefaultCommand,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With("component", "audio.player")
	return p
}

// Play writes data to a fresh playback process and waits for it to exit.
// Concurrent calls queue behind each other.
func (p *Player) Play(ctx context.Context, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if len(p.command) == 0 {
		return ErrNoCommand
	}

	p.playMu.Lock()
	defer p.playMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, p.command[0], p.command[1:]...)
	cmd.Stdin = bytes.NewReader(data)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start playback: %w", err)
	}

	p.setPlaying(cmd, true)
	if p.OnPlaybackStart != nil {
		p.OnPlaybackStart()
	}

	err := cmd.Wait()

	p.setPlaying(nil, false)
	if p.OnPlaybackEnd != nil {
		p.OnPlaybackEnd()
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		p.logger.Warn("playback failed", "error", err, "stderr", stderr.String())
		return fmt.Errorf("playback: %w", err)
	}

	p.logger.Debug("playback complete", "bytes", len(data))
	return nil
}

// Cancel stops any current playback immediately.
func (p *Player) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cmd != nil && p.cmd.Process != nil {
		p.cmd.Process.Kill()
	}
}

// IsSpeaking returns whether a clip is currently playing.
func (p *Player) IsSpeaking() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.speaking
}

func (p *Player) setPlaying(cmd *exec.Cmd, speaking bool) {
	p.mu.Lock()
	p.cmd = cmd
	p.speaking = speaking
	p.mu.Unlock()
}

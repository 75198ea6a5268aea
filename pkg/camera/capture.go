package camera

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// ErrStreamClosed is returned by a FrameSource once the stream has ended.
var ErrStreamClosed = errors.New("camera: stream closed")

// FrameSource yields JPEG frames from an open stream.
type FrameSource interface {
	// Next blocks for the next frame. A nil frame with a nil error means
	// the read came back empty.
	Next() ([]byte, error)
	Close() error
}

// Opener opens a fresh FrameSource for a stream URL.
type Opener func(url string, quality int) (FrameSource, error)

// Sink receives captured frames.
type Sink interface {
	Add(jpeg []byte)
}

// Capture keeps a Sink fed from a stream, reopening it on failure.
type Capture struct {
	cfg  Config
	open Opener
	sink Sink

	logger *slog.Logger

	// OnFrame is called after each stored frame.
	OnFrame func()
	// OnReconnect is called before each reopen attempt.
	OnReconnect func(err error)
}

// NewCapture validates cfg and returns a capture loop. A nil opener uses
// OpenStream.
func NewCapture(cfg Config, open Opener, sink Sink) (*Capture, error) {
	if problems := cfg.Validate(); len(problems) > 0 {
		return nil, &ConfigError{Problems: problems}
	}
	if open == nil {
		open = OpenStream
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Capture{
		cfg:    cfg,
		open:   open,
		sink:   sink,
		logger: logger.With("component", "camera.capture", "url", cfg.StreamURL),
	}, nil
}

// Run captures until ctx is cancelled. It only returns ctx.Err().
// Cancellation is noticed between reads, so a stalled stream delays it
// by at most one read timeout.
func (c *Capture) Run(ctx context.Context) error {
	for {
		err := c.session(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		c.logger.Warn("stream interrupted", "error", err, "retry_in", c.cfg.ReconnectDelay)
		if c.OnReconnect != nil {
			c.OnReconnect(err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.cfg.ReconnectDelay):
		}
	}
}

// session reads from one opened source until it fails.
func (c *Capture) session(ctx context.Context) error {
	src, err := c.open(c.cfg.StreamURL, c.cfg.Quality)
	if err != nil {
		return err
	}

	defer src.Close()

	c.logger.Info("stream opened")

	var last time.Time
	failures := 0
	for {
		frame, err := src.Next()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			return err
		}
		if len(frame) == 0 {
			failures++
			if failures >= c.cfg.MaxReadFailures {
				return errors.New("camera: too many empty reads")
			}
			continue
		}
		failures = 0

		if c.cfg.Interval > 0 && !last.IsZero() && time.Since(last) < c.cfg.Interval {
			continue
		}
		last = time.Now()

		c.sink.Add(frame)
		if c.OnFrame != nil {
			c.OnFrame()
		}
	}
}

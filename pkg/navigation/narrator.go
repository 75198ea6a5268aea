package navigation

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Speaker voices a line of text.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// Narrator reads route instructions aloud, waiting each step's travel time
// before announcing the next one.
type Narrator struct {
	speaker Speaker
	pace    float64
	logger  *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewNarrator creates a narrator. Pace scales step durations: 1 waits in
// real time, 0 does not wait at all.
func NewNarrator(speaker Speaker, pace float64, logger *slog.Logger) *Narrator {
	if logger == nil {
		logger = slog.Default()
	}
	if pace < 0 {
		pace = 0
	}
	return &Narrator{
		speaker: speaker,
		pace:    pace,
		logger:  logger.With("component", "navigation.narrator"),
	}
}

// Walk narrates route synchronously.
func (n *Narrator) Walk(ctx context.Context, route *Route) error {
	if route == nil {
		return nil
	}

	for i, step := range route.Steps {
		if step.Instruction == "" {
			continue
		}

		n.logger.Info("direction", "step", i+1, "of", len(route.Steps), "instruction", step.Instruction)
		if err := n.speaker.Speak(ctx, step.Instruction); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			n.logger.Warn("speak step failed", "step", i+1, "error", err)
		}

		wait := time.Duration(float64(step.Duration) * n.pace)
		if wait <= 0 {
			continue
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return nil
}

// Start narrates route in the background, cancelling any walkthrough
// already in progress.
func (n *Narrator) Start(ctx context.Context, route *Route) {
	n.Stop()

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	n.mu.Lock()
	n.cancel = cancel
	n.done = done
	n.mu.Unlock()

	go func() {
		defer close(done)
		defer cancel()
		if err := n.Walk(ctx, route); err != nil && !errors.Is(err, context.Canceled) {
			n.logger.Warn("narration stopped", "error", err)
		}
	}()
}

// Stop cancels the current walkthrough and waits for it to exit.
func (n *Narrator) Stop() {
	n.mu.Lock()
	cancel, done := n.cancel, n.done
	n.cancel, n.done = nil, nil
	n.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// Wait blocks until the current walkthrough finishes.
func (n *Narrator) Wait() {
	n.mu.Lock()
	done := n.done
	n.mu.Unlock()

	if done != nil {
		<-done
	}
}

package audio

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestPlayWritesToCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "clip.mp3")
	p := NewPlayer(WithCommand("sh", "-c", "cat > "+out))

	var started, ended atomic.Int32
	p.OnPlaybackStart = func() { started.Add(1) }
	p.OnPlaybackEnd = func() { ended.Add(1) }

	if err := p.Play(context.Background(), []byte("ID3 fake audio")); err != nil {
		t.Fatalf("Play failed: %v", err)
	}

	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	if string(got) != "ID3 fake audio" {
		t.Errorf("Expected clip bytes, got %q", got)
	}
	if started.Load() != 1 || ended.Load() != 1 {
		t.Errorf("Expected one start and one end callback, got %d and %d", started.Load(), ended.Load())
	}
	if p.IsSpeaking() {
		t.Error("Expected player idle after playback")
	}
}

func TestPlayEmptyIsNoop(t *testing.T) {
	p := NewPlayer(WithCommand("false"))
	if err := p.Play(context.Background(), nil); err != nil {
		t.Errorf("Expected nil for empty clip, got %v", err)
	}
}

func TestPlayCommandFailure(t *testing.T) {
	p := NewPlayer(WithCommand("sh", "-c", "exit 3"))
	if err := p.Play(context.Background(), []byte("x")); err == nil {
		t.Error("Expected error from failing command")
	}
}

func TestPlayMissingCommand(t *testing.T) {
	p := NewPlayer(WithCommand("wayfinder-no-such-player"))
	if err := p.Play(context.Background(), []byte("x")); err == nil {
		t.Error("Expected error for missing binary")
	}

	empty := &Player{}
	if err := empty.Play(context.Background(), []byte("x")); err != ErrNoCommand {
		t.Errorf("Expected ErrNoCommand, got %v", err)
	}
}

func TestPlayCancelledByContext(t *testing.T) {
	p := NewPlayer(WithCommand("sleep", "10"))
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := p.Play(ctx, []byte("x"))
	if err != context.DeadlineExceeded {
		t.Errorf("Expected DeadlineExceeded, got %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("Expected playback to stop promptly")
	}
}

func TestCancelStopsPlayback(t *testing.T) {
	p := NewPlayer(WithCommand("sleep", "10"))

	done := make(chan error, 1)
	go func() { done <- p.Play(context.Background(), []byte("x")) }()

	deadline := time.Now().Add(2 * time.Second)
	for !p.IsSpeaking() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	p.Cancel()

	select {
	case err := <-done:
		if err == nil {
			t.Error("Expected error from killed playback")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Cancel did not stop playback")
	}
}

package navigation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"
)

type recordingSpeaker struct {
	mu    sync.Mutex
	lines []string
	err   error
}

func (s *recordingSpeaker) Speak(ctx context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, text)
	return s.err
}

func (s *recordingSpeaker) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lines...)
}

func testRoute(stepDuration time.Duration) *Route {
	return &Route{
		Steps: []RouteStep{
			{Instruction: "Head north", Duration: stepDuration},
			{Instruction: "", Duration: stepDuration},
			{Instruction: "Arrive", Duration: stepDuration},
		},
	}
}

func TestNarratorWalk(t *testing.T) {
	speaker := &recordingSpeaker{}
	n := NewNarrator(speaker, 0, nil)

	if err := n.Walk(context.Background(), testRoute(time.Hour)); err != nil {
		t.Fatalf("Walk failed: %v", err)
	}

	lines := speaker.Lines()
	if len(lines) != 2 {
		t.Fatalf("Expected 2 spoken lines, got %d", len(lines))
	}
	if lines[0] != "Head north" || lines[1] != "Arrive" {
		t.Errorf("Unexpected lines: %v", lines)
	}
}

func TestNarratorWalkContinuesOnSpeakError(t *testing.T) {
	speaker := &recordingSpeaker{err: errors.New("speaker offline")}
	n := NewNarrator(speaker, 0, nil)

	if err := n.Walk(context.Background(), testRoute(0)); err != nil {
		t.Fatalf("Walk failed: %v", err)
	}
	if len(speaker.Lines()) != 2 {
		t.Errorf("Expected every step attempted, got %d", len(speaker.Lines()))
	}
}

func TestNarratorPacing(t *testing.T) {
	speaker := &recordingSpeaker{}
	n := NewNarrator(speaker, 0.001, nil)

	start := time.Now()
	if err := n.Walk(context.Background(), testRoute(10*time.Second)); err != nil {
		t.Fatalf("Walk failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("Expected paced walk to take at least 20ms, took %v", elapsed)
	}
}

func TestNarratorStopCancels(t *testing.T) {
	defer goleak.VerifyNone(t)

	speaker := &recordingSpeaker{}
	n := NewNarrator(speaker, 1, nil)

	n.Start(context.Background(), testRoute(time.Hour))

	deadline := time.Now().Add(time.Second)
	for len(speaker.Lines()) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	done := make(chan struct{})
	go func() {
		n.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}

	if len(speaker.Lines()) != 1 {
		t.Errorf("Expected walkthrough to stop after first step, got %v", speaker.Lines())
	}
}

func TestNarratorStartReplaces(t *testing.T) {
	defer goleak.VerifyNone(t)

	speaker := &recordingSpeaker{}
	n := NewNarrator(speaker, 1, nil)

	n.Start(context.Background(), testRoute(time.Hour))
	n.Start(context.Background(), &Route{Steps: []RouteStep{{Instruction: "Second route"}}})
	n.Wait()

	lines := speaker.Lines()
	if lines[len(lines)-1] != "Second route" {
		t.Errorf("Expected last line from second route, got %v", lines)
	}
}

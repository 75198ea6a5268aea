package framebuf

import (
	"encoding/base64"
	"fmt"
	"sync"
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestDropOldest(t *testing.T) {
	b := New(3)
	for i := 1; i <= 5; i++ {
		b.Add([]byte{byte(i)})
	}

	snap := b.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("Expected 3 frames, got %d", len(snap))
	}
	for i, want := range []byte{3, 4, 5} {
		if snap[i][0] != want {
			t.Errorf("Frame %d: expected %d, got %d", i, want, snap[i][0])
		}
	}

	latest, ok := b.Latest()
	if !ok || latest.JPEG[0] != 5 {
		t.Errorf("Expected latest frame 5, got %v", latest.JPEG)
	}
	if b.Total() != 5 {
		t.Errorf("Expected total 5, got %d", b.Total())
	}
}

func TestPartiallyFilled(t *testing.T) {
	b := New(0)
	if b.Cap() != DefaultCapacity {
		t.Errorf("Expected default capacity %d, got %d", DefaultCapacity, b.Cap())
	}
	if _, ok := b.Latest(); ok {
		t.Error("Expected no latest frame when empty")
	}

	b.Add([]byte("a"))
	b.Add([]byte("b"))

	if b.Len() != 2 {
		t.Errorf("Expected 2 frames, got %d", b.Len())
	}
	got := b.SnapshotBase64()
	want := []string{
		base64.StdEncoding.EncodeToString([]byte("a")),
		base64.StdEncoding.EncodeToString([]byte("b")),
	}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestSnapshotIsolation(t *testing.T) {
	b := New(2)
	src := []byte("frame")
	b.Add(src)
	src[0] = 'X'

	snap := b.Snapshot()
	if string(snap[0]) != "frame" {
		t.Errorf("Buffer aliased caller slice: %q", snap[0])
	}

	snap[0][0] = 'Y'
	if string(b.Snapshot()[0]) != "frame" {
		t.Error("Snapshot aliased buffer storage")
	}
}

func TestUpdatedSignal(t *testing.T) {
	b := New(2)
	b.Add([]byte("a"))
	b.Add([]byte("b"))

	select {
	case <-b.Updated():
	default:
		t.Fatal("Expected an update signal")
	}
	select {
	case <-b.Updated():
		t.Error("Expected signals to coalesce")
	default:
	}
}

func TestConcurrentAccess(t *testing.T) {
	b := New(DefaultCapacity)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			b.Add([]byte{byte(i)})
		}
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				if n := len(b.Snapshot()); n > DefaultCapacity {
					t.Errorf("Snapshot exceeded capacity: %d", n)
					return
				}
			}
		}()
	}

	wg.Wait()
	if b.Len() != DefaultCapacity {
		t.Errorf("Expected full buffer, got %d", b.Len())
	}
}

// Package framebuf keeps the most recent camera frames for the reasoning
// step. Producers add JPEG frames; consumers take consistent snapshots.
package framebuf

import (
	"bytes"
	"encoding/base64"
	"sync"
	"time"
)

// DefaultCapacity is the number of frames kept.
const DefaultCapacity = 5

// Frame is one encoded image and its capture time.
type Frame struct {
	JPEG []byte
	At   time.Time
}

// Buffer is a bounded, drop-oldest ring of frames. It is safe for
// concurrent use by one producer and any number of readers.
type Buffer struct {
	mu     sync.Mutex
	frames []Frame
	next   int // write position once full
	cap    int
	total  uint64
	notify chan struct{}
}

// New creates a buffer holding up to capacity frames. Non-positive values
// use DefaultCapacity.
func New(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{
		frames: make([]Frame, 0, capacity),
		cap:    capacity,
		notify: make(chan struct{}, 1),
	}
}

// Add stores a copy of jpeg, evicting the oldest frame when full.
func (b *Buffer) Add(jpeg []byte) {
	f := Frame{JPEG: append([]byte(nil), jpeg...), At: time.Now()}

	b.mu.Lock()
	if len(b.frames) < b.cap {
		b.frames = append(b.frames, f)
	} else {
		b.frames[b.next] = f
		b.next = (b.next + 1) % b.cap
	}
	b.total++
	b.mu.Unlock()

	select {
	case b.notify <- struct{}{}:
	default:
	}
}

// Frames returns the buffered frames, oldest first. The JPEG slices are
// shared with the buffer and must not be modified.
func (b *Buffer) Frames() []Frame {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Frame, 0, len(b.frames))
	out = append(out, b.frames[b.next:]...)
	out = append(out, b.frames[:b.next]...)
	return out
}

// Snapshot returns the JPEG bytes of the buffered frames, oldest first.
// Slices are not shared with the buffer.
func (b *Buffer) Snapshot() [][]byte {
	frames := b.Frames()
	out := make([][]byte, len(frames))
	for i, f := range frames {
		out[i] = bytes.Clone(f.JPEG)
	}
	return out
}

// SnapshotBase64 returns the buffered frames as standard base64 strings.
func (b *Buffer) SnapshotBase64() []string {
	frames := b.Frames()
	out := make([]string, len(frames))
	for i, f := range frames {
		out[i] = base64.StdEncoding.EncodeToString(f.JPEG)
	}
	return out
}

// Latest returns the newest frame, or false when empty.
func (b *Buffer) Latest() (Frame, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.frames) == 0 {
		return Frame{}, false
	}
	i := len(b.frames) - 1
	if len(b.frames) == b.cap {
		i = (b.next + b.cap - 1) % b.cap
	}
	return b.frames[i], true
}

// Len returns the number of buffered frames.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.frames)
}

// Cap returns the buffer capacity.
func (b *Buffer) Cap() int {
	return b.cap
}

// Total returns how many frames have ever been added.
func (b *Buffer) Total() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.total
}

// Updated is signalled (coalesced) whenever a frame is added.
func (b *Buffer) Updated() <-chan struct{} {
	return b.notify
}

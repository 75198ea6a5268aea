package tts

import (
	"context"
	"sync"
)

// Mock implements Provider for tests. By default each clip is the text's
// bytes prefixed with "audio:".
type Mock struct {
	SynthesizeFunc func(ctx context.Context, text string) (*Clip, error)

	mu    sync.Mutex
	texts []string
}

func NewMock() *Mock {
	return &Mock{
		SynthesizeFunc: func(ctx context.Context, text string) (*Clip, error) {
			return &Clip{Audio: []byte("audio:" + text), Format: FormatMP3, Chars: len(text)}, nil
		},
	}
}

// Synthesize records text and calls SynthesizeFunc.
func (m *Mock) Synthesize(ctx context.Context, text string) (*Clip, error) {
	m.mu.Lock()
	m.texts = append(m.texts, text)
	m.mu.Unlock()
	return m.SynthesizeFunc(ctx, text)
}

func (m *Mock) Close() error { return nil }

// Texts returns every synthesized text in call order.
func (m *Mock) Texts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.texts...)
}

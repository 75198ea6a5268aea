package tts

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// MaxCachedChars bounds the length of text kept by Cache. Route
// instructions are short and repeat across walkthroughs; full answers
// rarely do.
const MaxCachedChars = 160

// Cache remembers clips for short phrases. Concurrent requests for the
// same phrase share one synthesis call. Entries are evicted oldest first.
type Cache struct {
	provider Provider
	size     int

	group singleflight.Group

	mu    sync.Mutex
	clips map[string]*Clip
	order []string
	hits  int
}

// NewCache wraps provider with room for size phrases.
func NewCache(provider Provider, size int) *Cache {
	if size < 1 {
		size = 1
	}
	return &Cache{provider: provider, size: size, clips: make(map[string]*Clip, size)}
}

// Synthesize implements Provider.
func (c *Cache) Synthesize(ctx context.Context, text string) (*Clip, error) {
	if len(text) > MaxCachedChars {
		return c.provider.Synthesize(ctx, text)
	}

	c.mu.Lock()
	if clip, ok := c.clips[text]; ok {
		c.hits++
		c.mu.Unlock()
		return clip, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do(text, func() (any, error) {
		clip, err := c.provider.Synthesize(ctx, text)
		if err != nil {
			return nil, err
		}
		c.store(text, clip)
		return clip, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Clip), nil
}

func (c *Cache) store(text string, clip *Clip) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.clips[text]; ok {
		return
	}
	if len(c.order) == c.size {
		delete(c.clips, c.order[0])
		c.order = c.order[1:]
	}
	c.clips[text] = clip
	c.order = append(c.order, text)
}

// Hits returns how many requests were served from memory.
func (c *Cache) Hits() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits
}

// Close closes the wrapped provider.
func (c *Cache) Close() error {
	return c.provider.Close()
}

var _ Provider = (*Cache)(nil)

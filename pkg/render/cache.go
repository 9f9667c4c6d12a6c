package render

import (
	"sync"

	"github.com/goliatone/go-barber/pkg/model"
)

// Cache memoises resolved renderers by key. It is safe for concurrent use.
type Cache struct {
	mu        sync.RWMutex
	renderers map[model.RendererKey]*Renderer
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		renderers: make(map[model.RendererKey]*Renderer),
	}
}

// Get returns the cached renderer for key.
func (c *Cache) Get(key model.RendererKey) (*Renderer, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	renderer, ok := c.renderers[key]
	return renderer, ok
}

// Store caches renderer under its key unless one is already present, and
// returns whichever renderer the cache holds afterwards.
func (c *Cache) Store(renderer *Renderer) *Renderer {
	key := renderer.Key()

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.renderers[key]; ok {
		return existing
	}
	c.renderers[key] = renderer
	return renderer
}

// Len reports the number of cached renderers.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.renderers)
}

// Reset drops every cached renderer.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.renderers)
}

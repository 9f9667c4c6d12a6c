package render

import (
	"iter"
	"slices"

	"github.com/goliatone/go-barber/pkg/model"
)

// Catalog holds one renderer per (copy model, document spec) pair in the
// order the pairs were first resolved.
type Catalog struct {
	keys    []model.RendererKey
	entries map[model.RendererKey]*Renderer
}

func newCatalog() *Catalog {
	return &Catalog{entries: make(map[model.RendererKey]*Renderer)}
}

// put inserts renderer under its key. A repeated key replaces the renderer
// and keeps its original position.
func (c *Catalog) put(renderer *Renderer) {
	key := renderer.Key()
	if _, exists := c.entries[key]; !exists {
		c.keys = append(c.keys, key)
	}
	c.entries[key] = renderer
}

// Keys returns the catalog keys in order.
func (c *Catalog) Keys() []model.RendererKey {
	return slices.Clone(c.keys)
}

// Get returns the renderer for key.
func (c *Catalog) Get(key model.RendererKey) (*Renderer, bool) {
	renderer, ok := c.entries[key]
	return renderer, ok
}

// Len reports the number of renderers.
func (c *Catalog) Len() int {
	return len(c.keys)
}

// All iterates the catalog in key order.
func (c *Catalog) All() iter.Seq2[model.RendererKey, *Renderer] {
	return func(yield func(model.RendererKey, *Renderer) bool) {
		for _, key := range c.keys {
			if !yield(key, c.entries[key]) {
				return
			}
		}
	}
}

package barber

import (
	"fmt"

	"github.com/goliatone/go-barber/pkg/model"
	"github.com/goliatone/go-barber/pkg/render"
)

// Renderer renders C copy models into D documents.
type Renderer[C, D any] struct {
	inner *render.Renderer
}

// NewRenderer resolves the renderer binding C to D. The type names come from
// model.IDOf, so C and D may implement model.Named to override them.
func NewRenderer[C, D any](b *Barber) (*Renderer[C, D], error) {
	inner, err := b.NewRenderer(model.IDOf[C](), model.IDOf[D]())
	if err != nil {
		return nil, err
	}
	return &Renderer[C, D]{inner: inner}, nil
}

// Render renders instance into a D.
func (r *Renderer[C, D]) Render(instance C) (D, error) {
	var zero D

	out, err := r.inner.Render(instance)
	if err != nil {
		return zero, err
	}
	doc, ok := out.(D)
	if !ok {
		return zero, &render.RenderFailureError{
			Key:    r.inner.Key(),
			Reason: fmt.Sprintf("descriptor built %T, want %T", out, zero),
		}
	}
	return doc, nil
}

// Key returns the copy model and document spec pair.
func (r *Renderer[C, D]) Key() RendererKey {
	return r.inner.Key()
}

// Fields returns the reconciled template map.
func (r *Renderer[C, D]) Fields() map[string]*string {
	return r.inner.Fields()
}

// Untyped returns the underlying renderer.
func (r *Renderer[C, D]) Untyped() *render.Renderer {
	return r.inner
}

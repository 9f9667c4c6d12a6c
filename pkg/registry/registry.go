// Package registry holds the installed DocumentCopy template definitions,
// keyed by copy model type. A Registry is validated and populated once at
// construction and is read-only afterwards, so lookups need no locking.
package registry

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-barber/pkg/model"
)

// Registry maps copy model types to their installed DocumentCopy.
type Registry struct {
	order  []model.TypeID
	copies map[model.TypeID]model.DocumentCopy
}

// New validates and installs copies. Installation order is preserved and
// drives catalog iteration.
func New(copies ...model.DocumentCopy) (*Registry, error) {
	r := &Registry{
		order:  make([]model.TypeID, 0, len(copies)),
		copies: make(map[model.TypeID]model.DocumentCopy, len(copies)),
	}

	for _, dc := range copies {
		if err := validate(dc); err != nil {
			return nil, err
		}
		if prior, exists := r.copies[dc.Source]; exists {
			return nil, fmt.Errorf("registry: copy model %q installed twice (%s, %s)", dc.Source, originOf(prior), originOf(dc))
		}
		r.copies[dc.Source] = dc.Clone()
		r.order = append(r.order, dc.Source)
	}
	return r, nil
}

// MustNew is New that panics on error. Useful for init-time wiring.
func MustNew(copies ...model.DocumentCopy) *Registry {
	r, err := New(copies...)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the DocumentCopy installed for a copy model type. The
// result is a copy; mutating it does not affect the registry.
func (r *Registry) Lookup(source model.TypeID) (model.DocumentCopy, bool) {
	if r == nil {
		return model.DocumentCopy{}, false
	}
	dc, ok := r.copies[source]
	if !ok {
		return model.DocumentCopy{}, false
	}
	return dc.Clone(), true
}

// All returns every installed DocumentCopy in installation order.
func (r *Registry) All() []model.DocumentCopy {
	if r == nil {
		return nil
	}
	out := make([]model.DocumentCopy, 0, len(r.order))
	for _, source := range r.order {
		out = append(out, r.copies[source].Clone())
	}
	return out
}

// Sources returns the installed copy model types in installation order.
func (r *Registry) Sources() []model.TypeID {
	if r == nil {
		return nil
	}
	return append([]model.TypeID(nil), r.order...)
}

// Len reports the number of installed copies.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.order)
}

func validate(dc model.DocumentCopy) error {
	if strings.TrimSpace(string(dc.Source)) == "" {
		return fmt.Errorf("registry: document copy from %s has no source copy model", originOf(dc))
	}
	if len(dc.Targets) == 0 {
		return fmt.Errorf("registry: document copy for %q declares no targets", dc.Source)
	}

	seen := make(map[model.TypeID]struct{}, len(dc.Targets))
	for idx, target := range dc.Targets {
		if strings.TrimSpace(string(target)) == "" {
			return fmt.Errorf("registry: document copy for %q has a blank target at index %d", dc.Source, idx)
		}
		if _, exists := seen[target]; exists {
			return fmt.Errorf("registry: document copy for %q lists target %q twice", dc.Source, target)
		}
		seen[target] = struct{}{}
	}

	for name := range dc.Fields {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("registry: document copy for %q has a blank field name", dc.Source)
		}
	}
	return nil
}

func originOf(dc model.DocumentCopy) string {
	if dc.Origin == "" {
		return "code"
	}
	return dc.Origin
}

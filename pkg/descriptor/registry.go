package descriptor

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-barber/pkg/model"
)

// Registry stores descriptors by type and implements Provider. It is safe for
// concurrent use; registration normally happens once during installation.
type Registry struct {
	mu          sync.RWMutex
	descriptors map[model.TypeID]Descriptor
}

// Ensure Registry implements Provider.
var _ Provider = (*Registry)(nil)

// NewRegistry creates an empty registry, optionally seeded with descriptors.
func NewRegistry(descriptors ...Descriptor) (*Registry, error) {
	r := &Registry{
		descriptors: make(map[model.TypeID]Descriptor),
	}
	for _, d := range descriptors {
		if err := r.Register(d); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a descriptor by its Type(). Duplicate types return an error.
func (r *Registry) Register(d Descriptor) error {
	if d == nil {
		return fmt.Errorf("descriptor: descriptor is required")
	}
	id := d.Type()
	if strings.TrimSpace(string(id)) == "" {
		return fmt.Errorf("descriptor: descriptor type is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.descriptors[id]; exists {
		return fmt.Errorf("descriptor: type %q already registered", id)
	}
	r.descriptors[id] = d
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(d Descriptor) {
	if err := r.Register(d); err != nil {
		panic(err)
	}
}

// Describe implements Provider.
func (r *Registry) Describe(id model.TypeID) (Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.descriptors[id]
	if !ok {
		return nil, &NoAccessibleConstructorError{Type: id, Reason: "type is not registered"}
	}
	return d, nil
}

// Has reports whether a descriptor is registered for id.
func (r *Registry) Has(id model.TypeID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.descriptors[id]
	return ok
}

// List returns the registered types sorted by name.
func (r *Registry) List() []model.TypeID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]model.TypeID, 0, len(r.descriptors))
	for id := range r.descriptors {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

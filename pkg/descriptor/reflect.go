package descriptor

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/goliatone/go-barber/internal/introspect"
	"github.com/goliatone/go-barber/pkg/model"
)

// StructDescriptor describes a Go struct document spec. Build returns a D.
type StructDescriptor[D any] struct {
	id      model.TypeID
	fields  []introspect.Field
	spec    []Field
	pointer bool
}

// Reflect builds a descriptor for D, which must be a struct or a pointer to
// a struct. Field names come from the `barber` tag, then the `json` tag, then
// the Go field name. Pointer fields, and fields tagged `barber:",optional"`,
// are optional. Supported field types are string, *string and types
// implementing encoding.TextUnmarshaler (by pointer).
func Reflect[D any]() (*StructDescriptor[D], error) {
	id := model.IDOf[D]()
	t := reflect.TypeFor[D]()

	fields, err := introspect.Fields(t)
	if err != nil {
		return nil, &NoAccessibleConstructorError{Type: id, Reason: err.Error()}
	}

	spec := make([]Field, len(fields))
	for i, field := range fields {
		spec[i] = Field{Name: field.Name, Optional: field.Optional}
	}

	return &StructDescriptor[D]{
		id:      id,
		fields:  fields,
		spec:    spec,
		pointer: t.Kind() == reflect.Pointer,
	}, nil
}

// Register reflects D and adds it to the registry.
func Register[D any](r *Registry) error {
	d, err := Reflect[D]()
	if err != nil {
		return err
	}
	return r.Register(d)
}

// Type implements Descriptor.
func (d *StructDescriptor[D]) Type() model.TypeID {
	return d.id
}

// Fields implements Descriptor.
func (d *StructDescriptor[D]) Fields() []Field {
	return slices.Clone(d.spec)
}

// Build implements Descriptor and returns a D.
func (d *StructDescriptor[D]) Build(values map[string]*string) (any, error) {
	return d.BuildTyped(values)
}

// BuildTyped is Build without the interface conversion.
func (d *StructDescriptor[D]) BuildTyped(values map[string]*string) (D, error) {
	var zero D

	t := reflect.TypeFor[D]()
	if d.pointer {
		t = t.Elem()
	}
	ptr := reflect.New(t)
	target := ptr.Elem()

	for _, field := range d.fields {
		value := values[field.Name]
		if value == nil {
			if !field.Optional {
				return zero, &FieldError{Type: d.id, Field: field.Name, Err: ErrMissingField}
			}
			continue
		}
		if err := introspect.Assign(target, field, *value); err != nil {
			return zero, &FieldError{Type: d.id, Field: field.Name, Err: fmt.Errorf("assign: %w", err)}
		}
	}

	if d.pointer {
		return ptr.Interface().(D), nil
	}
	return target.Interface().(D), nil
}

package descriptor

import (
	"fmt"
	"slices"
	"strings"

	"github.com/goliatone/go-barber/pkg/model"
)

// BuilderFunc constructs a document spec instance from complete named
// values. Presence of required fields is checked before it is called.
type BuilderFunc func(values map[string]*string) (any, error)

// Schema is an explicitly declared descriptor. It avoids reflection and is
// the natural fit for shapes registered from configuration.
type Schema struct {
	id      model.TypeID
	fields  []Field
	builder BuilderFunc
}

// NewSchema declares a document spec. A nil builder produces model.Document
// instances.
func NewSchema(id model.TypeID, fields []Field, builder BuilderFunc) (*Schema, error) {
	if strings.TrimSpace(string(id)) == "" {
		return nil, &NoAccessibleConstructorError{Type: id, Reason: "type name is required"}
	}
	seen := make(map[string]struct{}, len(fields))
	for idx, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			return nil, &NoAccessibleConstructorError{Type: id, Reason: fmt.Sprintf("field %d has no name", idx)}
		}
		if _, exists := seen[name]; exists {
			return nil, &NoAccessibleConstructorError{Type: id, Reason: fmt.Sprintf("duplicate field %q", name)}
		}
		seen[name] = struct{}{}
	}
	return &Schema{
		id:      id,
		fields:  slices.Clone(fields),
		builder: builder,
	}, nil
}

// MustSchema is NewSchema that panics on error.
func MustSchema(id model.TypeID, fields []Field, builder BuilderFunc) *Schema {
	s, err := NewSchema(id, fields, builder)
	if err != nil {
		panic(err)
	}
	return s
}

// Type implements Descriptor.
func (s *Schema) Type() model.TypeID {
	return s.id
}

// Fields implements Descriptor.
func (s *Schema) Fields() []Field {
	return slices.Clone(s.fields)
}

// Build implements Descriptor.
func (s *Schema) Build(values map[string]*string) (any, error) {
	complete := make(map[string]*string, len(s.fields))
	for _, field := range s.fields {
		value := values[field.Name]
		if value == nil && !field.Optional {
			return nil, &FieldError{Type: s.id, Field: field.Name, Err: ErrMissingField}
		}
		complete[field.Name] = value
	}

	if s.builder != nil {
		return s.builder(complete)
	}
	return model.Document{Type: s.id, Values: complete}, nil
}

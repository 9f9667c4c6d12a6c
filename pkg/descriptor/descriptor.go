package descriptor

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-barber/pkg/model"
)

// Field is a named document spec field. Optional fields accept nil values.
type Field struct {
	Name     string `json:"name" yaml:"name"`
	Optional bool   `json:"optional,omitempty" yaml:"optional,omitempty"`
}

// Descriptor exposes one document spec type: its fields in constructor order
// and a builder that constructs an instance from named values.
type Descriptor interface {
	Type() model.TypeID
	Fields() []Field
	// Build constructs an instance. values holds a key for every field; a nil
	// value means absent. Builders reject nil required fields with a
	// *FieldError.
	Build(values map[string]*string) (any, error)
}

// Provider resolves descriptors by type. Types that cannot be described or
// constructed fail with a *NoAccessibleConstructorError.
type Provider interface {
	Describe(id model.TypeID) (Descriptor, error)
}

// ErrNoAccessibleConstructor matches any *NoAccessibleConstructorError.
var ErrNoAccessibleConstructor = errors.New("descriptor: no accessible constructor")

// NoAccessibleConstructorError reports a document spec type that cannot be
// introspected or constructed.
type NoAccessibleConstructorError struct {
	Type   model.TypeID
	Reason string
}

func (e *NoAccessibleConstructorError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("descriptor: no accessible constructor for %q", e.Type)
	}
	return fmt.Sprintf("descriptor: no accessible constructor for %q: %s", e.Type, e.Reason)
}

// Is lets errors.Is match ErrNoAccessibleConstructor.
func (e *NoAccessibleConstructorError) Is(target error) bool {
	return target == ErrNoAccessibleConstructor
}

// ErrMissingField is wrapped by FieldError when a required value is nil.
var ErrMissingField = errors.New("required field has no value")

// FieldError names the field a builder rejected.
type FieldError struct {
	Type  model.TypeID
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("descriptor: %s.%s: %v", e.Type, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Names returns the field names in order.
func Names(fields []Field) []string {
	names := make([]string, len(fields))
	for i, field := range fields {
		names[i] = field.Name
	}
	return names
}

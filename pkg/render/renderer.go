package render

import (
	"errors"
	"fmt"
	"reflect"
	"slices"

	"github.com/goliatone/go-barber/pkg/descriptor"
	"github.com/goliatone/go-barber/pkg/model"
	"github.com/goliatone/go-barber/pkg/render/template"
)

// Renderer renders instances of one copy model into one document spec. It
// holds no mutable state and is safe for concurrent use.
type Renderer struct {
	key        model.RendererKey
	descriptor descriptor.Descriptor
	spec       []descriptor.Field
	fields     map[string]*string
	compiled   map[string]template.Template
}

// Key returns the copy model and document spec pair.
func (r *Renderer) Key() model.RendererKey {
	return r.key
}

// Fields returns the reconciled template map. Every spec field name is
// present; names with no template map to nil.
func (r *Renderer) Fields() map[string]*string {
	return model.CloneFields(r.fields)
}

// Spec returns the document spec fields in constructor order.
func (r *Renderer) Spec() []descriptor.Field {
	return slices.Clone(r.spec)
}

// Render evaluates every template against instance and builds the document
// spec instance. instance must be of the renderer's copy model.
func (r *Renderer) Render(instance any) (any, error) {
	if isNil(instance) {
		return nil, r.failure("", "copy instance is nil", nil)
	}
	if got := model.IDOfValue(instance); got != r.key.CopyModel {
		return nil, r.failure("", fmt.Sprintf("expected a %s instance, got %s", r.key.CopyModel, got), nil)
	}

	data, err := template.Data(instance)
	if err != nil {
		return nil, r.failure("", "convert copy instance", err)
	}

	values, err := r.evaluate(data)
	if err != nil {
		return nil, err
	}

	built, err := r.descriptor.Build(values)
	if err != nil {
		var fieldErr *descriptor.FieldError
		if errors.As(err, &fieldErr) {
			return nil, r.failure(fieldErr.Field, "build document", err)
		}
		return nil, r.failure("", "build document", err)
	}
	return built, nil
}

// Values evaluates the templates against instance without building the
// document spec instance. Nil entries are fields with no template.
func (r *Renderer) Values(instance any) (map[string]*string, error) {
	if isNil(instance) {
		return nil, r.failure("", "copy instance is nil", nil)
	}
	data, err := template.Data(instance)
	if err != nil {
		return nil, r.failure("", "convert copy instance", err)
	}
	return r.evaluate(data)
}

func (r *Renderer) evaluate(data map[string]any) (map[string]*string, error) {
	values := make(map[string]*string, len(r.spec))
	for _, field := range r.spec {
		tmpl := r.compiled[field.Name]
		if tmpl == nil {
			if !field.Optional {
				return nil, r.failure(field.Name, "no template for required field", descriptor.ErrMissingField)
			}
			values[field.Name] = nil
			continue
		}

		out, err := tmpl.Execute(data)
		if err != nil {
			return nil, r.failure(field.Name, "execute template", err)
		}
		values[field.Name] = &out
	}
	return values, nil
}

// isNil reports an untyped nil or a nil pointer wrapped in an interface.
func isNil(instance any) bool {
	if instance == nil {
		return true
	}
	rv := reflect.ValueOf(instance)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

func (r *Renderer) failure(field, reason string, err error) *RenderFailureError {
	return &RenderFailureError{Key: r.key, Field: field, Reason: reason, Err: err}
}

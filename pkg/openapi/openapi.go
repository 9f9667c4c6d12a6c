package openapi

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-barber/pkg/descriptor"
	"github.com/goliatone/go-barber/pkg/model"
)

// TypeExtension overrides the document spec name of a component schema.
const TypeExtension = "x-barber-type"

// SkipExtension excludes a component schema when set to true.
const SkipExtension = "x-barber-skip"

const (
	typeObject = "object"
	typeArray  = "array"
)

// Option configures descriptor extraction.
type Option func(*options)

type options struct {
	validate bool
	only     map[string]struct{}
}

// WithValidation toggles full document validation before extraction.
// Enabled by default.
func WithValidation(enabled bool) Option {
	return func(o *options) {
		o.validate = enabled
	}
}

// WithSchemas restricts extraction to the named component schemas.
func WithSchemas(names ...string) Option {
	return func(o *options) {
		if o.only == nil {
			o.only = make(map[string]struct{}, len(names))
		}
		for _, name := range names {
			if trimmed := strings.TrimSpace(name); trimmed != "" {
				o.only[trimmed] = struct{}{}
			}
		}
	}
}

// Descriptors returns a descriptor for every object schema under
// components.schemas, sorted by type name. Properties become fields sorted by
// name; a property is optional unless listed in `required`, and nullable
// properties are always optional. Object and array properties cannot carry
// copy text and are skipped.
func Descriptors(ctx context.Context, data []byte, opts ...Option) ([]descriptor.Descriptor, error) {
	cfg := options{validate: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if len(data) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if cfg.validate {
		if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi: validate: %w", err)
		}
	}
	if doc.Components == nil || len(doc.Components.Schemas) == 0 {
		return nil, nil
	}

	names := make([]string, 0, len(doc.Components.Schemas))
	for name := range doc.Components.Schemas {
		if cfg.only != nil {
			if _, ok := cfg.only[name]; !ok {
				continue
			}
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var out []descriptor.Descriptor
	for _, name := range names {
		ref := doc.Components.Schemas[name]
		if ref == nil || ref.Value == nil || !isObject(ref.Value) || skipped(ref.Value) {
			continue
		}
		schema, err := descriptor.NewSchema(typeName(name, ref.Value), fieldsOf(ref.Value), nil)
		if err != nil {
			return nil, fmt.Errorf("openapi: schema %q: %w", name, err)
		}
		out = append(out, schema)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Type() < out[j].Type()
	})
	return out, nil
}

// LoadRegistry extracts descriptors and registers them in a new registry.
func LoadRegistry(ctx context.Context, data []byte, opts ...Option) (*descriptor.Registry, error) {
	descriptors, err := Descriptors(ctx, data, opts...)
	if err != nil {
		return nil, err
	}
	reg, err := descriptor.NewRegistry(descriptors...)
	if err != nil {
		return nil, fmt.Errorf("openapi: %w", err)
	}
	return reg, nil
}

// ReadFile reads an OpenAPI document from filesystem, or from disk when
// filesystem is nil.
func ReadFile(ctx context.Context, filesystem fs.FS, name string) ([]byte, error) {
	if name == "" {
		return nil, errors.New("openapi: document path is required")
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	var (
		data []byte
		err  error
	)
	if filesystem == nil {
		data, err = os.ReadFile(name)
	} else {
		data, err = fs.ReadFile(filesystem, name)
	}
	if err != nil {
		return nil, fmt.Errorf("openapi: read %s: %w", name, err)
	}
	return data, nil
}

func fieldsOf(schema *openapi3.Schema) []descriptor.Field {
	required := make(map[string]struct{}, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = struct{}{}
	}

	names := make([]string, 0, len(schema.Properties))
	for name, property := range schema.Properties {
		if property != nil && property.Value != nil && !isScalar(property.Value) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]descriptor.Field, 0, len(names))
	for _, name := range names {
		_, isRequired := required[name]
		property := schema.Properties[name]
		nullable := property != nil && property.Value != nil && property.Value.Nullable
		fields = append(fields, descriptor.Field{
			Name:     name,
			Optional: !isRequired || nullable,
		})
	}
	return fields
}

func typeName(name string, schema *openapi3.Schema) model.TypeID {
	if raw, ok := schema.Extensions[TypeExtension].(string); ok && strings.TrimSpace(raw) != "" {
		return model.TypeID(strings.TrimSpace(raw))
	}
	return model.TypeID(name)
}

func skipped(schema *openapi3.Schema) bool {
	skip, _ := schema.Extensions[SkipExtension].(bool)
	return skip
}

func isObject(schema *openapi3.Schema) bool {
	if schema.Type == nil || len(schema.Type.Slice()) == 0 {
		return len(schema.Properties) > 0
	}
	for _, typ := range schema.Type.Slice() {
		if typ == typeObject {
			return true
		}
	}
	return false
}

func isScalar(schema *openapi3.Schema) bool {
	if schema.Type == nil {
		return len(schema.Properties) == 0 && schema.Items == nil
	}
	for _, typ := range schema.Type.Slice() {
		if typ == typeObject || typ == typeArray {
			return false
		}
	}
	return true
}

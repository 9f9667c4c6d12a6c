package render

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"go.uber.org/zap"

	"github.com/goliatone/go-barber/pkg/descriptor"
	"github.com/goliatone/go-barber/pkg/model"
	"github.com/goliatone/go-barber/pkg/registry"
	"github.com/goliatone/go-barber/pkg/render/template"
)

// Option customises a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for resolution diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithoutCache disables renderer memoisation. Every Resolve call builds a
// new renderer.
func WithoutCache() Option {
	return func(r *Resolver) {
		r.cache = nil
	}
}

// Resolver binds copy models to document specs through the installed
// templates and produces renderers.
type Resolver struct {
	templates   *registry.Registry
	descriptors descriptor.Provider
	engine      template.TemplateRenderer
	cache       *Cache
	logger      *zap.Logger
}

// NewResolver wires a resolver. All three collaborators are required.
func NewResolver(templates *registry.Registry, descriptors descriptor.Provider, engine template.TemplateRenderer, options ...Option) (*Resolver, error) {
	if templates == nil {
		return nil, errors.New("render: template registry is required")
	}
	if descriptors == nil {
		return nil, errors.New("render: descriptor provider is required")
	}
	if engine == nil {
		return nil, errors.New("render: template engine is required")
	}

	r := &Resolver{
		templates:   templates,
		descriptors: descriptors,
		engine:      engine,
		cache:       NewCache(),
		logger:      zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r, nil
}

// Templates returns the template registry.
func (r *Resolver) Templates() *registry.Registry {
	return r.templates
}

// Resolve returns the renderer for copyModel into spec. It fails with
// *UnboundCopyModelError when no template is installed for copyModel,
// *InvalidTargetError when spec is not one of its targets, and
// *descriptor.NoAccessibleConstructorError when spec cannot be described.
func (r *Resolver) Resolve(copyModel, spec model.TypeID) (*Renderer, error) {
	key := model.RendererKey{CopyModel: copyModel, DocumentSpec: spec}
	if r.cache != nil {
		if cached, ok := r.cache.Get(key); ok {
			r.logger.Debug("renderer cache hit", zap.Stringer("key", key))
			return cached, nil
		}
	}

	dc, ok := r.templates.Lookup(copyModel)
	if !ok {
		return nil, &UnboundCopyModelError{CopyModel: copyModel}
	}
	if !dc.HasTarget(spec) {
		return nil, &InvalidTargetError{CopyModel: copyModel, Target: spec, Valid: slices.Clone(dc.Targets)}
	}

	desc, err := r.describe(spec)
	if err != nil {
		return nil, err
	}

	specFields := desc.Fields()
	fields, missing := Reconcile(dc.Fields, specFields)
	if len(missing) > 0 {
		r.logger.Debug("template has no entry for spec fields",
			zap.Stringer("key", key),
			zap.Strings("missing", missing),
		)
	}

	compiled, err := Compile(r.engine, copyModel, fields)
	if err != nil {
		return nil, err
	}

	renderer := &Renderer{
		key:        key,
		descriptor: desc,
		spec:       specFields,
		fields:     fields,
		compiled:   compiled,
	}
	r.logger.Debug("resolved renderer", zap.Stringer("key", key), zap.Int("fields", len(fields)))

	if r.cache != nil {
		renderer = r.cache.Store(renderer)
	}
	return renderer, nil
}

func (r *Resolver) describe(spec model.TypeID) (descriptor.Descriptor, error) {
	desc, err := r.descriptors.Describe(spec)
	if err != nil {
		var ctorErr *descriptor.NoAccessibleConstructorError
		if errors.As(err, &ctorErr) {
			return nil, ctorErr
		}
		return nil, &descriptor.NoAccessibleConstructorError{Type: spec, Reason: err.Error()}
	}
	if desc == nil {
		return nil, &descriptor.NoAccessibleConstructorError{Type: spec, Reason: "provider returned no descriptor"}
	}
	return desc, nil
}

// Reconcile returns a copy of fields extended with a nil entry for every
// spec field the template does not declare, plus the names it added in
// spec order. Existing entries are never overwritten or removed, including
// extras the document spec does not declare. Blank spec names are skipped.
func Reconcile(fields map[string]*string, spec []descriptor.Field) (map[string]*string, []string) {
	out := model.CloneFields(fields)

	var missing []string
	for _, field := range spec {
		if field.Name == "" {
			continue
		}
		if _, ok := out[field.Name]; ok {
			continue
		}
		out[field.Name] = nil
		missing = append(missing, field.Name)
	}
	return out, missing
}

// Compile parses every non-nil template in fields. The first failure, in
// field name order, is returned as an *InvalidTemplateError.
func Compile(engine template.TemplateRenderer, copyModel model.TypeID, fields map[string]*string) (map[string]template.Template, error) {
	names := make([]string, 0, len(fields))
	for name, value := range fields {
		if value != nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	compiled := make(map[string]template.Template, len(names))
	for _, name := range names {
		tmpl, err := engine.Compile(*fields[name])
		if err != nil {
			return nil, &InvalidTemplateError{CopyModel: copyModel, Field: name, Err: err}
		}
		compiled[name] = tmpl
	}
	return compiled, nil
}

// Catalog resolves every (copy model, target) pair declared by the
// installed templates. Any resolution failure aborts the whole catalog.
func (r *Resolver) Catalog() (*Catalog, error) {
	catalog := newCatalog()
	for _, dc := range r.templates.All() {
		for _, target := range dc.Targets {
			renderer, err := r.Resolve(dc.Source, target)
			if err != nil {
				return nil, fmt.Errorf("render: build catalog: %w", err)
			}
			catalog.put(renderer)
		}
	}
	r.logger.Debug("built renderer catalog", zap.Int("renderers", catalog.Len()))
	return catalog, nil
}

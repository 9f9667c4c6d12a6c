package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"go.uber.org/zap"

	"github.com/goliatone/go-barber/pkg/descriptor"
	"github.com/goliatone/go-barber/pkg/loader"
	"github.com/goliatone/go-barber/pkg/model"
	"github.com/goliatone/go-barber/pkg/registry"
	"github.com/goliatone/go-barber/pkg/render"
	"github.com/goliatone/go-barber/pkg/render/template"
	"github.com/goliatone/go-barber/pkg/render/template/pongo"
)

// Orchestrator installs templates and hands out renderers. Missing
// dependencies are initialised with the built-in implementations so callers
// can start with a single constructor call.
type Orchestrator struct {
	copies       []model.DocumentCopy
	installFS    fs.FS
	provider     descriptor.Provider
	specs        []descriptor.Descriptor
	engine       template.TemplateRenderer
	logger       *zap.Logger
	resolverOpts []render.Option
	prewarm      bool
	transformer  Transformer
	initErr      error

	templates   *registry.Registry
	descriptors descriptor.Provider
	resolver    *render.Resolver
}

// New applies options, installs every template and validates that each one
// compiles.
func New(options ...Option) (*Orchestrator, error) {
	o := &Orchestrator{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	if o.initErr != nil {
		return nil, o.initErr
	}
	if err := o.applyDefaults(); err != nil {
		return nil, err
	}
	if err := o.install(); err != nil {
		return nil, err
	}

	if o.prewarm {
		catalog, err := o.resolver.Catalog()
		if err != nil {
			return nil, fmt.Errorf("orchestrator: prewarm: %w", err)
		}
		o.logger.Info("renderer catalog ready", zap.Int("renderers", catalog.Len()))
	}
	return o, nil
}

func (o *Orchestrator) setErr(err error) {
	if o.initErr == nil {
		o.initErr = err
	}
}

func (o *Orchestrator) applyDefaults() error {
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.engine == nil {
		engine, err := pongo.New()
		if err != nil {
			return fmt.Errorf("orchestrator: default engine: %w", err)
		}
		o.engine = engine
	}

	specs, err := descriptor.NewRegistry(o.specs...)
	if err != nil {
		return fmt.Errorf("orchestrator: register specs: %w", err)
	}
	o.descriptors = descriptor.Chain(specs, o.provider)
	return nil
}

func (o *Orchestrator) install() error {
	copies := append([]model.DocumentCopy(nil), o.copies...)
	if o.installFS != nil {
		loaded, err := loader.LoadFS(o.installFS, loader.WithLogger(o.logger))
		if err != nil {
			return fmt.Errorf("orchestrator: install: %w", err)
		}
		copies = append(copies, loaded...)
	}

	templates, err := registry.New(copies...)
	if err != nil {
		return fmt.Errorf("orchestrator: install: %w", err)
	}
	for _, dc := range templates.All() {
		if _, err := render.Compile(o.engine, dc.Source, dc.Fields); err != nil {
			return fmt.Errorf("orchestrator: install: %w", err)
		}
	}

	opts := append([]render.Option{render.WithLogger(o.logger)}, o.resolverOpts...)
	resolver, err := render.NewResolver(templates, o.descriptors, o.engine, opts...)
	if err != nil {
		return fmt.Errorf("orchestrator: %w", err)
	}

	o.templates = templates
	o.resolver = resolver
	o.logger.Debug("installed document copies", zap.Int("copies", templates.Len()))
	return nil
}

// NewRenderer resolves the renderer binding copyModel to spec.
func (o *Orchestrator) NewRenderer(copyModel, spec model.TypeID) (*render.Renderer, error) {
	return o.resolver.Resolve(copyModel, spec)
}

// AllRenderers resolves one renderer per installed (copy model, target)
// pair.
func (o *Orchestrator) AllRenderers() (*render.Catalog, error) {
	return o.resolver.Catalog()
}

// Render resolves the renderer for the copy instance's type and spec,
// renders instance and applies the configured transformer.
func (o *Orchestrator) Render(ctx context.Context, instance any, spec model.TypeID) (any, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	renderer, err := o.resolver.Resolve(model.IDOfValue(instance), spec)
	if err != nil {
		return nil, err
	}
	out, err := renderer.Render(instance)
	if err != nil {
		return nil, err
	}
	if o.transformer == nil {
		return out, nil
	}

	transformed, err := o.transformer.Transform(ctx, renderer.Key(), out)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: transform %s: %w", renderer.Key(), err)
	}
	return transformed, nil
}

// Templates returns the installed template registry.
func (o *Orchestrator) Templates() *registry.Registry {
	return o.templates
}

// Descriptors returns the descriptor provider used for resolution.
func (o *Orchestrator) Descriptors() descriptor.Provider {
	return o.descriptors
}

// Engine returns the template engine.
func (o *Orchestrator) Engine() template.TemplateRenderer {
	return o.engine
}

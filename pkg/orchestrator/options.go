package orchestrator

import (
	"io/fs"

	"go.uber.org/zap"

	"github.com/goliatone/go-barber/pkg/descriptor"
	"github.com/goliatone/go-barber/pkg/model"
	"github.com/goliatone/go-barber/pkg/render"
	"github.com/goliatone/go-barber/pkg/render/template"
)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithDocumentCopies installs templates declared in code. They are installed
// before any templates loaded from WithInstallFS.
func WithDocumentCopies(copies ...model.DocumentCopy) Option {
	return func(o *Orchestrator) {
		for _, dc := range copies {
			o.copies = append(o.copies, dc.Clone())
		}
	}
}

// WithInstallFS installs every template file found in fsys.
func WithInstallFS(fsys fs.FS) Option {
	return func(o *Orchestrator) {
		o.installFS = fsys
	}
}

// WithDescriptors injects a descriptor provider. Specs registered with
// WithSpec and WithSpecDescriptors are consulted first.
func WithDescriptors(provider descriptor.Provider) Option {
	return func(o *Orchestrator) {
		o.provider = provider
	}
}

// WithSpecDescriptors registers explicit document spec descriptors.
func WithSpecDescriptors(descriptors ...descriptor.Descriptor) Option {
	return func(o *Orchestrator) {
		o.specs = append(o.specs, descriptors...)
	}
}

// WithSpec registers the reflected descriptor for the Go struct D.
func WithSpec[D any]() Option {
	return func(o *Orchestrator) {
		d, err := descriptor.Reflect[D]()
		if err != nil {
			o.setErr(err)
			return
		}
		o.specs = append(o.specs, d)
	}
}

// WithEngine overrides the default pongo2 template engine.
func WithEngine(engine template.TemplateRenderer) Option {
	return func(o *Orchestrator) {
		o.engine = engine
	}
}

// WithLogger sets the logger shared by the loader and the resolver.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithoutCache disables renderer memoisation.
func WithoutCache() Option {
	return func(o *Orchestrator) {
		o.resolverOpts = append(o.resolverOpts, render.WithoutCache())
	}
}

// WithPrewarm resolves the full renderer catalog during New so binding
// errors surface at startup.
func WithPrewarm() Option {
	return func(o *Orchestrator) {
		o.prewarm = true
	}
}

// WithTransformer registers a Transformer applied by Render to every
// rendered document.
func WithTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// Package barber renders structured copy into document shapes through
// installed templates. A DocumentCopy binds a copy model type to the
// document specs it can produce; Barber resolves a renderer for each pair and
// fills spec fields the template leaves out with nil.
//
//	b, err := barber.New(
//		barber.WithInstallFS(os.DirFS("copies")),
//		barber.WithSpec[Receipt](),
//	)
//	renderer, err := barber.NewRenderer[RecipientReceipt, Receipt](b)
//	receipt, err := renderer.Render(sandy50Receipt)
package barber

import (
	"io/fs"

	"go.uber.org/zap"

	"github.com/goliatone/go-barber/pkg/descriptor"
	"github.com/goliatone/go-barber/pkg/model"
	"github.com/goliatone/go-barber/pkg/orchestrator"
	"github.com/goliatone/go-barber/pkg/render"
	"github.com/goliatone/go-barber/pkg/render/template"
)

// Barber is the installed set of templates and the renderers bound to them.
type Barber = orchestrator.Orchestrator

// Option customises a Barber.
type Option = orchestrator.Option

// DocumentCopy aliases model.DocumentCopy.
type DocumentCopy = model.DocumentCopy

// TypeID aliases model.TypeID.
type TypeID = model.TypeID

// RendererKey aliases model.RendererKey.
type RendererKey = model.RendererKey

var (
	// ErrUnboundCopyModel is returned when no template is installed for a
	// copy model.
	ErrUnboundCopyModel = render.ErrUnboundCopyModel
	// ErrInvalidTarget is returned when a document spec is not a target of
	// the copy model's template.
	ErrInvalidTarget = render.ErrInvalidTarget
	// ErrNoAccessibleConstructor is returned when a document spec cannot be
	// described or constructed.
	ErrNoAccessibleConstructor = descriptor.ErrNoAccessibleConstructor
	// ErrRenderFailure is returned when rendering a copy instance fails.
	ErrRenderFailure = render.ErrRenderFailure
	// ErrInvalidTemplate is returned when an installed template does not
	// compile.
	ErrInvalidTemplate = render.ErrInvalidTemplate
)

// New installs templates and returns a Barber.
func New(options ...Option) (*Barber, error) {
	return orchestrator.New(options...)
}

// WithDocumentCopies installs templates declared in code.
func WithDocumentCopies(copies ...DocumentCopy) Option {
	return orchestrator.WithDocumentCopies(copies...)
}

// WithInstallFS installs the template files found in fsys.
func WithInstallFS(fsys fs.FS) Option {
	return orchestrator.WithInstallFS(fsys)
}

// WithSpec registers the Go struct D as a document spec.
func WithSpec[D any]() Option {
	return orchestrator.WithSpec[D]()
}

// WithDescriptors injects a descriptor provider, such as one built from an
// OpenAPI document.
func WithDescriptors(provider descriptor.Provider) Option {
	return orchestrator.WithDescriptors(provider)
}

// WithEngine overrides the template engine.
func WithEngine(engine template.TemplateRenderer) Option {
	return orchestrator.WithEngine(engine)
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return orchestrator.WithLogger(logger)
}

// WithPrewarm resolves every renderer during New.
func WithPrewarm() Option {
	return orchestrator.WithPrewarm()
}

// RegisterSpec reflects D and adds it to reg.
func RegisterSpec[D any](reg *descriptor.Registry) error {
	return descriptor.Register[D](reg)
}

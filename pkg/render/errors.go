package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-barber/pkg/model"
)

var (
	// ErrUnboundCopyModel matches any *UnboundCopyModelError.
	ErrUnboundCopyModel = errors.New("render: unbound copy model")
	// ErrInvalidTarget matches any *InvalidTargetError.
	ErrInvalidTarget = errors.New("render: invalid target")
	// ErrRenderFailure matches any *RenderFailureError.
	ErrRenderFailure = errors.New("render: render failure")
	// ErrInvalidTemplate matches any *InvalidTemplateError.
	ErrInvalidTemplate = errors.New("render: invalid template")
)

// UnboundCopyModelError reports a copy model with no installed DocumentCopy.
type UnboundCopyModelError struct {
	CopyModel model.TypeID
}

func (e *UnboundCopyModelError) Error() string {
	return fmt.Sprintf("render: no document copy installed for copy model %q", e.CopyModel)
}

// Is lets errors.Is match ErrUnboundCopyModel.
func (e *UnboundCopyModelError) Is(target error) bool {
	return target == ErrUnboundCopyModel
}

// InvalidTargetError reports a document spec the installed template does not
// list as a target. Valid holds the declared targets in order.
type InvalidTargetError struct {
	CopyModel model.TypeID
	Target    model.TypeID
	Valid     []model.TypeID
}

func (e *InvalidTargetError) Error() string {
	valid := make([]string, len(e.Valid))
	for i, id := range e.Valid {
		valid[i] = string(id)
	}
	return fmt.Sprintf("render: %q is not a target of copy model %q (valid targets: %s)",
		e.Target, e.CopyModel, strings.Join(valid, ", "))
}

// Is lets errors.Is match ErrInvalidTarget.
func (e *InvalidTargetError) Is(target error) bool {
	return target == ErrInvalidTarget
}

// RenderFailureError reports a failure while rendering a copy instance.
// Field is empty when the failure is not tied to one field.
type RenderFailureError struct {
	Key    model.RendererKey
	Field  string
	Reason string
	Err    error
}

func (e *RenderFailureError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "render: %s", e.Key)
	if e.Field != "" {
		fmt.Fprintf(&b, ": field %q", e.Field)
	}
	if e.Reason != "" {
		fmt.Fprintf(&b, ": %s", e.Reason)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Is lets errors.Is match ErrRenderFailure.
func (e *RenderFailureError) Is(target error) bool {
	return target == ErrRenderFailure
}

func (e *RenderFailureError) Unwrap() error {
	return e.Err
}

// InvalidTemplateError reports a template field that does not compile.
type InvalidTemplateError struct {
	CopyModel model.TypeID
	Field     string
	Err       error
}

func (e *InvalidTemplateError) Error() string {
	return fmt.Sprintf("render: copy model %q field %q: %v", e.CopyModel, e.Field, e.Err)
}

// Is lets errors.Is match ErrInvalidTemplate.
func (e *InvalidTemplateError) Is(target error) bool {
	return target == ErrInvalidTemplate
}

func (e *InvalidTemplateError) Unwrap() error {
	return e.Err
}

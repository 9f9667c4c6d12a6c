package template

import (
	"encoding/json"
	"io"

	"github.com/goliatone/go-barber/pkg/model"
)

// TemplateRenderer is the engine contract the binding resolver relies on.
type TemplateRenderer interface {
	// RenderString parses and executes templateContent in one step.
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	// Compile parses templateContent once so it can be executed many times.
	Compile(templateContent string) (Template, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}

// Template is a parsed template. Execute must be safe for concurrent use.
type Template interface {
	Execute(data map[string]any) (string, error)
}

// Data converts a copy model instance into template data. FieldSource
// instances are used as-is; anything else goes through its JSON encoding,
// so struct json tags decide the placeholder names.
func Data(v any) (map[string]any, error) {
	switch src := v.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return src, nil
	case model.FieldSource:
		fields := src.CopyFields()
		if fields == nil {
			return map[string]any{}, nil
		}
		return fields, nil
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-barber/pkg/model"
)

// Transformer rewrites a rendered document before Render returns it.
type Transformer interface {
	Transform(ctx context.Context, key model.RendererKey, document any) (any, error)
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, key model.RendererKey, document any) (any, error)

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, key model.RendererKey, document any) (any, error) {
	if fn == nil {
		return document, nil
	}
	return fn(ctx, key, document)
}

// JSONPresetTransformer fills nil fields of model.Document outputs with
// declared defaults, keyed by document spec. Names the document does not
// declare are ignored:
//
//	{
//	  "defaults": {
//	    "Sms": {"footer": "Reply STOP to opt out"}
//	  }
//	}
//
// Documents built from Go structs are returned unchanged.
type JSONPresetTransformer struct {
	document jsonPresetDocument
}

type jsonPresetDocument struct {
	Defaults map[model.TypeID]map[string]string `json:"defaults"`
}

// NewJSONPresetTransformer constructs a transformer from raw JSON bytes.
func NewJSONPresetTransformer(data []byte) (*JSONPresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("json preset transformer: document is empty")
	}
	var document jsonPresetDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("json preset transformer: parse document: %w", err)
	}
	return &JSONPresetTransformer{document: document}, nil
}

// NewJSONPresetTransformerFromFS loads a preset document from fsys.
func NewJSONPresetTransformerFromFS(fsys fs.FS, path string) (*JSONPresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("json preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("json preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("json preset transformer: read %s: %w", path, err)
	}
	return NewJSONPresetTransformer(data)
}

// Transform applies the defaults declared for key.DocumentSpec.
func (t *JSONPresetTransformer) Transform(ctx context.Context, key model.RendererKey, document any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defaults := t.document.Defaults[key.DocumentSpec]
	doc, ok := document.(model.Document)
	if !ok || len(defaults) == 0 {
		return document, nil
	}

	values := model.CloneFields(doc.Values)
	for name, value := range defaults {
		if current, exists := values[name]; !exists || current != nil {
			continue
		}
		values[name] = model.Text(value)
	}
	doc.Values = values
	return doc, nil
}

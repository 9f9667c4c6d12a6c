package loader

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-barber/pkg/model"
)

//go:embed schema/copies.schema.json
var schemaBytes []byte

const schemaURL = "copies.schema.json"

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)
)

// manifest is the decoded shape shared by every file format.
type manifest struct {
	APIVersion string      `json:"apiVersion,omitempty" yaml:"apiVersion"`
	Copies     []copyEntry `json:"copies" yaml:"copies"`
}

type copyEntry struct {
	Source  string             `json:"source" yaml:"source"`
	Targets []string           `json:"targets" yaml:"targets"`
	Fields  map[string]*string `json:"fields,omitempty" yaml:"fields"`
}

// Issue is one schema violation.
type Issue struct {
	Path    string
	Message string
}

// SchemaError lists every schema violation found in a file.
type SchemaError struct {
	File   string
	Issues []Issue
}

func (e *SchemaError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		path := issue.Path
		if path == "" {
			path = "/"
		}
		parts[i] = path + ": " + issue.Message
	}
	return fmt.Sprintf("loader: %s does not match the copies schema: %s", e.File, strings.Join(parts, "; "))
}

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("loader: unmarshal schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("loader: add schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(schemaURL)
		if compileErr != nil {
			compileErr = fmt.Errorf("loader: compile schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// validate checks a JSON-compatible value against the copies schema.
func validate(file string, value any) error {
	sch, err := schema()
	if err != nil {
		return err
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("loader: %s: convert to JSON: %w", file, err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("loader: %s: prepare for validation: %w", file, err)
	}

	err = sch.Validate(inst)
	if err == nil {
		return nil
	}
	validationErr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return fmt.Errorf("loader: %s: validate: %w", file, err)
	}

	var issues []Issue
	collectIssues(validationErr, &issues)
	if len(issues) == 0 {
		issues = []Issue{{Message: validationErr.Error()}}
	}
	return &SchemaError{File: file, Issues: issues}
}

func collectIssues(ve *jsonschema.ValidationError, issues *[]Issue) {
	if len(ve.Causes) == 0 {
		path := ""
		if len(ve.InstanceLocation) > 0 {
			path = "/" + strings.Join(ve.InstanceLocation, "/")
		}
		msg := ve.Error()
		if ve.ErrorKind != nil {
			msg = ve.ErrorKind.LocalizedString(printer)
		}
		*issues = append(*issues, Issue{Path: path, Message: msg})
		return
	}
	for _, cause := range ve.Causes {
		collectIssues(cause, issues)
	}
}

// parseYAML decodes a YAML or JSON file. The raw document is validated
// before it is decoded so unknown keys are reported.
func parseYAML(file string, data []byte) (manifest, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return manifest{}, fmt.Errorf("loader: parse %s: %w", file, err)
	}
	if err := validate(file, raw); err != nil {
		return manifest{}, err
	}

	var doc manifest
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return manifest{}, fmt.Errorf("loader: decode %s: %w", file, err)
	}
	return doc, nil
}

func (m manifest) documentCopies(file string) []model.DocumentCopy {
	out := make([]model.DocumentCopy, 0, len(m.Copies))
	for _, entry := range m.Copies {
		targets := make([]model.TypeID, len(entry.Targets))
		for i, target := range entry.Targets {
			targets[i] = model.TypeID(strings.TrimSpace(target))
		}
		out = append(out, model.DocumentCopy{
			Source:  model.TypeID(strings.TrimSpace(entry.Source)),
			Targets: targets,
			Fields:  model.CloneFields(entry.Fields),
			Origin:  file,
		})
	}
	return out
}

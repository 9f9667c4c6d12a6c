package model

import "slices"

// DocumentCopy is an installed template definition. It binds one copy model
// type to template field values and the document specs it may render into.
// Fields need not cover every field of every target; the gaps are filled
// with nil when a renderer is resolved.
type DocumentCopy struct {
	Source  TypeID             `json:"source" yaml:"source"`
	Targets []TypeID           `json:"targets" yaml:"targets"`
	Fields  map[string]*string `json:"fields,omitempty" yaml:"fields,omitempty"`
	// Origin records where the definition was installed from (file path or
	// "code"). Diagnostics only.
	Origin string `json:"-" yaml:"-"`
}

// HasTarget reports whether spec is a declared target.
func (c DocumentCopy) HasTarget(spec TypeID) bool {
	return slices.Contains(c.Targets, spec)
}

// Clone returns a deep copy so callers cannot mutate installed state.
func (c DocumentCopy) Clone() DocumentCopy {
	out := DocumentCopy{
		Source:  c.Source,
		Targets: slices.Clone(c.Targets),
		Origin:  c.Origin,
	}
	if c.Fields != nil {
		out.Fields = CloneFields(c.Fields)
	}
	return out
}

// CloneFields copies a field map, including the pointed-to strings.
func CloneFields(fields map[string]*string) map[string]*string {
	out := make(map[string]*string, len(fields))
	for name, value := range fields {
		if value == nil {
			out[name] = nil
			continue
		}
		v := *value
		out[name] = &v
	}
	return out
}

// Text returns a pointer to s. Handy when declaring DocumentCopy fields in
// code.
func Text(s string) *string {
	return &s
}

package model

import (
	"fmt"
	"reflect"
)

// TypeID is the stable tag identifying a copy model or document spec type.
type TypeID string

// String returns the tag.
func (id TypeID) String() string {
	return string(id)
}

// Named lets a type declare its TypeID instead of relying on the reflected
// type name. Implement it on the value receiver.
type Named interface {
	TypeName() TypeID
}

// FieldSource exposes copy values directly. Instances that do not implement
// it are converted through their JSON representation.
type FieldSource interface {
	CopyFields() map[string]any
}

var namedType = reflect.TypeFor[Named]()

// IDOf returns the TypeID for T. Pointer types resolve to their element type.
func IDOf[T any]() TypeID {
	return idOfType(reflect.TypeFor[T]())
}

// IDOfValue returns the TypeID of a concrete instance. Nil returns "".
func IDOfValue(v any) TypeID {
	if v == nil {
		return ""
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return idOfType(rv.Type())
	}
	if named, ok := v.(Named); ok {
		if id := named.TypeName(); id != "" {
			return id
		}
	}
	return idOfType(rv.Type())
}

func idOfType(t reflect.Type) TypeID {
	if t == nil {
		return ""
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Interface && t.Implements(namedType) {
		if named, ok := reflect.Zero(t).Interface().(Named); ok {
			if id := named.TypeName(); id != "" {
				return id
			}
		}
	}
	return TypeID(t.Name())
}

// RendererKey identifies a resolved renderer by its copy model and document
// spec pair. Catalog entries are unique per key.
type RendererKey struct {
	CopyModel    TypeID `json:"copyModel" yaml:"copyModel"`
	DocumentSpec TypeID `json:"documentSpec" yaml:"documentSpec"`
}

// String renders the key as "copyModel -> documentSpec".
func (k RendererKey) String() string {
	return fmt.Sprintf("%s -> %s", k.CopyModel, k.DocumentSpec)
}

// Copy is a loosely typed copy model instance.
type Copy struct {
	Type   TypeID         `json:"type" yaml:"type"`
	Values map[string]any `json:"values,omitempty" yaml:"values,omitempty"`
}

// TypeName implements Named.
func (c Copy) TypeName() TypeID {
	return c.Type
}

// CopyFields implements FieldSource.
func (c Copy) CopyFields() map[string]any {
	return c.Values
}

// Document is a loosely typed document spec instance built by descriptors
// that have no Go struct behind them. A nil value means the field is absent.
type Document struct {
	Type   TypeID             `json:"type"`
	Values map[string]*string `json:"values"`
}

// TypeName implements Named.
func (d Document) TypeName() TypeID {
	return d.Type
}

// Get returns the value for name and whether it is present and non-nil.
func (d Document) Get(name string) (string, bool) {
	value, ok := d.Values[name]
	if !ok || value == nil {
		return "", false
	}
	return *value, true
}

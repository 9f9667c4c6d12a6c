package introspect

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// TagName is the struct tag read for field names and options.
const TagName = "barber"

// Kind describes how a rendered string is stored into a struct field.
type Kind int

const (
	KindString    Kind = iota // string
	KindStringPtr             // *string
	KindText                  // T where *T implements encoding.TextUnmarshaler
	KindTextPtr               // *T where *T implements encoding.TextUnmarshaler
)

// Field is one settable struct field.
type Field struct {
	Name     string
	GoName   string
	Index    int
	Optional bool
	Kind     Kind
	Type     reflect.Type
}

var textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()

// ErrNotStruct reports a type that is not a struct or pointer to struct.
var ErrNotStruct = errors.New("introspect: type is not a struct")

// Fields lists the exported fields of a struct type in declaration order.
func Fields(t reflect.Type) ([]Field, error) {
	if t == nil {
		return nil, ErrNotStruct
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s", ErrNotStruct, t)
	}

	fields := make([]Field, 0, t.NumField())
	seen := make(map[string]string, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() || sf.Anonymous {
			continue
		}

		name, optional, skip := parseTag(sf)
		if skip {
			continue
		}

		kind, nullable, err := kindOf(sf.Type)
		if err != nil {
			return nil, fmt.Errorf("introspect: field %s.%s: %w", t.Name(), sf.Name, err)
		}

		if prior, exists := seen[name]; exists {
			return nil, fmt.Errorf("introspect: fields %s and %s of %s both map to %q", prior, sf.Name, t.Name(), name)
		}
		seen[name] = sf.Name

		fields = append(fields, Field{
			Name:     name,
			GoName:   sf.Name,
			Index:    i,
			Optional: optional || nullable,
			Kind:     kind,
			Type:     sf.Type,
		})
	}
	return fields, nil
}

// Assign stores value into the field of the addressable struct value target.
func Assign(target reflect.Value, field Field, value string) error {
	fv := target.Field(field.Index)
	switch field.Kind {
	case KindString:
		fv.SetString(value)
	case KindStringPtr:
		ptr := reflect.New(field.Type.Elem())
		ptr.Elem().SetString(value)
		fv.Set(ptr)
	case KindText:
		unmarshaler := fv.Addr().Interface().(encoding.TextUnmarshaler)
		if err := unmarshaler.UnmarshalText([]byte(value)); err != nil {
			return err
		}
	case KindTextPtr:
		ptr := reflect.New(field.Type.Elem())
		unmarshaler := ptr.Interface().(encoding.TextUnmarshaler)
		if err := unmarshaler.UnmarshalText([]byte(value)); err != nil {
			return err
		}
		fv.Set(ptr)
	default:
		return fmt.Errorf("introspect: unknown field kind %d", field.Kind)
	}
	return nil
}

func parseTag(sf reflect.StructField) (name string, optional bool, skip bool) {
	if tag, ok := sf.Tag.Lookup(TagName); ok {
		parts := strings.Split(tag, ",")
		name = strings.TrimSpace(parts[0])
		if name == "-" {
			return "", false, true
		}
		for _, opt := range parts[1:] {
			if strings.TrimSpace(opt) == "optional" {
				optional = true
			}
		}
	}
	if name == "" {
		if tag := sf.Tag.Get("json"); tag != "" {
			jsonName, _, _ := strings.Cut(tag, ",")
			if jsonName == "-" {
				return "", false, true
			}
			name = jsonName
		}
	}
	if name == "" {
		name = sf.Name
	}
	return name, optional, false
}

func kindOf(t reflect.Type) (Kind, bool, error) {
	// TextUnmarshaler wins over the string kinds so named strings keep
	// their validation.
	switch {
	case t.Kind() == reflect.Pointer && t.Implements(textUnmarshalerType):
		return KindTextPtr, true, nil
	case t.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(textUnmarshalerType):
		return KindText, false, nil
	case t.Kind() == reflect.String:
		return KindString, false, nil
	case t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.String:
		return KindStringPtr, true, nil
	default:
		return 0, false, fmt.Errorf("unsupported type %s (want string, *string or encoding.TextUnmarshaler)", t)
	}
}

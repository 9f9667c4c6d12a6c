// Package openapi derives document spec descriptors from the component
// schemas of an OpenAPI 3 document, so output shapes can be declared next to
// the APIs that carry them instead of as Go structs.
package openapi

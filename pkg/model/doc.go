// Package model defines the data types shared by the binding engine: type
// tags for copy models and document specs, the installed DocumentCopy
// template definition, and the RendererKey that indexes resolved renderers.
//
// Types are identified by a TypeID string rather than by runtime type
// objects. A Go type can pick its own tag by implementing Named; otherwise
// the reflected type name is used. Copy and Document are loosely typed
// instances for data that arrives as documents (JSON payloads, OpenAPI
// shapes) instead of Go structs.
package model

// Package render binds copy models to document specs. A Resolver looks up
// the installed template for a copy model, checks the requested document
// spec is one of its targets, and reconciles the template fields with the
// spec's declared fields. The resulting Renderer is immutable and safe for
// concurrent use.
package render

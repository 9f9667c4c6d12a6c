// Package loader installs DocumentCopy templates from files. YAML and JSON
// files hold an `apiVersion` and a `copies` list; HCL files hold an
// `api_version` attribute and one `copy "<source>"` block per template.
// Every file is checked against the embedded manifest schema before its
// copies are returned.
package loader

// Package orchestrator wires installation, descriptors, the template engine
// and the binding resolver behind a single constructor.
package orchestrator

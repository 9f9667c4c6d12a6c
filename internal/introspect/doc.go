// Package introspect reads document spec field layouts from Go struct types
// and assigns rendered string values back into struct instances. The public
// entry point is pkg/descriptor.Reflect.
package introspect

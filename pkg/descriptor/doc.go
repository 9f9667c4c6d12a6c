// Package descriptor describes document spec shapes: their ordered fields,
// which of those fields are optional, and how to build an instance from a
// complete map of rendered values.
//
// Three providers ship with the package. Reflect derives a descriptor from a
// Go struct; NewSchema declares one explicitly without reflection; and
// pkg/openapi reads them from OpenAPI component schemas. Registry collects
// descriptors and serves them to the binding resolver by TypeID.
package descriptor

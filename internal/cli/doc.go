// Package cli implements the barber command line: listing the installed
// renderers and rendering loosely typed copy from JSON data.
package cli

// Package template defines the templating seam used to substitute copy model
// values into DocumentCopy field strings. The default implementation lives in
// the pongo subpackage and uses Django-style syntax ({{ sender }}).
package template

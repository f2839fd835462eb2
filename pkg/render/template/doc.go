// Package template defines the template engine seam used by the HTML
// renderer. The pongo subpackage provides the default pongo2 engine.
package template

// Package template defines the template engine seam used by the HTML
// renderer, plus the pongo2-backed implementation in the pongo subpackage.
package template

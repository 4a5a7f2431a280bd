// Package jsonview renders dashboard views as JSON documents for API
// clients and scripted checks.
package jsonview

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-kvdash/pkg/render"
)

// Name identifies the renderer in a render.Registry.
const Name = "json"

// Renderer encodes the View verbatim. Hidden fields are included so a
// client can continue an edit session.
type Renderer struct {
	indent string
}

var _ render.Renderer = (*Renderer)(nil)

// Option configures the renderer.
type Option func(*Renderer)

// WithIndent sets the indent used per nesting level. Empty output is compact.
func WithIndent(indent string) Option {
	return func(r *Renderer) {
		r.indent = indent
	}
}

// New constructs the renderer.
func New(options ...Option) *Renderer {
	r := &Renderer{indent: "  "}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "application/json"
}

type document struct {
	render.View
	Hidden []render.HiddenField `json:"hidden,omitempty"`
	Theme  string               `json:"theme,omitempty"`
}

func (r *Renderer) Render(_ context.Context, view render.View, opts render.RenderOptions) ([]byte, error) {
	doc := document{View: view, Hidden: opts.Hidden}
	if opts.Theme != nil {
		doc.Theme = opts.Theme.Theme
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if r.indent != "" {
		enc.SetIndent("", r.indent)
	}
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("json renderer: encode view: %w", err)
	}
	return buf.Bytes(), nil
}

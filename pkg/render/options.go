package render

import (
	theme "github.com/goliatone/go-theme"
)

// RenderOptions describe per-request data that renderers can use to customise
// their output without changing the view.
type RenderOptions struct {
	// Theme carries the resolved theme tokens, CSS variables and asset
	// resolver. Nil renders without theme variables.
	Theme *theme.RendererConfig
	// Hidden fields are emitted inside every form, for example the edit
	// session identifier.
	Hidden []HiddenField
}

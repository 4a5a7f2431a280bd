// Package html renders dashboard views as server-side HTML pages using
// pongo2 templates.
package html

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/goliatone/go-kvdash/pkg/render"
	rendertemplate "github.com/goliatone/go-kvdash/pkg/render/template"
	"github.com/goliatone/go-kvdash/pkg/render/template/pongo"
	"github.com/goliatone/go-kvdash/pkg/theming"
)

// Name identifies the renderer in a render.Registry.
const Name = "html"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

type Renderer struct {
	templates rendertemplate.TemplateRenderer
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := pongo.New(pongo.WithFS(cfg.templateFS))
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}
	return &Renderer{templates: renderer}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render executes the template matching view.Page.
func (r *Renderer) Render(_ context.Context, view render.View, opts render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}

	name, err := templateFor(view.Page)
	if err != nil {
		return nil, err
	}

	result, err := r.templates.RenderTemplate(name, map[string]any{
		"view":   view,
		"theme":  themeContext(opts),
		"hidden": opts.Hidden,
		"errors": fieldErrors(view.Errors),
		"safe":   safeContext(view),
		"rows":   treeRows(view),
	})
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func templateFor(page render.Page) (string, error) {
	switch page {
	case render.PageList:
		return "list.tpl", nil
	case render.PageItem:
		return "item.tpl", nil
	case render.PageAdd:
		return "add.tpl", nil
	case render.PageError:
		return "error.tpl", nil
	default:
		return "", fmt.Errorf("html renderer: unknown page %q", page)
	}
}

func themeContext(opts render.RenderOptions) map[string]any {
	cfg := opts.Theme
	if cfg == nil {
		return map[string]any{}
	}
	out := map[string]any{
		"name":    cfg.Theme,
		"variant": cfg.Variant,
		"style":   theming.InlineStyle(cfg),
	}
	if cfg.AssetURL != nil {
		out["stylesheet"] = cfg.AssetURL("stylesheet")
	}
	return out
}

func fieldErrors(mapping render.ErrorMapping) map[string]string {
	out := make(map[string]string, len(mapping.Fields))
	for field := range mapping.Fields {
		out[field] = mapping.For(field)
	}
	return out
}

// safeContext carries store supplied text that templates emit with |safe.
func safeContext(view render.View) map[string]any {
	out := map[string]any{}
	formErrors := make([]string, 0, len(view.Errors.Form))
	for _, message := range view.Errors.Form {
		if cleaned := sanitizeText(message); cleaned != "" {
			formErrors = append(formErrors, cleaned)
		}
	}
	out["form_errors"] = formErrors

	switch {
	case view.List != nil:
		out["error"] = sanitizeText(view.List.Err)
	case view.Item != nil:
		out["error"] = sanitizeText(view.Item.Err)
	case view.Failure != nil:
		out["failure"] = sanitizeText(view.Failure.Message)
	}
	return out
}

func treeRows(view render.View) []map[string]any {
	if view.Item == nil {
		return nil
	}
	rows := make([]map[string]any, 0, len(view.Item.Rows))
	for _, row := range view.Item.Rows {
		rows = append(rows, map[string]any{
			"path":      row.Path,
			"label":     row.Label,
			"kind":      row.Kind,
			"display":   row.Display,
			"container": row.Container,
			"indent":    fmt.Sprintf("%.2frem", float64(row.Depth)*1.25),
		})
	}
	return rows
}

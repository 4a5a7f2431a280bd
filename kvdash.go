// Package kvdash is a dashboard for a JSON key-value store reached over a
// small POST-only HTTP API. The root package wires the pieces together for
// callers embedding the web dashboard in their own server; the kvdash
// command covers standalone use.
package kvdash

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/goliatone/go-kvdash/internal/server"
	"github.com/goliatone/go-kvdash/pkg/client"
	"github.com/goliatone/go-kvdash/pkg/render"
	"github.com/goliatone/go-kvdash/pkg/renderers/html"
	"github.com/goliatone/go-kvdash/pkg/theming"
)

// RenderOptions aliases render.RenderOptions for callers writing their own
// renderers.
type RenderOptions = render.RenderOptions

// View aliases render.View, the renderer-neutral description of a page.
type View = render.View

// Options configures NewHandler.
type Options struct {
	// StoreURL is the base URL of the key-value store API. Required.
	StoreURL string
	// BasePath mounts the dashboard routes, e.g. "/dashboard".
	BasePath string
	// Theme and Variant select a built-in theme; empty picks the default.
	Theme   string
	Variant string
	// ValidateContract checks store responses against the bundled API
	// description.
	ValidateContract bool
	StoreTimeout     time.Duration
	SessionTTL       time.Duration
	Logger           *slog.Logger
}

// Handler is the web dashboard. Close releases its session sweepers.
type Handler struct {
	http.Handler
	srv *server.Server
}

// Close stops background work owned by the handler.
func (h *Handler) Close() {
	h.srv.Close()
}

// NewHandler builds the web dashboard for opts.StoreURL.
func NewHandler(ctx context.Context, opts Options) (*Handler, error) {
	if opts.StoreURL == "" {
		return nil, errors.New("kvdash: store URL is required")
	}

	clientOpts := []client.Option{client.WithTimeout(opts.StoreTimeout)}
	if opts.ValidateContract {
		contract, err := client.DefaultContract(ctx)
		if err != nil {
			return nil, err
		}
		clientOpts = append(clientOpts, client.WithContract(contract))
	}
	c, err := client.New(opts.StoreURL, clientOpts...)
	if err != nil {
		return nil, err
	}

	catalog, err := theming.NewCatalog()
	if err != nil {
		return nil, err
	}
	themeCfg, err := catalog.Resolve(opts.Theme, opts.Variant)
	if err != nil {
		return nil, err
	}

	srv, err := server.New(c,
		server.WithBasePath(opts.BasePath),
		server.WithTheme(themeCfg),
		server.WithSessionTTL(opts.SessionTTL),
		server.WithLogger(opts.Logger),
	)
	if err != nil {
		return nil, err
	}
	return &Handler{Handler: srv, srv: srv}, nil
}

// EmbeddedTemplates exposes the built-in HTML templates so callers can copy
// or extend them and pass the result back through the html renderer options.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}

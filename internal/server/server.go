// Package server exposes the dashboard over HTTP. Each view is rendered
// server side from the keylist and editor state machines; edit state lives
// in short-lived sessions keyed by a hidden form field.
package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	theme "github.com/goliatone/go-theme"
	"github.com/google/uuid"

	"github.com/goliatone/go-kvdash/internal/logging"
	"github.com/goliatone/go-kvdash/internal/session"
	"github.com/goliatone/go-kvdash/pkg/client"
	"github.com/goliatone/go-kvdash/pkg/render"
	"github.com/goliatone/go-kvdash/pkg/renderers/html"
	"github.com/goliatone/go-kvdash/pkg/renderers/jsonview"
	"github.com/goliatone/go-kvdash/pkg/renderers/tui"
	"github.com/goliatone/go-kvdash/pkg/theming"
)

// ErrNoClient is returned by New without a store client.
var ErrNoClient = errors.New("server: store client is required")

// maxFormBytes bounds POST bodies; a raw-text buffer is the largest field.
const maxFormBytes = 4 << 20

type Server struct {
	client     client.Client
	base       string
	renderers  *render.Registry
	theme      *theme.RendererConfig
	logger     *slog.Logger
	nextID     func() string
	sessionTTL time.Duration

	items *session.Store[itemSession]
	adds  *session.Store[addSession]
	mux   *http.ServeMux
}

// New builds the dashboard server. Without options it renders HTML with the
// built-in theme, mounted at the root.
func New(c client.Client, opts ...Option) (*Server, error) {
	if c == nil {
		return nil, ErrNoClient
	}
	s := &Server{
		client:     c,
		logger:     logging.Discard(),
		nextID:     uuid.NewString,
		sessionTTL: session.DefaultTTL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.base = strings.TrimRight(s.base, "/")

	if s.renderers == nil {
		registry, err := DefaultRegistry()
		if err != nil {
			return nil, err
		}
		s.renderers = registry
	}
	if s.theme == nil {
		catalog, err := theming.NewCatalog()
		if err != nil {
			return nil, err
		}
		cfg, err := catalog.Resolve(theming.DefaultTheme, "")
		if err != nil {
			return nil, err
		}
		s.theme = cfg
	}
	s.theme = mountTheme(s.theme, s.base)

	s.items = session.New(session.WithTTL[itemSession](s.sessionTTL))
	s.adds = session.New(session.WithTTL[addSession](s.sessionTTL))
	s.mux = s.routes()
	return s, nil
}

// DefaultRegistry holds the HTML renderer (default), the JSON view renderer
// and the plain-text renderer.
func DefaultRegistry() (*render.Registry, error) {
	htmlRenderer, err := html.New()
	if err != nil {
		return nil, fmt.Errorf("server: html renderer: %w", err)
	}
	registry := render.NewRegistry()
	for _, r := range []render.Renderer{htmlRenderer, jsonview.New(), tui.Renderer{}} {
		if err := registry.Register(r); err != nil {
			return nil, fmt.Errorf("server: register %s: %w", r.Name(), err)
		}
	}
	if err := registry.SetDefault(html.Name); err != nil {
		return nil, err
	}
	return registry, nil
}

// ServeHTTP routes the request and logs it.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logging.Middleware(s.logger, s.mux).ServeHTTP(w, r)
}

// Close stops the session sweepers.
func (s *Server) Close() {
	s.items.Close()
	s.adds.Close()
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	base := s.base

	mux.HandleFunc("GET "+base+"/{$}", s.handleList)
	mux.HandleFunc("GET "+base+"/add", s.handleAddView)
	mux.HandleFunc("POST "+base+"/add", s.handleAddAction)
	mux.HandleFunc("GET "+base+"/item/{key}", s.handleItemView)
	mux.HandleFunc("POST "+base+"/item/{key}", s.handleItemAction)
	mux.HandleFunc("GET "+base+"/assets/theme.css", s.handleThemeCSS)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	if base != "" {
		mux.Handle("GET "+base, http.RedirectHandler(base+"/", http.StatusMovedPermanently))
	}
	return mux
}

// mountTheme returns a copy of cfg whose site-relative asset URLs are
// prefixed with base.
func mountTheme(cfg *theme.RendererConfig, base string) *theme.RendererConfig {
	if cfg == nil || cfg.AssetURL == nil || base == "" {
		return cfg
	}
	out := *cfg
	resolve := cfg.AssetURL
	out.AssetURL = func(key string) string {
		url := resolve(key)
		if strings.HasPrefix(url, "/") && !strings.HasPrefix(url, base+"/") {
			return render.JoinBase(base, url)
		}
		return url
	}
	return &out
}

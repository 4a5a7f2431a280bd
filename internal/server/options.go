package server

import (
	"log/slog"
	"time"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-kvdash/pkg/render"
)

// Option configures a Server.
type Option func(*Server)

// WithBasePath mounts the dashboard routes under base, e.g. "/dashboard".
func WithBasePath(base string) Option {
	return func(s *Server) {
		s.base = base
	}
}

// WithLogger sets the logger used for request and error logs.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRegistry replaces the renderer registry. Its default renderer answers
// requests whose Accept header matches nothing registered.
func WithRegistry(registry *render.Registry) Option {
	return func(s *Server) {
		if registry != nil {
			s.renderers = registry
		}
	}
}

// WithTheme sets the resolved theme passed to renderers.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(s *Server) {
		s.theme = cfg
	}
}

// WithSessionTTL sets the idle lifetime of edit sessions.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Server) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithRequestIDs replaces the request ID generator.
func WithRequestIDs(next func() string) Option {
	return func(s *Server) {
		if next != nil {
			s.nextID = next
		}
	}
}

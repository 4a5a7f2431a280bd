package render_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-kvdash/pkg/render"
)

type stubRenderer struct {
	name        string
	contentType string
}

func (s stubRenderer) Name() string        { return s.name }
func (s stubRenderer) ContentType() string { return s.contentType }
func (s stubRenderer) Render(context.Context, render.View, render.RenderOptions) ([]byte, error) {
	return []byte(s.name), nil
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	registry := render.NewRegistry()
	registry.MustRegister(stubRenderer{name: "html", contentType: "text/html"})
	if err := registry.Register(stubRenderer{name: "html", contentType: "text/html"}); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if err := registry.Register(nil); err == nil {
		t.Fatalf("expected nil renderer error")
	}
	if !registry.Has("html") || registry.Has("json") {
		t.Fatalf("unexpected Has results")
	}
}

func TestRegistryNegotiate(t *testing.T) {
	registry := render.NewRegistry()
	registry.MustRegister(stubRenderer{name: "html", contentType: "text/html; charset=utf-8"})
	registry.MustRegister(stubRenderer{name: "json", contentType: "application/json"})

	cases := map[string]string{
		"":                                  "html",
		"*/*":                               "html",
		"application/json":                  "json",
		"text/html,application/xhtml+xml":   "html",
		"application/xml, application/json": "json",
		"image/png":                         "html",
	}
	for accept, want := range cases {
		renderer, err := registry.Negotiate(accept)
		if err != nil {
			t.Fatalf("negotiate %q: %v", accept, err)
		}
		if renderer.Name() != want {
			t.Fatalf("negotiate %q: want %s got %s", accept, want, renderer.Name())
		}
	}

	if err := registry.SetDefault("json"); err != nil {
		t.Fatalf("set default: %v", err)
	}
	renderer, _ := registry.Negotiate("")
	if renderer.Name() != "json" {
		t.Fatalf("default not applied, got %s", renderer.Name())
	}
	if err := registry.SetDefault("missing"); err == nil {
		t.Fatalf("expected error for unknown default")
	}
}

func TestRegistryNegotiateEmpty(t *testing.T) {
	if _, err := render.NewRegistry().Negotiate("text/html"); err == nil {
		t.Fatalf("expected error without renderers")
	}
}

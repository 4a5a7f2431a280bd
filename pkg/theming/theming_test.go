package theming

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResolveDefaultTheme(t *testing.T) {
	catalog, err := NewCatalog()
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}

	cfg, err := catalog.Resolve("", "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Theme != DefaultTheme || cfg.Variant != "" {
		t.Fatalf("unexpected selection %s/%s", cfg.Theme, cfg.Variant)
	}
	if cfg.CSSVars["--brand"] != "#27c2c2" {
		t.Fatalf("css var not derived: %v", cfg.CSSVars)
	}
	if got := cfg.AssetURL("stylesheet"); got != "/assets/theme.css" {
		t.Fatalf("unexpected asset url %q", got)
	}
	if got := cfg.AssetURL("missing"); got != "" {
		t.Fatalf("expected empty url for unknown asset, got %q", got)
	}
}

func TestResolveVariantOverridesTokens(t *testing.T) {
	catalog, err := NewCatalog()
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	cfg, err := catalog.Resolve(DefaultTheme, "light")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Tokens["background"] != "#fafafa" || cfg.CSSVars["--background"] != "#fafafa" {
		t.Fatalf("variant token not applied: %v", cfg.Tokens)
	}
	if cfg.Tokens["brand"] != "#27c2c2" {
		t.Fatalf("base token lost: %v", cfg.Tokens)
	}

	base, _ := catalog.Resolve(DefaultTheme, "")
	if base.Tokens["background"] != "#121212" {
		t.Fatalf("variant leaked into base manifest: %v", base.Tokens)
	}
}

func TestResolveUnknown(t *testing.T) {
	catalog, err := NewCatalog()
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	if _, err := catalog.Resolve("nope", ""); !errors.Is(err, ErrUnknownTheme) {
		t.Fatalf("expected ErrUnknownTheme, got %v", err)
	}
	if _, err := catalog.Resolve(DefaultTheme, "sepia"); !errors.Is(err, ErrUnknownTheme) {
		t.Fatalf("expected ErrUnknownTheme for variant, got %v", err)
	}
}

func TestLoadManifestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ocean.yaml")
	raw := "name: ocean\ntokens:\n  brand: \"#0077be\"\nassets:\n  prefix: /static/\n  files:\n    stylesheet: ocean.css\n"
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	manifest, err := LoadManifestFile(path)
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}
	catalog, err := NewCatalog()
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	if err := catalog.Register(manifest); err != nil {
		t.Fatalf("register: %v", err)
	}
	if diff := cmp.Diff([]string{"kvdash", "ocean"}, catalog.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	cfg, err := catalog.Resolve("ocean", "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got := cfg.AssetURL("stylesheet"); got != "/static/ocean.css" {
		t.Fatalf("unexpected asset url %q", got)
	}
}

func TestParseManifestRequiresName(t *testing.T) {
	if _, err := ParseManifest([]byte("tokens: {a: b}")); err == nil {
		t.Fatalf("expected error for nameless manifest")
	}
	if _, err := ParseManifest([]byte("name: [")); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestStylesheet(t *testing.T) {
	catalog, err := NewCatalog()
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	cfg, _ := catalog.Resolve("", "")
	css := Stylesheet(cfg)
	if !strings.HasPrefix(css, ":root {\n  --accent-1: #d9d9d9;\n") {
		t.Fatalf("unexpected stylesheet:\n%s", css)
	}
	if !strings.Contains(InlineStyle(cfg), "--brand: #27c2c2;") {
		t.Fatalf("unexpected inline style %q", InlineStyle(cfg))
	}
	if Stylesheet(nil) != "" {
		t.Fatalf("nil config should render nothing")
	}
}

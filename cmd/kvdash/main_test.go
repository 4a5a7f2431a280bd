package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-kvdash/internal/config"
)

func TestRunRejectsUnknownCommand(t *testing.T) {
	var stderr bytes.Buffer
	err := run(context.Background(), []string{"launch"}, &stderr)
	if !errors.Is(err, errUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if !strings.Contains(stderr.String(), "usage: kvdash") {
		t.Fatalf("expected usage text, got %q", stderr.String())
	}
}

func TestRunRequiresStoreURL(t *testing.T) {
	t.Setenv("KVDASH_STORE_URL", "")
	var stderr bytes.Buffer
	err := run(context.Background(), []string{"tui"}, &stderr)
	if err == nil || !strings.Contains(err.Error(), "config: validation failed") {
		t.Fatalf("expected config validation error, got %v", err)
	}
}

func TestResolveThemeVariantAndFile(t *testing.T) {
	cfg, err := resolveTheme(config.ThemeConfig{Name: "kvdash", Variant: "light"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.CSSVars["--background"] != "#fafafa" || cfg.CSSVars["--brand"] != "#27c2c2" {
		t.Fatalf("unexpected vars %v", cfg.CSSVars)
	}

	path := filepath.Join(t.TempDir(), "ocean.yaml")
	manifest := "name: ocean\nversion: 1.0.0\ntokens:\n  brand: \"#0077be\"\nassets:\n  prefix: /assets\n  files:\n    stylesheet: theme.css\n"
	if err := os.WriteFile(path, []byte(manifest), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	cfg, err = resolveTheme(config.ThemeConfig{Name: "ocean", File: path})
	if err != nil {
		t.Fatalf("resolve file theme: %v", err)
	}
	if cfg.CSSVars["--brand"] != "#0077be" {
		t.Fatalf("unexpected vars %v", cfg.CSSVars)
	}
}

func TestNewClientWithContract(t *testing.T) {
	c, err := newClient(context.Background(), config.StoreConfig{URL: "http://127.0.0.1:1", Timeout: 1e9, ValidateContract: true})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if c.BaseURL() != "http://127.0.0.1:1" {
		t.Fatalf("unexpected base url %q", c.BaseURL())
	}
}

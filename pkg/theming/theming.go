// Package theming loads dashboard theme manifests and resolves them into
// renderer configuration with derived CSS variables.
package theming

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"
)

// DefaultTheme is the name of the embedded theme.
const DefaultTheme = "kvdash"

// ErrUnknownTheme is returned when a theme or variant is not registered.
var ErrUnknownTheme = errors.New("theming: unknown theme")

//go:embed default.yaml
var defaultManifest []byte

type manifestFile struct {
	Name      string                 `yaml:"name"`
	Version   string                 `yaml:"version"`
	Tokens    map[string]string      `yaml:"tokens"`
	Templates map[string]string      `yaml:"templates"`
	Assets    assetsFile             `yaml:"assets"`
	Variants  map[string]variantFile `yaml:"variants"`
}

type variantFile struct {
	Tokens    map[string]string `yaml:"tokens"`
	Templates map[string]string `yaml:"templates"`
	Assets    assetsFile        `yaml:"assets"`
}

type assetsFile struct {
	Prefix string            `yaml:"prefix"`
	Files  map[string]string `yaml:"files"`
}

// ParseManifest decodes a YAML theme manifest.
func ParseManifest(raw []byte) (*theme.Manifest, error) {
	var file manifestFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("theming: decode manifest: %w", err)
	}
	if strings.TrimSpace(file.Name) == "" {
		return nil, errors.New("theming: manifest name is required")
	}

	if file.Version == "" {
		file.Version = "0.0.0"
	}

	manifest := &theme.Manifest{
		Name:      file.Name,
		Version:   file.Version,
		Tokens:    file.Tokens,
		Templates: file.Templates,
		Assets:    theme.Assets{Prefix: file.Assets.Prefix, Files: file.Assets.Files},
	}
	if len(file.Variants) > 0 {
		manifest.Variants = make(map[string]theme.Variant, len(file.Variants))
		for name, variant := range file.Variants {
			manifest.Variants[name] = theme.Variant{
				Tokens:    variant.Tokens,
				Templates: variant.Templates,
				Assets:    theme.Assets{Prefix: variant.Assets.Prefix, Files: variant.Assets.Files},
			}
		}
	}
	return manifest, nil
}

// LoadManifestFile reads and decodes a manifest from disk.
func LoadManifestFile(path string) (*theme.Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("theming: read manifest: %w", err)
	}
	return ParseManifest(raw)
}

type registrar interface {
	Register(manifest *theme.Manifest) error
}

// Catalog holds the registered manifests.
type Catalog struct {
	registry registrar

	mu        sync.RWMutex
	manifests map[string]*theme.Manifest
}

// NewCatalog returns a catalog holding the embedded default theme.
func NewCatalog() (*Catalog, error) {
	c := &Catalog{
		registry:  theme.NewRegistry(),
		manifests: make(map[string]*theme.Manifest),
	}
	manifest, err := ParseManifest(defaultManifest)
	if err != nil {
		return nil, err
	}
	if err := c.Register(manifest); err != nil {
		return nil, err
	}
	return c, nil
}

// Register adds manifest. A manifest with the name of an existing one
// replaces it in lookups.
func (c *Catalog) Register(manifest *theme.Manifest) error {
	if manifest == nil {
		return errors.New("theming: manifest is required")
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.manifests[manifest.Name]; !exists {
		if err := c.registry.Register(manifest); err != nil {
			return fmt.Errorf("theming: register %q: %w", manifest.Name, err)
		}
	}
	c.manifests[manifest.Name] = manifest
	return nil
}

// Names lists registered themes.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.manifests))
	for name := range c.manifests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve merges the variant over its base theme and derives CSS variables
// ("--" + token name) for every token. An empty name selects DefaultTheme;
// an empty variant selects the base theme.
func (c *Catalog) Resolve(name, variant string) (*theme.RendererConfig, error) {
	if name == "" {
		name = DefaultTheme
	}
	c.mu.RLock()
	manifest, ok := c.manifests[name]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}

	tokens := copyStringMap(manifest.Tokens)
	partials := copyStringMap(manifest.Templates)
	prefix := manifest.Assets.Prefix
	files := copyStringMap(manifest.Assets.Files)

	if variant != "" {
		v, ok := manifest.Variants[variant]
		if !ok {
			return nil, fmt.Errorf("%w: %q has no variant %q", ErrUnknownTheme, name, variant)
		}
		tokens = mergeStringMap(tokens, v.Tokens)
		partials = mergeStringMap(partials, v.Templates)
		files = mergeStringMap(files, v.Assets.Files)
		if v.Assets.Prefix != "" {
			prefix = v.Assets.Prefix
		}
	}

	vars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		vars["--"+key] = value
	}

	return &theme.RendererConfig{
		Theme:    name,
		Variant:  variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  vars,
		AssetURL: assetResolver(prefix, files),
	}, nil
}

// Stylesheet renders the CSS variables of cfg as a :root rule.
func Stylesheet(cfg *theme.RendererConfig) string {
	if cfg == nil || len(cfg.CSSVars) == 0 {
		return ""
	}
	return ":root {\n" + declarations(cfg.CSSVars, "  ", ";\n") + "}\n"
}

// InlineStyle renders the CSS variables of cfg for a style attribute.
func InlineStyle(cfg *theme.RendererConfig) string {
	if cfg == nil || len(cfg.CSSVars) == 0 {
		return ""
	}
	return strings.TrimSuffix(declarations(cfg.CSSVars, "", "; "), " ")
}

func declarations(vars map[string]string, indent, sep string) string {
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		b.WriteString(indent)
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(sep)
	}
	return b.String()
}

func assetResolver(prefix string, files map[string]string) func(string) string {
	prefix = strings.TrimRight(prefix, "/")
	return func(key string) string {
		file, ok := files[key]
		if !ok || file == "" {
			return ""
		}
		if strings.HasPrefix(file, "/") || strings.Contains(file, "://") {
			return file
		}
		return prefix + "/" + file
	}
}

func copyStringMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

func mergeStringMap(base, override map[string]string) map[string]string {
	for key, value := range override {
		base[key] = value
	}
	return base
}

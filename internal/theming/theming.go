// Package theming owns the demo's go-theme manifest and turns a selected
// variant into the values page templates need: CSS custom properties and
// asset URLs.
package theming

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// Name is the manifest name.
const Name = "formdemo"

// Variants shipped with the manifest.
const (
	VariantLight = "light"
	VariantDark  = "dark"
)

var (
	ErrUnknownTheme   = errors.New("theming: unknown theme")
	ErrUnknownVariant = errors.New("theming: unknown variant")
)

// Manifest describes the formdemo theme. Base tokens are the light palette;
// the dark variant overrides colours only.
func Manifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    Name,
		Version: "1.0.0",
		Tokens: map[string]string{
			"background":         "#ffffff",
			"foreground":         "#0a0a0a",
			"muted":              "#f4f4f5",
			"muted-foreground":   "#71717a",
			"border":             "#e4e4e7",
			"primary":            "#18181b",
			"primary-foreground": "#fafafa",
			"destructive":        "#dc2626",
			"sidebar":            "#fafafa",
			"radius":             "0.5rem",
			"sidebar-width":      "16rem",
		},
		Templates: map[string]string{
			"layout": "layout.tpl",
		},
		Assets: theme.Assets{
			Prefix: "/static",
			Files: map[string]string{
				"stylesheet": "app.css",
				"script":     "app.js",
				"form":       "form.js",
			},
		},
		Variants: map[string]theme.Variant{
			VariantLight: {
				Tokens: map[string]string{"color-scheme": "light"},
			},
			VariantDark: {
				Tokens: map[string]string{
					"color-scheme":       "dark",
					"background":         "#09090b",
					"foreground":         "#fafafa",
					"muted":              "#27272a",
					"muted-foreground":   "#a1a1aa",
					"border":             "#27272a",
					"primary":            "#fafafa",
					"primary-foreground": "#18181b",
					"destructive":        "#ef4444",
					"sidebar":            "#18181b",
				},
			},
		},
	}
}

// Catalog registers manifests with a go-theme registry and selects variants
// from them.
type Catalog struct {
	provider       theme.ThemeProvider
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

var _ theme.ThemeSelector = (*Catalog)(nil)

// NewCatalog registers the given manifests (the formdemo manifest when none
// are passed). The first manifest is the default theme.
func NewCatalog(defaultVariant string, manifests ...*theme.Manifest) (*Catalog, error) {
	if len(manifests) == 0 {
		manifests = []*theme.Manifest{Manifest()}
	}

	registry := theme.NewRegistry()
	catalog := &Catalog{
		provider:       registry,
		manifests:      make(map[string]*theme.Manifest, len(manifests)),
		defaultVariant: strings.TrimSpace(defaultVariant),
	}
	for _, manifest := range manifests {
		if manifest == nil {
			continue
		}
		if err := registry.Register(manifest); err != nil {
			return nil, fmt.Errorf("theming: register %s: %w", manifest.Name, err)
		}
		catalog.manifests[manifest.Name] = manifest
		if catalog.defaultTheme == "" {
			catalog.defaultTheme = manifest.Name
		}
	}
	if catalog.defaultTheme == "" {
		return nil, fmt.Errorf("%w: no manifests", ErrUnknownTheme)
	}
	if catalog.defaultVariant == "" {
		catalog.defaultVariant = VariantLight
	}
	if _, err := catalog.Select("", ""); err != nil {
		return nil, err
	}
	return catalog, nil
}

// Provider exposes the go-theme registry backing the catalog.
func (c *Catalog) Provider() theme.ThemeProvider {
	return c.provider
}

// Select resolves a theme and variant. Blank values fall back to the
// catalog defaults.
func (c *Catalog) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = c.defaultTheme
	}
	manifest, ok := c.manifests[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}

	variant = strings.ToLower(strings.TrimSpace(variant))
	if variant == "" {
		variant = c.defaultVariant
	}
	if _, ok := manifest.Variants[variant]; !ok && len(manifest.Variants) > 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, variant)
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// Variants lists the variant names of the default theme.
func (c *Catalog) Variants() []string {
	manifest := c.manifests[c.defaultTheme]
	names := make([]string, 0, len(manifest.Variants))
	for name := range manifest.Variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RendererConfig flattens a selection: variant tokens, templates and assets
// override the manifest's, and every token becomes a "--token" CSS variable.
func RendererConfig(selection *theme.Selection) *theme.RendererConfig {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	manifest := selection.Manifest
	variant := manifest.Variants[selection.Variant]

	tokens := mergeStrings(manifest.Tokens, variant.Tokens)
	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+key] = value
	}

	prefix := manifest.Assets.Prefix
	if variant.Assets.Prefix != "" {
		prefix = variant.Assets.Prefix
	}
	files := mergeStrings(manifest.Assets.Files, variant.Assets.Files)

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: mergeStrings(manifest.Templates, variant.Templates),
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok {
				return ""
			}
			return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(file, "/")
		},
	}
}

func mergeStrings(base, override map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(override))
	for key, value := range base {
		out[key] = value
	}
	for key, value := range override {
		out[key] = value
	}
	return out
}

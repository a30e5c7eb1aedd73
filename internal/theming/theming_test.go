package theming

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	theme "github.com/goliatone/go-theme"
)

func TestCatalog_SelectDefaults(t *testing.T) {
	catalog, err := NewCatalog("")
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	if catalog.Provider() == nil {
		t.Fatalf("expected provider")
	}

	selection, err := catalog.Select("", "")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if selection.Theme != Name || selection.Variant != VariantLight {
		t.Fatalf("unexpected selection %s/%s", selection.Theme, selection.Variant)
	}

	selection, err = catalog.Select("", " Dark ")
	if err != nil {
		t.Fatalf("select dark: %v", err)
	}
	if selection.Variant != VariantDark {
		t.Fatalf("expected dark variant, got %s", selection.Variant)
	}

	if diff := cmp.Diff([]string{VariantDark, VariantLight}, catalog.Variants()); diff != "" {
		t.Fatalf("variants mismatch (-want +got):\n%s", diff)
	}
}

func TestCatalog_SelectErrors(t *testing.T) {
	catalog, err := NewCatalog(VariantDark)
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	if _, err := catalog.Select("other", ""); !errors.Is(err, ErrUnknownTheme) {
		t.Fatalf("expected ErrUnknownTheme, got %v", err)
	}
	if _, err := catalog.Select("", "sepia"); !errors.Is(err, ErrUnknownVariant) {
		t.Fatalf("expected ErrUnknownVariant, got %v", err)
	}
	if _, err := NewCatalog("sepia"); !errors.Is(err, ErrUnknownVariant) {
		t.Fatalf("expected invalid default variant to fail, got %v", err)
	}
}

func TestRendererConfig_MergesVariant(t *testing.T) {
	manifest := &theme.Manifest{
		Name:    "acme",
		Version: "1.0.0",
		Tokens:  map[string]string{"brand": "#123456", "radius": "4px"},
		Templates: map[string]string{
			"layout": "acme/layout.tpl",
		},
		Assets: theme.Assets{
			Prefix: "/assets/acme/",
			Files:  map[string]string{"stylesheet": "theme.css", "script": "app.js"},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens:    map[string]string{"brand": "#654321"},
				Templates: map[string]string{"form": "acme/dark/form.tpl"},
				Assets:    theme.Assets{Files: map[string]string{"script": "app.dark.js"}},
			},
		},
	}
	catalog, err := NewCatalog("dark", manifest)
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	selection, err := catalog.Select("acme", "")
	if err != nil {
		t.Fatalf("select: %v", err)
	}

	cfg := RendererConfig(selection)
	if cfg.Theme != "acme" || cfg.Variant != "dark" {
		t.Fatalf("unexpected config %s/%s", cfg.Theme, cfg.Variant)
	}
	if diff := cmp.Diff(map[string]string{"--brand": "#654321", "--radius": "4px"}, cfg.CSSVars); diff != "" {
		t.Fatalf("css vars mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]string{"layout": "acme/layout.tpl", "form": "acme/dark/form.tpl"}, cfg.Partials); diff != "" {
		t.Fatalf("partials mismatch (-want +got):\n%s", diff)
	}
	if got := cfg.AssetURL("script"); got != "/assets/acme/app.dark.js" {
		t.Fatalf("unexpected script url %s", got)
	}
	if got := cfg.AssetURL("stylesheet"); got != "/assets/acme/theme.css" {
		t.Fatalf("unexpected stylesheet url %s", got)
	}
	if got := cfg.AssetURL("missing"); got != "" {
		t.Fatalf("expected empty url for unknown asset, got %s", got)
	}

	if RendererConfig(nil) != nil {
		t.Fatalf("expected nil config for nil selection")
	}
}

func TestNewView(t *testing.T) {
	catalog, err := NewCatalog(VariantLight)
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	selection, _ := catalog.Select("", VariantDark)
	view := NewView(RendererConfig(selection), catalog.Variants())

	if view.Stylesheet != "/static/app.css" || view.Script != "/static/app.js" || view.FormScript != "/static/form.js" {
		t.Fatalf("unexpected asset urls %+v", view)
	}
	if !strings.HasPrefix(view.Style, ":root {\n") || !strings.Contains(view.Style, "  --background: #09090b;\n") {
		t.Fatalf("unexpected style:\n%s", view.Style)
	}
}

func TestCSSVarsStyle(t *testing.T) {
	got := CSSVarsStyle(map[string]string{"--b": "2", "--a": "1"})
	want := ":root {\n  --a: 1;\n  --b: 2;\n}"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if CSSVarsStyle(nil) != "" {
		t.Fatalf("expected empty style")
	}
}

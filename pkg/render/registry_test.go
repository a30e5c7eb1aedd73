package render_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formdemo/pkg/model"
	"github.com/goliatone/go-formdemo/pkg/render"
)

type namedRenderer string

func (n namedRenderer) Name() string        { return string(n) }
func (n namedRenderer) ContentType() string { return "text/plain" }
func (n namedRenderer) Render(context.Context, model.FormModel, render.RenderOptions) ([]byte, error) {
	return []byte(n), nil
}

func TestRegistry(t *testing.T) {
	registry := render.NewRegistry()
	for _, name := range []string{"vanilla", "tui"} {
		if err := registry.Register(namedRenderer(name)); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}

	if err := registry.Register(namedRenderer("tui")); !errors.Is(err, render.ErrDuplicateRenderer) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if err := registry.Register(namedRenderer("  ")); err == nil {
		t.Fatal("expected error for blank name")
	}

	got, err := registry.Get("")
	if err != nil {
		t.Fatalf("get default: %v", err)
	}
	if got.Name() != "vanilla" {
		t.Fatalf("default renderer = %q, want vanilla", got.Name())
	}
	if _, err := registry.Get("preact"); !errors.Is(err, render.ErrRendererNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if diff := cmp.Diff([]string{"tui", "vanilla"}, registry.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

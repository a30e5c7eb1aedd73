// Package vanilla renders a form model as a server-side HTML fragment. The
// same markup serves native (browser posted) and programmatic (script
// posted) submission; only the data attributes and submit controls differ.
package vanilla

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/goliatone/go-formdemo/pkg/model"
	"github.com/goliatone/go-formdemo/pkg/render"
	"github.com/goliatone/go-formdemo/pkg/render/template/gotemplate"
)

// Name is the registry key of this renderer.
const Name = "vanilla"

const formTemplate = "templates/form.tpl"

//go:embed templates/*.tpl templates/components/*.tpl
var embedded embed.FS

// TemplatesFS exposes the embedded form templates.
func TemplatesFS() fs.FS {
	return embedded
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTemplates replaces the embedded templates. files must provide
// templates/form.tpl and the component partials it includes.
func WithTemplates(files fs.FS) Option {
	return func(r *Renderer) {
		if files != nil {
			r.files = files
		}
	}
}

// Renderer produces the form fragment through a pongo2 engine.
type Renderer struct {
	files  fs.FS
	engine *gotemplate.Engine
}

var _ render.Renderer = (*Renderer)(nil)

func New(options ...Option) (*Renderer, error) {
	r := &Renderer{files: embedded}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	engine, err := gotemplate.New(gotemplate.WithFS(r.files), gotemplate.WithName(Name))
	if err != nil {
		return nil, fmt.Errorf("vanilla: template engine: %w", err)
	}
	r.engine = engine
	return r, nil
}

func (r *Renderer) Name() string { return Name }

func (r *Renderer) ContentType() string { return "text/html; charset=utf-8" }

// Render returns the form markup for form in the given state.
func (r *Renderer) Render(ctx context.Context, form model.FormModel, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	html, err := r.engine.RenderTemplate(formTemplate, map[string]any{
		"form": buildFormView(form, options),
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla: render %s: %w", form.ID, err)
	}
	return []byte(html), nil
}

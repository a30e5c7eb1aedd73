package render

import (
	"context"

	"github.com/goliatone/go-formdemo/pkg/model"
)

// Renderer converts a FormModel into an HTML fragment.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form model.FormModel, options RenderOptions) ([]byte, error)
}

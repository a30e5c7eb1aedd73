// Package showcase keeps the catalogue of UI components shown on the example
// page. Each component is a small inline template plus the data it renders
// with.
package showcase

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	ErrDuplicateComponent = errors.New("showcase: duplicate component")
	ErrInvalidComponent   = errors.New("showcase: invalid component")
)

// Component is one showcase entry. Description may carry limited HTML; it is
// sanitized before display.
type Component struct {
	Name        string
	Title       string
	Description string
	Template    string
	Data        map[string]any
}

// Rendered is a component ready for the page template.
type Rendered struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
	HTML        string `json:"html"`
}

// Registry holds components in registration order.
type Registry struct {
	mu         sync.RWMutex
	components []Component
	index      map[string]int
}

// NewRegistry returns a registry with the built-in components.
func NewRegistry() *Registry {
	r := &Registry{index: make(map[string]int)}
	for _, component := range builtins() {
		if err := r.Register(component); err != nil {
			panic(err)
		}
	}
	return r
}

// Register appends a component. Names must be unique.
func (r *Registry) Register(component Component) error {
	component.Name = strings.TrimSpace(component.Name)
	if component.Name == "" || strings.TrimSpace(component.Template) == "" {
		return fmt.Errorf("%w: name and template are required", ErrInvalidComponent)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.index == nil {
		r.index = make(map[string]int)
	}
	if _, exists := r.index[component.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateComponent, component.Name)
	}
	r.index[component.Name] = len(r.components)
	r.components = append(r.components, component)
	return nil
}

// Names lists component names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.components))
	for i, component := range r.components {
		names[i] = component.Name
	}
	return names
}

// StringRenderer renders inline template source.
type StringRenderer interface {
	RenderString(content string, data any, out ...io.Writer) (string, error)
}

// Render renders every component with renderer.
func (r *Registry) Render(renderer StringRenderer) ([]Rendered, error) {
	if renderer == nil {
		return nil, errors.New("showcase: template renderer is nil")
	}
	r.mu.RLock()
	components := append([]Component(nil), r.components...)
	r.mu.RUnlock()

	out := make([]Rendered, 0, len(components))
	for _, component := range components {
		html, err := renderer.RenderString(component.Template, component.Data)
		if err != nil {
			return nil, fmt.Errorf("showcase: render %s: %w", component.Name, err)
		}
		out = append(out, Rendered{
			Name:        component.Name,
			Title:       component.Title,
			Description: sanitizeDescription(component.Description),
			HTML:        strings.TrimSpace(html),
		})
	}
	return out, nil
}

var (
	descriptionPolicyOnce sync.Once
	descriptionPolicy     *bluemonday.Policy
)

func sanitizeDescription(raw string) string {
	descriptionPolicyOnce.Do(func() {
		descriptionPolicy = bluemonday.UGCPolicy()
	})
	return strings.TrimSpace(descriptionPolicy.Sanitize(raw))
}

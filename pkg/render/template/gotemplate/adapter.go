// Package gotemplate renders pongo2 templates loaded from an fs.FS.
package gotemplate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
)

const templateExt = ".tpl"

var errNilEngine = errors.New("gotemplate: engine is nil")

// Option configures the engine before construction.
type Option func(*config)

type config struct {
	name    string
	files   fs.FS
	noCache bool
}

// WithName names the underlying pongo2 template set.
func WithName(name string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			cfg.name = trimmed
		}
	}
}

// WithFS loads templates from files.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.files = files
	}
}

// WithoutCache reparses templates on every render.
func WithoutCache() Option {
	return func(cfg *config) {
		cfg.noCache = true
	}
}

// Engine renders templates from a pongo2 template set.
// Autoescaping is on; data is converted to plain maps through its JSON form,
// so struct fields are addressed by their json names.
type Engine struct {
	set     *pongo2.TemplateSet
	noCache bool

	mu    sync.RWMutex
	cache map[string]*pongo2.Template
}

// New builds an engine. A template source is required.
func New(options ...Option) (*Engine, error) {
	cfg := config{name: "formdemo"}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.files == nil {
		return nil, errors.New("gotemplate: a template fs.FS is required")
	}

	registerNumberFilter()
	return &Engine{
		set:     pongo2.NewSet(cfg.name, pongo2.NewFSLoader(cfg.files)),
		noCache: cfg.noCache,
		cache:   make(map[string]*pongo2.Template),
	}, nil
}

// Render treats name as inline content when it carries template tags and as
// a template path otherwise.
func (e *Engine) Render(name string, data any, out ...io.Writer) (string, error) {
	if strings.Contains(name, "{{") || strings.Contains(name, "{%") {
		return e.RenderString(name, data, out...)
	}
	return e.RenderTemplate(name, data, out...)
}

// RenderTemplate renders the template at name; ".tpl" is appended when
// missing.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.set == nil {
		return "", errNilEngine
	}
	if !strings.HasSuffix(name, templateExt) {
		name += templateExt
	}
	tmpl, err := e.lookup(name)
	if err != nil {
		return "", err
	}
	return e.execute(tmpl, name, data, out)
}

// RenderString parses and renders inline template content.
func (e *Engine) RenderString(content string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.set == nil {
		return "", errNilEngine
	}
	tmpl, err := e.set.FromString(content)
	if err != nil {
		return "", fmt.Errorf("gotemplate: parse template string: %w", err)
	}
	return e.execute(tmpl, "inline", data, out)
}

// RegisterFilter adds a pongo2 filter. Filters are process wide, so an
// existing name is rejected.
func (e *Engine) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	name = strings.TrimSpace(name)
	if name == "" || fn == nil {
		return errors.New("gotemplate: filter name and function required")
	}
	if pongo2.FilterExists(name) {
		return fmt.Errorf("gotemplate: filter %q already exists", name)
	}
	return pongo2.RegisterFilter(name, func(in, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var arg any
		if param != nil {
			arg = param.Interface()
		}
		result, err := fn(in.Interface(), arg)
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:" + name, OrigError: err}
		}
		return pongo2.AsValue(result), nil
	})
}

// GlobalContext merges data into the values every template can read.
func (e *Engine) GlobalContext(data any) error {
	if e == nil || e.set == nil {
		return errNilEngine
	}
	if data == nil {
		return nil
	}
	values, err := toContext(data)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.set.Globals == nil {
		e.set.Globals = pongo2.Context{}
	}
	e.set.Globals.Update(values)
	return nil
}

func (e *Engine) lookup(name string) (*pongo2.Template, error) {
	if !e.noCache {
		e.mu.RLock()
		tmpl, ok := e.cache[name]
		e.mu.RUnlock()
		if ok {
			return tmpl, nil
		}
	}

	tmpl, err := e.set.FromFile(name)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: load template %q: %w", name, err)
	}
	if !e.noCache {
		e.mu.Lock()
		e.cache[name] = tmpl
		e.mu.Unlock()
	}
	return tmpl, nil
}

func (e *Engine) execute(tmpl *pongo2.Template, name string, data any, out []io.Writer) (string, error) {
	values, err := toContext(data)
	if err != nil {
		return "", fmt.Errorf("gotemplate: convert data: %w", err)
	}

	var buf bytes.Buffer
	e.mu.RLock()
	err = tmpl.ExecuteWriter(values, &buf)
	e.mu.RUnlock()
	if err != nil {
		return "", fmt.Errorf("gotemplate: execute template %q: %w", name, err)
	}

	for _, w := range out {
		if _, err := w.Write(buf.Bytes()); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// toContext flattens data into JSON-shaped maps so templates see the same
// field names the JSON encoding uses.
func toContext(data any) (pongo2.Context, error) {
	if data == nil {
		return pongo2.Context{}, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	values := pongo2.Context{}
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("template data must be an object: %w", err)
	}
	return values, nil
}

// registerNumberFilter installs "number", which prints floats without
// pongo2's fixed precision so 8.0 renders as "8".
func registerNumberFilter() {
	if pongo2.FilterExists("number") {
		return
	}
	_ = pongo2.RegisterFilter("number", func(in, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		if in == nil || in.IsNil() {
			return pongo2.AsValue(""), nil
		}
		if in.IsFloat() || in.IsInteger() {
			return pongo2.AsValue(strconv.FormatFloat(in.Float(), 'f', -1, 64)), nil
		}
		return pongo2.AsValue(in.String()), nil
	})
}

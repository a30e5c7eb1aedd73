// Package site serves the demo: the page routes with their sidebar layout,
// the form submission endpoint and the supporting static, health, metrics
// and API description routes.
package site

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"sort"

	"go.uber.org/zap"

	"github.com/goliatone/go-formdemo/internal/logging"
	"github.com/goliatone/go-formdemo/internal/metrics"
	"github.com/goliatone/go-formdemo/internal/showcase"
	"github.com/goliatone/go-formdemo/internal/statestore"
	"github.com/goliatone/go-formdemo/internal/theming"
	"github.com/goliatone/go-formdemo/pkg/model"
	"github.com/goliatone/go-formdemo/pkg/nav"
	"github.com/goliatone/go-formdemo/pkg/openapi"
	"github.com/goliatone/go-formdemo/pkg/render"
	"github.com/goliatone/go-formdemo/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formdemo/pkg/renderers/vanilla"
	"github.com/goliatone/go-formdemo/pkg/validation"
)

// FormRoute is the submission endpoint pattern. Operations in the API
// document whose path matches it become forms keyed by the {form} segment.
const FormRoute = "/api/forms/{form}"

// Server holds the dependencies shared by all handlers.
type Server struct {
	opts     Options
	logger   *zap.Logger
	store    statestore.Store
	metrics  *metrics.Metrics
	site     nav.Site
	doc      *openapi.Document
	renderer render.Renderer
	themes   *theming.Catalog
	showcase *showcase.Registry
	pages    *gotemplate.Engine
	forms    map[string]*validation.ServerValidator
}

// New builds a server, filling in defaults for every option left unset.
func New(ctx context.Context, fns ...OptionFn) (*Server, error) {
	opts := Options{}
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.StateTTL <= 0 {
		opts.StateTTL = defaultStateTTL
	}
	if opts.SubmitDelay < 0 {
		opts.SubmitDelay = 0
	}

	s := &Server{
		opts:     opts,
		logger:   logging.OrNop(opts.Logger),
		store:    opts.Store,
		metrics:  opts.Metrics,
		doc:      opts.Document,
		themes:   opts.Themes,
		showcase: opts.Showcase,
	}
	if s.store == nil {
		s.store = statestore.NewMemory(opts.StateTTL)
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}
	if s.showcase == nil {
		s.showcase = showcase.NewRegistry()
	}

	if opts.Site != nil {
		s.site = *opts.Site
	} else {
		site, err := nav.DefaultSite()
		if err != nil {
			return nil, fmt.Errorf("site: load site definition: %w", err)
		}
		s.site = site
	}

	if s.doc == nil {
		doc, err := openapi.Default(ctx)
		if err != nil {
			return nil, fmt.Errorf("site: load api document: %w", err)
		}
		s.doc = doc
	}

	if s.themes == nil {
		catalog, err := theming.NewCatalog(opts.DefaultTheme)
		if err != nil {
			return nil, fmt.Errorf("site: theme catalog: %w", err)
		}
		s.themes = catalog
	}

	renderer, err := resolveRenderer(opts)
	if err != nil {
		return nil, err
	}
	s.renderer = renderer

	pages, err := gotemplate.New(
		gotemplate.WithFS(TemplatesFS()),
		gotemplate.WithName("site"),
	)
	if err != nil {
		return nil, fmt.Errorf("site: page templates: %w", err)
	}
	s.pages = pages

	forms, err := buildForms(s.doc)
	if err != nil {
		return nil, err
	}
	s.forms = forms

	for _, route := range s.site.Routes {
		if route.IsForm() {
			if _, ok := s.forms[route.Form]; !ok {
				return nil, fmt.Errorf("site: route %s references unknown form %q", route.Path, route.Form)
			}
		}
	}
	return s, nil
}

func resolveRenderer(opts Options) (render.Renderer, error) {
	registry := opts.Renderers
	if registry == nil {
		registry = render.NewRegistry()
		renderer, err := vanilla.New()
		if err != nil {
			return nil, fmt.Errorf("site: vanilla renderer: %w", err)
		}
		if err := registry.Register(renderer); err != nil {
			return nil, fmt.Errorf("site: register renderer: %w", err)
		}
	}
	renderer, err := registry.Get(opts.Renderer)
	if err != nil {
		return nil, fmt.Errorf("site: renderer: %w", err)
	}
	return renderer, nil
}

func buildForms(doc *openapi.Document) (map[string]*validation.ServerValidator, error) {
	builder := model.NewBuilder(nil)
	forms := make(map[string]*validation.ServerValidator)
	for _, op := range doc.Operations() {
		params, ok := nav.Params(FormRoute, op.Path)
		if !ok || op.Method != http.MethodPost {
			continue
		}
		id := params["form"]
		form, err := builder.Build(id, op)
		if err != nil {
			return nil, fmt.Errorf("site: build form %s: %w", id, err)
		}
		forms[id] = validation.NewServerValidator(form)
	}
	if len(forms) == 0 {
		return nil, errors.New("site: api document defines no forms")
	}
	return forms, nil
}

// Forms lists the form ids the server accepts, sorted.
func (s *Server) Forms() []string {
	ids := make([]string, 0, len(s.forms))
	for id := range s.forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Handler returns the routed handler wrapped in request logging and panic
// recovery.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return s.logRequests(s.recoverPanics(mux))
}

// Close releases the validation state store.
func (s *Server) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

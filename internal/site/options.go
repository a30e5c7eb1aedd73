package site

import (
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formdemo/internal/metrics"
	"github.com/goliatone/go-formdemo/internal/showcase"
	"github.com/goliatone/go-formdemo/internal/statestore"
	"github.com/goliatone/go-formdemo/internal/theming"
	"github.com/goliatone/go-formdemo/pkg/nav"
	"github.com/goliatone/go-formdemo/pkg/openapi"
	"github.com/goliatone/go-formdemo/pkg/render"
	"github.com/goliatone/go-formdemo/pkg/renderers/vanilla"
)

const (
	defaultRenderer = vanilla.Name
	defaultStateTTL = 5 * time.Minute
)

// Options configures a Server. Zero values are filled in by New.
type Options struct {
	Logger       *zap.Logger
	Store        statestore.Store
	Metrics      *metrics.Metrics
	Site         *nav.Site
	Document     *openapi.Document
	Renderers    *render.Registry
	Renderer     string
	Themes       *theming.Catalog
	Showcase     *showcase.Registry
	DefaultTheme string
	StateTTL     time.Duration
	SubmitDelay  time.Duration
	CookieSecure bool
}

type OptionFn func(*Options)

func WithLogger(logger *zap.Logger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}

func WithStore(store statestore.Store) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Store = store
	}
}

func WithMetrics(m *metrics.Metrics) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Metrics = m
	}
}

// WithSite replaces the embedded site definition.
func WithSite(site nav.Site) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Site = &site
	}
}

func WithDocument(doc *openapi.Document) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Document = doc
	}
}

// WithRenderers supplies the form renderer registry; name picks the entry
// used for pages (the registry default when blank).
func WithRenderers(registry *render.Registry, name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Renderers = registry
		o.Renderer = name
	}
}

func WithThemes(catalog *theming.Catalog) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Themes = catalog
	}
}

func WithShowcase(registry *showcase.Registry) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Showcase = registry
	}
}

// WithDefaultTheme sets the theme variant used when a request does not pick
// one.
func WithDefaultTheme(variant string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.DefaultTheme = variant
	}
}

func WithStateTTL(ttl time.Duration) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.StateTTL = ttl
	}
}

// WithSubmitDelay holds every submission for d before validating it.
func WithSubmitDelay(d time.Duration) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.SubmitDelay = d
	}
}

func WithCookieSecure(secure bool) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.CookieSecure = secure
	}
}

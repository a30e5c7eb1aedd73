// Package nav describes the site map: the routes the server exposes, the
// sidebar navigation and the matcher that decides which entry is active.
package nav

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed site.yaml
var defaultSite []byte

// Layouts a route can render in.
const (
	LayoutNone    = "none"
	LayoutSidebar = "sidebar"
)

var (
	// ErrInvalidSite is returned when a site definition fails validation.
	ErrInvalidSite = errors.New("nav: invalid site definition")
)

// Item is one sidebar entry.
type Item struct {
	Label string `yaml:"label"`
	Path  string `yaml:"path"`
	Fuzzy bool   `yaml:"fuzzy"`
}

// Route binds a path to a page template and, for form pages, to a form.
type Route struct {
	Path       string   `yaml:"path"`
	Page       string   `yaml:"page"`
	Title      string   `yaml:"title"`
	Layout     string   `yaml:"layout"`
	Form       string   `yaml:"form"`
	Fields     []string `yaml:"fields"`
	Submission string   `yaml:"submission"`
}

// IsForm reports whether the route renders a form.
func (r Route) IsForm() bool {
	return r.Form != ""
}

// Site is the full site definition.
type Site struct {
	Title  string  `yaml:"title"`
	Nav    []Item  `yaml:"nav"`
	Routes []Route `yaml:"routes"`
}

// DefaultSite parses the embedded site definition.
func DefaultSite() (Site, error) {
	return ParseSite(defaultSite)
}

// LoadSite reads a site definition from disk. An empty path yields the
// embedded default.
func LoadSite(file string) (Site, error) {
	if strings.TrimSpace(file) == "" {
		return DefaultSite()
	}
	raw, err := os.ReadFile(file)
	if err != nil {
		return Site{}, fmt.Errorf("nav: read site %s: %w", file, err)
	}
	return ParseSite(raw)
}

// ParseSite decodes and validates a YAML site definition.
func ParseSite(raw []byte) (Site, error) {
	var site Site
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	if err := decoder.Decode(&site); err != nil {
		return Site{}, fmt.Errorf("nav: decode site: %w", err)
	}
	if err := site.normalize(); err != nil {
		return Site{}, err
	}
	return site, nil
}

func (s *Site) normalize() error {
	if len(s.Routes) == 0 {
		return fmt.Errorf("%w: no routes", ErrInvalidSite)
	}
	seen := make(map[string]struct{}, len(s.Routes))
	for i := range s.Routes {
		route := &s.Routes[i]
		route.Path = strings.TrimSpace(route.Path)
		if !strings.HasPrefix(route.Path, "/") {
			return fmt.Errorf("%w: route %q must start with /", ErrInvalidSite, route.Path)
		}
		route.Path = path.Clean(route.Path)
		if _, ok := seen[route.Path]; ok {
			return fmt.Errorf("%w: duplicate route %q", ErrInvalidSite, route.Path)
		}
		seen[route.Path] = struct{}{}
		if route.Page == "" {
			return fmt.Errorf("%w: route %q has no page", ErrInvalidSite, route.Path)
		}
		switch route.Layout {
		case "":
			route.Layout = LayoutNone
		case LayoutNone, LayoutSidebar:
		default:
			return fmt.Errorf("%w: route %q has unknown layout %q", ErrInvalidSite, route.Path, route.Layout)
		}
	}
	for _, item := range s.Nav {
		if item.Label == "" || !strings.HasPrefix(item.Path, "/") {
			return fmt.Errorf("%w: nav entry %q", ErrInvalidSite, item.Label)
		}
	}
	return nil
}

// Route returns the route whose path matches requestPath.
func (s Site) Route(requestPath string) (Route, bool) {
	for _, route := range s.Routes {
		if Match(route.Path, requestPath, false) {
			return route, true
		}
	}
	return Route{}, false
}

// Entry is a nav item annotated with its active state.
type Entry struct {
	Label  string `json:"label"`
	Path   string `json:"path"`
	Active bool   `json:"active"`
}

// Entries marks the nav item matching requestPath as active. When several
// items match, the one with the longest path wins so "/" does not shadow its
// children.
func (s Site) Entries(requestPath string) []Entry {
	entries := make([]Entry, len(s.Nav))
	best, bestLen := -1, -1
	for i, item := range s.Nav {
		entries[i] = Entry{Label: item.Label, Path: item.Path}
		if Match(item.Path, requestPath, item.Fuzzy) && len(segments(item.Path)) > bestLen {
			best, bestLen = i, len(segments(item.Path))
		}
	}
	if best >= 0 {
		entries[best].Active = true
	}
	return entries
}

package nav

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultSite(t *testing.T) {
	site, err := DefaultSite()
	if err != nil {
		t.Fatalf("default site: %v", err)
	}

	var paths []string
	for _, route := range site.Routes {
		paths = append(paths, route.Path)
	}
	if diff := cmp.Diff([]string{"/", "/example", "/form", "/form1", "/form2"}, paths); diff != "" {
		t.Fatalf("routes mismatch (-want +got):\n%s", diff)
	}

	form1, ok := site.Route("/form1/")
	if !ok {
		t.Fatalf("expected /form1 route")
	}
	if !form1.IsForm() || form1.Layout != LayoutSidebar || form1.Submission != "native" {
		t.Fatalf("unexpected /form1 route %+v", form1)
	}
	if diff := cmp.Diff([]string{"age"}, form1.Fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}

	home, _ := site.Route("/")
	if home.Layout != LayoutNone || home.IsForm() {
		t.Fatalf("unexpected home route %+v", home)
	}
	if _, ok := site.Route("/missing"); ok {
		t.Fatalf("expected no route for /missing")
	}
}

func TestSiteEntries_MarksSingleActiveItem(t *testing.T) {
	site := Site{Nav: []Item{
		{Label: "Home", Path: "/", Fuzzy: true},
		{Label: "Form", Path: "/form"},
		{Label: "Form 1", Path: "/form1"},
		{Label: "Docs", Path: "/docs", Fuzzy: true},
	}}

	cases := map[string]string{
		"/":           "Home",
		"/form":       "Form",
		"/form1/":     "Form 1",
		"/docs/intro": "Docs",
		"/unknown":    "Home",
	}
	for path, want := range cases {
		var active []string
		for _, entry := range site.Entries(path) {
			if entry.Active {
				active = append(active, entry.Label)
			}
		}
		if diff := cmp.Diff([]string{want}, active); diff != "" {
			t.Fatalf("active entries for %s mismatch (-want +got):\n%s", path, diff)
		}
	}
}

func TestParseSite_Rejects(t *testing.T) {
	cases := map[string]string{
		"no routes":      "title: x\n",
		"relative path":  "routes:\n  - path: form\n    page: form.tpl\n",
		"duplicate":      "routes:\n  - path: /a\n    page: a.tpl\n  - path: /a/\n    page: b.tpl\n",
		"missing page":   "routes:\n  - path: /a\n",
		"unknown layout": "routes:\n  - path: /a\n    page: a.tpl\n    layout: grid\n",
		"bad nav":        "nav:\n  - label: x\n    path: y\nroutes:\n  - path: /a\n    page: a.tpl\n",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseSite([]byte(raw)); !errors.Is(err, ErrInvalidSite) {
				t.Fatalf("expected ErrInvalidSite, got %v", err)
			}
		})
	}

	if _, err := ParseSite([]byte("routes: [}")); err == nil {
		t.Fatalf("expected decode error")
	}
	if _, err := ParseSite([]byte("unknown: 1\nroutes:\n  - path: /a\n    page: a.tpl\n")); err == nil {
		t.Fatalf("expected unknown field error")
	}
}

func TestLoadSite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	raw := "title: Custom\nroutes:\n  - path: /only\n    page: index.tpl\n"
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write site: %v", err)
	}

	site, err := LoadSite(path)
	if err != nil {
		t.Fatalf("load site: %v", err)
	}
	if site.Title != "Custom" || len(site.Routes) != 1 {
		t.Fatalf("unexpected site %+v", site)
	}

	if _, err := LoadSite(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if _, err := LoadSite(""); err != nil {
		t.Fatalf("empty path should load default: %v", err)
	}
}

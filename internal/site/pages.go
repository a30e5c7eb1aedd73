package site

import (
	"bytes"
	"net/http"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formdemo/internal/metrics"
	"github.com/goliatone/go-formdemo/internal/showcase"
	"github.com/goliatone/go-formdemo/internal/statestore"
	"github.com/goliatone/go-formdemo/internal/theming"
	"github.com/goliatone/go-formdemo/pkg/model"
	"github.com/goliatone/go-formdemo/pkg/nav"
	"github.com/goliatone/go-formdemo/pkg/render"
)

const (
	notFoundPage     = "notfound.tpl"
	sidebarCollapsed = "collapsed"
)

type pageView struct {
	SiteTitle        string              `json:"siteTitle"`
	Title            string              `json:"title"`
	Path             string              `json:"path"`
	Sidebar          bool                `json:"sidebar"`
	SidebarCollapsed bool                `json:"sidebarCollapsed"`
	Nav              []nav.Entry         `json:"nav"`
	Theme            theming.View        `json:"theme"`
	FormHTML         string              `json:"formHTML,omitempty"`
	FormMode         string              `json:"formMode,omitempty"`
	Forms            []nav.Route         `json:"forms,omitempty"`
	Components       []showcase.Rendered `json:"components,omitempty"`
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	requestPath := path.Clean("/" + r.URL.Path)
	route, ok := s.site.Route(requestPath)
	status := http.StatusOK
	if !ok {
		route = nav.Route{Path: requestPath, Page: notFoundPage, Title: "Not found", Layout: nav.LayoutSidebar}
		status = http.StatusNotFound
	}
	label := route.Path
	if !ok {
		label = "notfound"
	}

	view, err := s.pageView(r, route)
	if err != nil {
		s.logger.Error("theme selection", zap.String("path", requestPath), zap.Error(err))
		s.metrics.ObservePage(label, http.StatusInternalServerError)
		writeInternalError(w)
		return
	}

	switch {
	case route.IsForm():
		html, mode, err := s.renderForm(w, r, route)
		if err != nil {
			s.logger.Error("render form", zap.String("path", requestPath), zap.String("form", route.Form), zap.Error(err))
			s.metrics.ObservePage(label, http.StatusInternalServerError)
			writeInternalError(w)
			return
		}
		view.FormHTML = html
		view.FormMode = mode
	case route.Page == "example.tpl":
		components, err := s.showcase.Render(s.pages)
		if err != nil {
			s.logger.Error("render showcase", zap.Error(err))
			s.metrics.ObservePage(label, http.StatusInternalServerError)
			writeInternalError(w)
			return
		}
		view.Components = components
	case route.Page == "index.tpl":
		for _, candidate := range s.site.Routes {
			if candidate.IsForm() {
				view.Forms = append(view.Forms, candidate)
			}
		}
	}

	var buf bytes.Buffer
	if _, err := s.pages.RenderTemplate(route.Page, map[string]any{"page": view}, &buf); err != nil {
		s.logger.Error("render page", zap.String("path", requestPath), zap.String("page", route.Page), zap.Error(err))
		s.metrics.ObservePage(label, http.StatusInternalServerError)
		writeInternalError(w)
		return
	}

	s.metrics.ObservePage(label, status)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) pageView(r *http.Request, route nav.Route) (pageView, error) {
	selection, err := s.themes.Select(theming.Name, r.URL.Query().Get("theme"))
	if err != nil {
		selection, err = s.themes.Select(theming.Name, "")
		if err != nil {
			return pageView{}, err
		}
	}

	view := pageView{
		SiteTitle: s.site.Title,
		Title:     route.Title,
		Path:      route.Path,
		Sidebar:   route.Layout == nav.LayoutSidebar,
		Theme:     theming.NewView(theming.RendererConfig(selection), s.themes.Variants()),
	}
	if view.Sidebar {
		view.Nav = s.site.Entries(route.Path)
		if cookie, err := r.Cookie(SidebarCookie); err == nil {
			view.SidebarCollapsed = cookie.Value == sidebarCollapsed
		}
	}
	return view, nil
}

// renderForm merges any stored server state for the route's form into its
// defaults and renders the form fragment.
func (s *Server) renderForm(w http.ResponseWriter, r *http.Request, route nav.Route) (string, string, error) {
	validator := s.forms[route.Form]
	form := validator.Form().Subset(route.Fields...)

	server := s.takeState(w, r, route.Form)
	if r.URL.Query().Get("reset") != "" {
		server = nil
	}

	mode := model.SubmissionMode(route.Submission)
	if mode == "" {
		mode = model.SubmissionNative
	}

	options := render.RenderOptions{
		State:      render.MergeForm(form, render.DefaultState(form), server),
		Submission: model.NewSubmissionState(mode).Reload(server != nil),
	}
	if mode == model.SubmissionNative {
		options.Hidden = render.MergeHiddenFields(nil, render.RedirectField(route.Path))
	}

	html, err := s.renderer.Render(r.Context(), form, options)
	if err != nil {
		return "", "", err
	}
	return string(html), string(mode), nil
}

// takeState reads the state cookie for form, clears it and removes the
// stored state it points at. Missing or expired state yields nil.
func (s *Server) takeState(w http.ResponseWriter, r *http.Request, form string) *model.FormState {
	cookie, err := r.Cookie(StateCookieName(form))
	if err != nil || strings.TrimSpace(cookie.Value) == "" {
		return nil
	}
	s.setStateCookie(w, form, "", -1)

	key, err := statestore.ParseKey(form, cookie.Value)
	if err != nil {
		s.metrics.ObserveState(metrics.StateTake, metrics.StateInvalid)
		return nil
	}
	state, found, err := s.store.Take(r.Context(), key)
	switch {
	case err != nil:
		s.metrics.ObserveState(metrics.StateTake, metrics.StateError)
		s.logger.Warn("take validation state", zap.String("form", form), zap.Error(err))
		return nil
	case !found:
		s.metrics.ObserveState(metrics.StateTake, metrics.StateMiss)
		return nil
	}
	s.metrics.ObserveState(metrics.StateTake, metrics.StateHit)
	return &state
}

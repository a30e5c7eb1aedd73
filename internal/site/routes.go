package site

import (
	"net/http"

	"go.uber.org/zap"
)

// Mux is the minimal interface required to register a net/http handler.
// It is satisfied by *http.ServeMux.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// RegisterRoutes mounts every handler on mux and returns the patterns used.
func (s *Server) RegisterRoutes(mux Mux) []string {
	routes := []struct {
		pattern string
		handler http.Handler
	}{
		{"POST " + FormRoute, http.HandlerFunc(s.handleSubmit)},
		{"GET /openapi.json", http.HandlerFunc(s.handleOpenAPI)},
		{"GET /healthz", http.HandlerFunc(handleHealth)},
		{"GET /metrics", s.metrics.Handler()},
		{"GET /static/", http.StripPrefix("/static/", http.FileServerFS(StaticFS()))},
		{"/", http.HandlerFunc(s.handlePage)},
	}
	patterns := make([]string, 0, len(routes))
	for _, route := range routes {
		mux.Handle(route.pattern, route.handler)
		patterns = append(patterns, route.pattern)
	}
	return patterns
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleOpenAPI(w http.ResponseWriter, _ *http.Request) {
	payload, err := s.doc.MarshalJSON()
	if err != nil {
		s.logger.Error("marshal api document", zap.Error(err))
		writeInternalError(w)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

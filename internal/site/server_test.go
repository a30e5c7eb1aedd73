package site

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-formdemo/internal/metrics"
	"github.com/goliatone/go-formdemo/pkg/model"
	"github.com/goliatone/go-formdemo/pkg/testsupport"
	"github.com/goliatone/go-formdemo/pkg/validation"
)

func newTestServer(t *testing.T, fns ...OptionFn) *Server {
	t.Helper()
	fns = append([]OptionFn{WithLogger(zaptest.NewLogger(t)), WithMetrics(metrics.New())}, fns...)
	srv, err := New(context.Background(), fns...)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	t.Cleanup(func() { _ = srv.Close() })
	return srv
}

func serve(t *testing.T, handler http.Handler, req *http.Request) *http.Response {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec.Result()
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(data)
}

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func TestSubmit_SuccessReturnsPlainText(t *testing.T) {
	handler := newTestServer(t).Handler()
	req := testsupport.MultipartRequest(t, "/api/forms/signup", map[string]string{"firstName": "Alice", "age": "30"})

	resp := serve(t, handler, req)
	body := readBody(t, resp)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if body != MessageSuccess {
		t.Fatalf("unexpected body %q", body)
	}
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/plain") {
		t.Fatalf("unexpected content type %q", resp.Header.Get("Content-Type"))
	}
	if cookie := findCookie(resp, StateCookieName("signup")); cookie == nil || cookie.MaxAge >= 0 {
		t.Fatalf("expected successful submission to expire the state cookie, got %+v", cookie)
	}
}

func TestSubmit_FailureWithoutRedirectReturnsState(t *testing.T) {
	handler := newTestServer(t).Handler()
	req := testsupport.MultipartRequest(t, "/api/forms/signup", map[string]string{"firstName": "Alice", "age": "8"})

	resp := serve(t, handler, req)
	body := readBody(t, resp)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	if resp.Header.Get("Content-Type") != "application/json" {
		t.Fatalf("unexpected content type %q", resp.Header.Get("Content-Type"))
	}

	var state model.FormState
	if err := json.Unmarshal([]byte(body), &state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if diff := cmp.Diff([]string{validation.MessageMinimumAge}, state.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(model.Values{"firstName": "Alice", "age": float64(8)}, state.Values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if !state.FieldMeta["age"].Touched {
		t.Fatalf("expected age to be touched: %+v", state.FieldMeta)
	}
	if cookie := findCookie(resp, StateCookieName("signup")); cookie == nil || cookie.MaxAge >= 0 {
		t.Fatalf("expected state returned in the body to expire the cookie, got %+v", cookie)
	}
}

func TestSubmit_NonFormPayloadIsInternalError(t *testing.T) {
	handler := newTestServer(t).Handler()
	req := httptest.NewRequest(http.MethodPost, "/api/forms/signup", strings.NewReader(`{"age":30}`))
	req.Header.Set("Content-Type", "application/json")

	resp := serve(t, handler, req)
	body := readBody(t, resp)

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	if body != MessageInternalError {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestSubmit_LogsInvalidPayload(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	handler := newTestServer(t, WithLogger(zap.New(core))).Handler()
	req := httptest.NewRequest(http.MethodPost, "/api/forms/signup", strings.NewReader("age=30"))
	req.Header.Set("Content-Type", "text/plain")

	resp := serve(t, handler, req)
	_ = readBody(t, resp)

	entries := logs.FilterMessage("invalid submission payload").All()
	if len(entries) != 1 {
		t.Fatalf("expected one log entry, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["form"]; got != "signup" {
		t.Fatalf("unexpected form field %v", got)
	}
}

func TestSubmit_UnknownForm(t *testing.T) {
	m := metrics.New()
	handler := newTestServer(t, WithMetrics(m)).Handler()

	for _, id := range []string{"missing", "x0", "x1", "x2"} {
		req := testsupport.MultipartRequest(t, "/api/forms/"+id, map[string]string{"age": "30"})
		resp := serve(t, handler, req)
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", id, resp.StatusCode)
		}
	}

	count, err := testutil.GatherAndCount(m.Registry(), "formdemo_forms_submissions_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected unknown form ids to share one series, got %d", count)
	}
}

func TestStateOperationMetrics(t *testing.T) {
	m := metrics.New()
	handler := newTestServer(t, WithMetrics(m)).Handler()

	// JSON failures return their state inline and store nothing.
	_ = readBody(t, serve(t, handler, testsupport.MultipartRequest(t, "/api/forms/signup", map[string]string{"age": "8"})))

	resp := serve(t, handler, testsupport.MultipartRequest(t, "/api/forms/signup", map[string]string{"age": "8", "_redirect": "/form1"}))
	_ = readBody(t, resp)
	cookie := findCookie(resp, StateCookieName("signup"))
	if cookie == nil {
		t.Fatal("expected state cookie")
	}
	for _, token := range []string{cookie.Value, cookie.Value, "not-a-token"} {
		page := httptest.NewRequest(http.MethodGet, "/form1", nil)
		page.AddCookie(&http.Cookie{Name: cookie.Name, Value: token})
		_ = readBody(t, serve(t, handler, page))
	}

	want := `
# HELP formdemo_state_operations_total Validation state store operations
# TYPE formdemo_state_operations_total counter
formdemo_state_operations_total{op="put",result="ok"} 1
formdemo_state_operations_total{op="take",result="hit"} 1
formdemo_state_operations_total{op="take",result="invalid"} 1
formdemo_state_operations_total{op="take",result="miss"} 1
`
	if err := testutil.GatherAndCompare(m.Registry(), strings.NewReader(want), "formdemo_state_operations_total"); err != nil {
		t.Fatal(err)
	}
}

func TestSubmit_SuccessDropsEarlierState(t *testing.T) {
	cases := []struct {
		name   string
		failed map[string]string
	}{
		{name: "after redirected failure", failed: map[string]string{"age": "8", "_redirect": "/form1"}},
		{name: "after json failure", failed: map[string]string{"age": "8"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := newTestServer(t).Handler()

			resp := serve(t, handler, testsupport.MultipartRequest(t, "/api/forms/signup", tc.failed))
			_ = readBody(t, resp)
			// A client that ignores the expiry keeps sending whatever token it saw.
			token := "stale"
			if cookie := findCookie(resp, StateCookieName("signup")); cookie != nil && cookie.Value != "" {
				token = cookie.Value
			}
			stale := &http.Cookie{Name: StateCookieName("signup"), Value: token}

			ok := testsupport.MultipartRequest(t, "/api/forms/signup", map[string]string{"age": "30"})
			ok.AddCookie(stale)
			resp = serve(t, handler, ok)
			if body := readBody(t, resp); body != MessageSuccess {
				t.Fatalf("unexpected body %q", body)
			}
			if cookie := findCookie(resp, StateCookieName("signup")); cookie == nil || cookie.MaxAge >= 0 {
				t.Fatalf("expected state cookie to be expired, got %+v", cookie)
			}

			page := httptest.NewRequest(http.MethodGet, "/form1", nil)
			page.AddCookie(stale)
			body := readBody(t, serve(t, handler, page))
			if strings.Contains(body, validation.MessageMinimumAge) {
				t.Fatalf("accepted submission must not leave errors behind:\n%s", body)
			}
			if !strings.Contains(body, `value="0"`) {
				t.Fatalf("expected default age:\n%s", body)
			}
		})
	}
}

func TestSubmit_UnsafeRedirectFallsBackToJSON(t *testing.T) {
	handler := newTestServer(t).Handler()
	req := testsupport.MultipartRequest(t, "/api/forms/signup", map[string]string{"age": "8", "_redirect": "//evil.example"})

	resp := serve(t, handler, req)
	_ = readBody(t, resp)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Location") != "" {
		t.Fatalf("unexpected redirect to %q", resp.Header.Get("Location"))
	}
}

func TestSubmit_CancelledDuringDelay(t *testing.T) {
	srv := newTestServer(t, WithSubmitDelay(time.Hour))
	req := testsupport.MultipartRequest(t, "/api/forms/signup", map[string]string{"age": "30"})
	ctx, cancel := context.WithCancel(req.Context())
	cancel()

	done := make(chan *http.Response, 1)
	go func() {
		done <- serve(t, srv.Handler(), req.WithContext(ctx))
	}()

	select {
	case resp := <-done:
		if body := readBody(t, resp); body != "" {
			t.Fatalf("expected no body for a cancelled submission, got %q", body)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("submission did not observe cancellation")
	}
}

func TestNativeSubmission_RoundTripsStateOnce(t *testing.T) {
	handler := newTestServer(t).Handler()

	post := testsupport.MultipartRequest(t, "/api/forms/signup", map[string]string{"age": "8", "_redirect": "/form1"})
	resp := serve(t, handler, post)
	_ = readBody(t, resp)

	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Location"); got != "/form1" {
		t.Fatalf("unexpected location %q", got)
	}
	cookie := findCookie(resp, StateCookieName("signup"))
	if cookie == nil {
		t.Fatal("expected state cookie")
	}
	if !cookie.HttpOnly || cookie.SameSite != http.SameSiteLaxMode {
		t.Fatalf("unexpected cookie attributes: %+v", cookie)
	}

	first := httptest.NewRequest(http.MethodGet, "/form1", nil)
	first.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	resp = serve(t, handler, first)
	body := readBody(t, resp)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, `value="8"`) {
		t.Fatalf("expected submitted age in page:\n%s", body)
	}
	if !strings.Contains(body, validation.MessageMinimumAge) {
		t.Fatalf("expected server error in page:\n%s", body)
	}
	if !strings.Contains(body, `data-phase="reloaded"`) {
		t.Fatalf("expected reloaded phase:\n%s", body)
	}
	if strings.Contains(body, `name="firstName"`) {
		t.Fatalf("form1 must only render the age field:\n%s", body)
	}
	cleared := findCookie(resp, StateCookieName("signup"))
	if cleared == nil || cleared.MaxAge >= 0 {
		t.Fatalf("expected state cookie to be cleared, got %+v", cleared)
	}

	second := httptest.NewRequest(http.MethodGet, "/form1", nil)
	second.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	resp = serve(t, handler, second)
	body = readBody(t, resp)

	if strings.Contains(body, validation.MessageMinimumAge) {
		t.Fatalf("state must only be shown once:\n%s", body)
	}
	if !strings.Contains(body, `value="0"`) {
		t.Fatalf("expected default age after state was consumed:\n%s", body)
	}
}

func TestPages_ResetDiscardsState(t *testing.T) {
	handler := newTestServer(t).Handler()

	post := testsupport.MultipartRequest(t, "/api/forms/signup", map[string]string{"firstName": "Bob", "age": "3", "_redirect": "/form2"})
	resp := serve(t, handler, post)
	_ = readBody(t, resp)
	cookie := findCookie(resp, StateCookieName("signup"))
	if cookie == nil {
		t.Fatal("expected state cookie")
	}

	req := httptest.NewRequest(http.MethodGet, "/form2?reset=1", nil)
	req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	body := readBody(t, serve(t, handler, req))

	if strings.Contains(body, validation.MessageMinimumAge) || strings.Contains(body, `value="Bob"`) {
		t.Fatalf("reset must discard stored state:\n%s", body)
	}
}

func TestPages_Layouts(t *testing.T) {
	handler := newTestServer(t).Handler()

	cases := []struct {
		path    string
		sidebar bool
		want    []string
	}{
		{path: "/", sidebar: false, want: []string{`href="/example"`, `href="/form1"`}},
		{path: "/example", sidebar: false, want: []string{`id="component-buttons"`}},
		{path: "/form", sidebar: true, want: []string{`data-submit="programmatic"`, `name="firstName"`, `name="age"`, "/static/form.js"}},
		{path: "/form1", sidebar: true, want: []string{`data-submit="native"`, `name="_redirect" value="/form1"`}},
		{path: "/form2", sidebar: true, want: []string{`data-submit="native"`, `name="firstName"`, `name="_redirect" value="/form2"`}},
	}

	for _, tc := range cases {
		resp := serve(t, handler, httptest.NewRequest(http.MethodGet, tc.path, nil))
		body := readBody(t, resp)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", tc.path, resp.StatusCode)
		}
		if got := strings.Contains(body, `<aside class="sidebar"`); got != tc.sidebar {
			t.Fatalf("%s: sidebar rendered = %v, want %v", tc.path, got, tc.sidebar)
		}
		for _, fragment := range tc.want {
			if !strings.Contains(body, fragment) {
				t.Fatalf("%s: expected %q in page:\n%s", tc.path, fragment, body)
			}
		}
	}
}

func TestPages_ActiveNavEntry(t *testing.T) {
	handler := newTestServer(t).Handler()
	body := readBody(t, serve(t, handler, httptest.NewRequest(http.MethodGet, "/form1", nil)))

	if !strings.Contains(body, `href="/form1" class="sidebar-menu-button" data-active="true"`) {
		t.Fatalf("expected /form1 to be active:\n%s", body)
	}
	for _, other := range []string{"/", "/form", "/form2"} {
		if strings.Contains(body, `href="`+other+`" class="sidebar-menu-button" data-active="true"`) {
			t.Fatalf("did not expect %s to be active", other)
		}
	}
}

func TestPages_SidebarCookie(t *testing.T) {
	handler := newTestServer(t).Handler()
	req := httptest.NewRequest(http.MethodGet, "/form", nil)
	req.AddCookie(&http.Cookie{Name: SidebarCookie, Value: "collapsed"})

	body := readBody(t, serve(t, handler, req))
	if !strings.Contains(body, `data-sidebar-state="collapsed"`) {
		t.Fatalf("expected collapsed sidebar:\n%s", body)
	}
}

func TestPages_ThemeSelection(t *testing.T) {
	handler := newTestServer(t).Handler()

	dark := readBody(t, serve(t, handler, httptest.NewRequest(http.MethodGet, "/?theme=dark", nil)))
	if !strings.Contains(dark, `data-theme="dark"`) {
		t.Fatalf("expected dark theme:\n%s", dark)
	}

	unknown := readBody(t, serve(t, handler, httptest.NewRequest(http.MethodGet, "/?theme=neon", nil)))
	if !strings.Contains(unknown, `data-theme="light"`) {
		t.Fatalf("expected fallback to light theme:\n%s", unknown)
	}
}

func TestPages_NotFound(t *testing.T) {
	handler := newTestServer(t).Handler()
	resp := serve(t, handler, httptest.NewRequest(http.MethodGet, "/missing", nil))
	body := readBody(t, resp)

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Page not found") {
		t.Fatalf("expected not found page:\n%s", body)
	}
}

func TestPages_MethodNotAllowed(t *testing.T) {
	handler := newTestServer(t).Handler()
	resp := serve(t, handler, httptest.NewRequest(http.MethodPost, "/form", nil))
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
}

func TestSupportRoutes(t *testing.T) {
	handler := newTestServer(t).Handler()

	submit := testsupport.MultipartRequest(t, "/api/forms/signup", map[string]string{"age": "30"})
	_ = readBody(t, serve(t, handler, submit))

	cases := []struct {
		path     string
		contains string
	}{
		{path: "/healthz", contains: "ok"},
		{path: "/openapi.json", contains: `"submitSignup"`},
		{path: "/static/app.css", contains: ".sidebar"},
		{path: "/metrics", contains: `formdemo_forms_submissions_total{form="signup",outcome="success"} 1`},
	}
	for _, tc := range cases {
		resp := serve(t, handler, httptest.NewRequest(http.MethodGet, tc.path, nil))
		body := readBody(t, resp)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", tc.path, resp.StatusCode)
		}
		if !strings.Contains(body, tc.contains) {
			t.Fatalf("%s: expected %q in body:\n%s", tc.path, tc.contains, body)
		}
	}
}

func TestRecoverPanics(t *testing.T) {
	srv := newTestServer(t)
	handler := srv.recoverPanics(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	resp := serve(t, handler, httptest.NewRequest(http.MethodGet, "/", nil))
	body := readBody(t, resp)

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	if body != MessageInternalError {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestRegisterRoutes(t *testing.T) {
	srv := newTestServer(t)
	patterns := srv.RegisterRoutes(http.NewServeMux())

	want := []string{
		"POST /api/forms/{form}",
		"GET /openapi.json",
		"GET /healthz",
		"GET /metrics",
		"GET /static/",
		"/",
	}
	if diff := cmp.Diff(want, patterns); diff != "" {
		t.Fatalf("patterns mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"signup"}, srv.Forms()); diff != "" {
		t.Fatalf("forms mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyArtificialDelay(t *testing.T) {
	if err := applyArtificialDelay(context.Background(), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := applyArtificialDelay(context.Background(), time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := applyArtificialDelay(ctx, time.Hour); err == nil {
		t.Fatal("expected cancellation error")
	}
}

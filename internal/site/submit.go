package site

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formdemo/internal/metrics"
	"github.com/goliatone/go-formdemo/internal/statestore"
	"github.com/goliatone/go-formdemo/pkg/render"
	"github.com/goliatone/go-formdemo/pkg/validation"
)

const (
	MessageSuccess       = "Form has validated successfully"
	MessageInternalError = "There was an internal error"

	// StateCookiePrefix prefixes the cookie carrying a form's state token.
	StateCookiePrefix = "formstate_"
	// SidebarCookie remembers whether the sidebar is collapsed.
	SidebarCookie = "sidebar_state"
)

// StateCookieName returns the cookie that carries the state token of form.
func StateCookieName(form string) string {
	return StateCookiePrefix + form
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	formID := r.PathValue("form")
	ctx := r.Context()

	validator, ok := s.forms[formID]
	label := formID
	if !ok {
		label = metrics.UnknownForm
	}
	observe := func(outcome string) {
		s.metrics.ObserveSubmission(label, outcome, time.Since(start).Seconds())
	}
	if !ok {
		observe(metrics.OutcomeError)
		http.NotFound(w, r)
		return
	}

	if err := applyArtificialDelay(ctx, s.opts.SubmitDelay); err != nil {
		observe(metrics.OutcomeCancelled)
		s.logger.Debug("submission cancelled", zap.String("form", formID), zap.Error(err))
		return
	}

	_, err := validator.ValidateRequest(ctx, r)
	switch {
	case err == nil:
		observe(metrics.OutcomeSuccess)
		s.discardState(w, r, formID)
		writeText(w, http.StatusOK, MessageSuccess)
		return
	case errors.Is(err, validation.ErrInvalidInput):
		observe(metrics.OutcomeInvalidInput)
		s.logger.Info("invalid submission payload", zap.String("form", formID), zap.Error(err))
		writeInternalError(w)
		return
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		observe(metrics.OutcomeCancelled)
		return
	}

	failure, ok := validation.AsServerValidateError(err)
	if !ok {
		observe(metrics.OutcomeError)
		s.logger.Error("validate submission", zap.String("form", formID), zap.Error(err))
		writeInternalError(w)
		return
	}

	// Only a redirected browser comes back for the state; script and CLI
	// callers get it in the response body.
	target := r.PostFormValue(render.RedirectFieldName)
	if !render.SafeRedirect(target) {
		payload, err := json.Marshal(failure.Response)
		if err != nil {
			observe(metrics.OutcomeError)
			s.logger.Error("encode validation state", zap.String("form", formID), zap.Error(err))
			writeInternalError(w)
			return
		}
		observe(metrics.OutcomeInvalid)
		s.discardState(w, r, formID)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(payload)
		return
	}

	key := statestore.NewKey(formID)
	if err := s.store.Put(ctx, key, failure.Response, s.opts.StateTTL); err != nil {
		observe(metrics.OutcomeError)
		s.metrics.ObserveState(metrics.StatePut, metrics.StateError)
		s.logger.Error("store validation state", zap.String("form", formID), zap.Error(err))
		writeInternalError(w)
		return
	}
	s.metrics.ObserveState(metrics.StatePut, metrics.StateOK)
	observe(metrics.OutcomeInvalid)

	s.setStateCookie(w, formID, key.Token, int(s.opts.StateTTL/time.Second))
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// discardState drops state left by an earlier redirected submission of form
// and expires its cookie.
func (s *Server) discardState(w http.ResponseWriter, r *http.Request, form string) {
	if cookie, err := r.Cookie(StateCookieName(form)); err == nil {
		if key, err := statestore.ParseKey(form, cookie.Value); err == nil {
			if _, _, err := s.store.Take(r.Context(), key); err != nil {
				s.logger.Warn("discard validation state", zap.String("form", form), zap.Error(err))
			}
		}
	}
	s.setStateCookie(w, form, "", -1)
}

// setStateCookie writes the state cookie of form. A negative maxAge expires
// it.
func (s *Server) setStateCookie(w http.ResponseWriter, form, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     StateCookieName(form),
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// applyArtificialDelay waits for d unless ctx ends first.
func applyArtificialDelay(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

package model

// SubmissionMode describes who owns the in-flight submission request.
type SubmissionMode string

const (
	// SubmissionNative posts the form through the browser. The page never
	// observes the in-flight request.
	SubmissionNative SubmissionMode = "native"
	// SubmissionProgrammatic posts the form from script, which can track the
	// in-flight request.
	SubmissionProgrammatic SubmissionMode = "programmatic"
)

// Phase is a step of the submission lifecycle:
// Idle -> Submitting -> Reloaded (with server state) -> Idle.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseSubmitting Phase = "submitting"
	PhaseReloaded   Phase = "reloaded"
)

// SubmissionState is derived from the current values and the last
// validation result. It is never persisted.
type SubmissionState struct {
	Mode         SubmissionMode `json:"mode"`
	Phase        Phase          `json:"phase"`
	CanSubmit    bool           `json:"canSubmit"`
	IsSubmitting bool           `json:"isSubmitting"`
}

// NewSubmissionState returns an idle state for the given mode.
func NewSubmissionState(mode SubmissionMode) SubmissionState {
	if mode == "" {
		mode = SubmissionNative
	}
	return SubmissionState{
		Mode:      mode,
		Phase:     PhaseIdle,
		CanSubmit: true,
	}
}

// Submit moves the state into Submitting. With native submission the browser
// owns the request, so IsSubmitting stays false and the submit control is
// never disabled while the request is in flight.
func (s SubmissionState) Submit() SubmissionState {
	s.Phase = PhaseSubmitting
	if s.Mode == SubmissionProgrammatic {
		s.IsSubmitting = true
		s.CanSubmit = false
	}
	return s
}

// Reload applies the outcome of a page load. A page that received server
// state enters Reloaded; otherwise it returns to Idle.
func (s SubmissionState) Reload(hasServerState bool) SubmissionState {
	s.IsSubmitting = false
	s.CanSubmit = true
	if hasServerState {
		s.Phase = PhaseReloaded
		return s
	}
	s.Phase = PhaseIdle
	return s
}

// Settle returns a reloaded state to Idle once the server state has been
// merged into the form.
func (s SubmissionState) Settle() SubmissionState {
	s.Phase = PhaseIdle
	s.IsSubmitting = false
	s.CanSubmit = true
	return s
}

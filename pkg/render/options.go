package render

import "github.com/goliatone/go-formdemo/pkg/model"

// RenderOptions describe per-request data renderers use to fill in a form.
type RenderOptions struct {
	// Action overrides the form model endpoint.
	Action string
	// State is the merged form state: values, form-level errors and field
	// metadata.
	State model.FormState
	// Submission is the lifecycle state shown by the submit controls.
	Submission model.SubmissionState
	// Hidden lists hidden inputs rendered inside the form.
	Hidden map[string]string
}

package model

import (
	"sort"
	"strings"
)

// Values holds submitted or default form values keyed by field name.
type Values map[string]any

// Clone returns a shallow copy of the values.
func (v Values) Clone() Values {
	if v == nil {
		return nil
	}
	out := make(Values, len(v))
	for key, value := range v {
		out[key] = value
	}
	return out
}

// FieldMeta is the per-field state that travels with a FormState.
type FieldMeta struct {
	Touched bool     `json:"isTouched"`
	Errors  []string `json:"errors,omitempty"`
}

// Valid reports whether the field carries no error messages.
func (m FieldMeta) Valid() bool {
	return len(m.Errors) == 0
}

// Invalid reports whether the field should render as invalid: it has been
// touched and carries at least one error.
func (m FieldMeta) Invalid() bool {
	return m.Touched && !m.Valid()
}

// FormState is the serialisable outcome of a submission. It mirrors the
// submitted values, the ordered form-level error list and per-field metadata.
type FormState struct {
	Values    Values               `json:"values"`
	Errors    []string             `json:"errors"`
	FieldMeta map[string]FieldMeta `json:"fieldMeta,omitempty"`
}

// HasErrors reports whether any form- or field-level error is present.
func (s FormState) HasErrors() bool {
	if len(s.Errors) > 0 {
		return true
	}
	for _, meta := range s.FieldMeta {
		if len(meta.Errors) > 0 {
			return true
		}
	}
	return false
}

// ValidationResult is produced once per submission attempt. It is valid
// exactly when it carries no messages; Errors keeps every message in the
// order it was added and Fields attributes messages to field names.
type ValidationResult struct {
	Errors []string            `json:"errors,omitempty"`
	Fields map[string][]string `json:"fields,omitempty"`
}

// Valid reports whether the result carries zero error messages.
func (r ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// Add records a message. When field is non-empty the message is also
// attributed to that field. Blank and duplicate messages are ignored.
func (r *ValidationResult) Add(field, message string) {
	message = strings.TrimSpace(message)
	if r == nil || message == "" {
		return
	}
	if !containsString(r.Errors, message) {
		r.Errors = append(r.Errors, message)
	}
	field = strings.TrimSpace(field)
	if field == "" {
		return
	}
	if r.Fields == nil {
		r.Fields = make(map[string][]string)
	}
	if !containsString(r.Fields[field], message) {
		r.Fields[field] = append(r.Fields[field], message)
	}
}

// FieldNames returns the attributed field names, sorted.
func (r ValidationResult) FieldNames() []string {
	if len(r.Fields) == 0 {
		return nil
	}
	names := make([]string, 0, len(r.Fields))
	for name := range r.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// State builds the FormState reported back for the submitted values. Every
// submitted field is marked as touched since the server validated it.
func (r ValidationResult) State(values Values) FormState {
	state := FormState{
		Values: values.Clone(),
		Errors: append([]string{}, r.Errors...),
	}
	if state.Values == nil {
		state.Values = Values{}
	}
	if len(values) > 0 {
		state.FieldMeta = make(map[string]FieldMeta, len(values))
		for name := range values {
			meta := FieldMeta{Touched: true}
			if msgs := r.Fields[name]; len(msgs) > 0 {
				meta.Errors = append([]string(nil), msgs...)
			}
			state.FieldMeta[name] = meta
		}
	}
	return state
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

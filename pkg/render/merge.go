package render

import (
	"sort"

	"github.com/goliatone/go-formdemo/pkg/model"
)

// DefaultState returns the client-side starting state for form.
func DefaultState(form model.FormModel) model.FormState {
	return model.FormState{
		Values:    form.Defaults(),
		FieldMeta: make(map[string]model.FieldMeta, len(form.Fields)),
	}
}

// MergeForm reconciles the client's base state with the state returned by
// the server after a submission. For every field the server validated (it
// reported a value or metadata for it) the server value and error list win;
// other fields keep the base state. Form-level errors are merged and
// normalised, and field errors the form cannot place become form-level.
// A nil server state returns a copy of base.
func MergeForm(form model.FormModel, base model.FormState, server *model.FormState) model.FormState {
	merged := model.FormState{
		Values:    base.Values.Clone(),
		Errors:    cleanMessages(base.Errors),
		FieldMeta: make(map[string]model.FieldMeta, len(form.Fields)),
	}
	if merged.Values == nil {
		merged.Values = model.Values{}
	}
	for name, meta := range base.FieldMeta {
		merged.FieldMeta[name] = meta
	}
	if server == nil {
		return merged
	}

	payload := make(map[string][]string, len(server.FieldMeta))
	for key, meta := range server.FieldMeta {
		payload[key] = meta.Errors
	}
	mapping := MapErrorPayload(form, payload)

	for _, field := range form.Fields {
		value, hasValue := server.Values[field.Name]
		serverMeta, hasMeta := server.FieldMeta[field.Name]
		_, hasMapped := mapping.Fields[field.Name]
		if !hasValue && !hasMeta && !hasMapped {
			continue
		}
		if hasValue {
			merged.Values[field.Name] = value
		}
		merged.FieldMeta[field.Name] = model.FieldMeta{
			Touched: serverMeta.Touched || hasValue || hasMapped,
			Errors:  mapping.Fields[field.Name],
		}
	}

	merged.Errors = MergeFormErrors(merged.Errors, server.Errors...)
	merged.Errors = MergeFormErrors(merged.Errors, mapping.Form...)
	return merged
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

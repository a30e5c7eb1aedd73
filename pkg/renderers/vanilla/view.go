package vanilla

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formdemo/pkg/model"
	"github.com/goliatone/go-formdemo/pkg/render"
)

const (
	defaultErrorTitle = "Unable to submit the form."
	defaultErrorHint  = "Please review the errors and try again."
)

type formView struct {
	ID          string        `json:"id"`
	Action      string        `json:"action"`
	Method      string        `json:"method"`
	EncType     string        `json:"encType"`
	Mode        string        `json:"mode"`
	Native      bool          `json:"native"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	ErrorTitle  string        `json:"errorTitle"`
	ErrorHint   string        `json:"errorHint"`
	Errors      []string      `json:"errors"`
	Fields      []fieldView   `json:"fields"`
	Hidden      []hiddenView  `json:"hidden"`
	Submission  submitView    `json:"submission"`
	Defaults    []defaultView `json:"defaults"`
}

type fieldView struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	InputType   string   `json:"inputType"`
	Value       string   `json:"value"`
	Placeholder string   `json:"placeholder"`
	Description string   `json:"description"`
	Required    bool     `json:"required"`
	Min         string   `json:"min"`
	Max         string   `json:"max"`
	MinLength   string   `json:"minLength"`
	MaxLength   string   `json:"maxLength"`
	Pattern     string   `json:"pattern"`
	Step        string   `json:"step"`
	Invalid     bool     `json:"invalid"`
	Errors      []string `json:"errors"`
}

type hiddenView struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type submitView struct {
	CanSubmit    bool   `json:"canSubmit"`
	IsSubmitting bool   `json:"isSubmitting"`
	Phase        string `json:"phase"`
}

type defaultView struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func buildFormView(form model.FormModel, options render.RenderOptions) formView {
	submission := options.Submission
	if submission.Mode == "" {
		submission = model.NewSubmissionState(model.SubmissionNative)
	}

	view := formView{
		ID:          form.ID,
		Action:      form.Endpoint,
		Method:      strings.ToLower(form.Method),
		EncType:     form.EncType,
		Mode:        string(submission.Mode),
		Native:      submission.Mode == model.SubmissionNative,
		Title:       form.Summary,
		Description: form.Description,
		ErrorTitle:  metadataOr(form.Metadata, "error-title", defaultErrorTitle),
		ErrorHint:   metadataOr(form.Metadata, "error-hint", defaultErrorHint),
		Errors:      append([]string(nil), options.State.Errors...),
		Submission: submitView{
			CanSubmit:    submission.CanSubmit,
			IsSubmitting: submission.IsSubmitting,
			Phase:        string(submission.Phase),
		},
	}
	if options.Action != "" {
		view.Action = options.Action
	}
	if view.Method == "" {
		view.Method = "post"
	}
	if view.EncType == "" {
		view.EncType = "multipart/form-data"
	}

	defaults := form.Defaults()
	for _, field := range form.Fields {
		view.Fields = append(view.Fields, buildFieldView(form.ID, field, options.State))
		view.Defaults = append(view.Defaults, defaultView{Name: field.Name, Value: DisplayValue(defaults[field.Name])})
	}
	for _, hidden := range render.SortedHiddenFields(options.Hidden) {
		view.Hidden = append(view.Hidden, hiddenView{Name: hidden.Name, Value: hidden.Value})
	}
	return view
}

func buildFieldView(formID string, field model.Field, state model.FormState) fieldView {
	meta := state.FieldMeta[field.Name]
	view := fieldView{
		ID:          strings.Trim(formID+"-"+field.Name, "-"),
		Name:        field.Name,
		Label:       field.Label,
		InputType:   field.InputType(),
		Value:       DisplayValue(state.Values[field.Name]),
		Placeholder: field.Placeholder,
		Description: field.Description,
		Required:    field.Required,
		Invalid:     meta.Invalid(),
		Errors:      append([]string(nil), meta.Errors...),
	}
	if view.Label == "" {
		view.Label = model.DefaultLabeler(field.Name)
	}

	for _, rule := range field.Validations {
		value := rule.Params["value"]
		switch rule.Kind {
		case model.ValidationRuleMin:
			if rule.Params["exclusive"] == "" {
				view.Min = value
			}
		case model.ValidationRuleMax:
			if rule.Params["exclusive"] == "" {
				view.Max = value
			}
		case model.ValidationRuleMinLength:
			view.MinLength = value
		case model.ValidationRuleMaxLength:
			view.MaxLength = value
		case model.ValidationRulePattern:
			view.Pattern = rule.Params["pattern"]
		}
	}
	switch field.Type {
	case model.FieldTypeNumber:
		view.Step = "any"
	case model.FieldTypeInteger:
		view.Step = "1"
	}
	return view
}

// DisplayValue formats a form value for an input's value attribute.
func DisplayValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case bool:
		if v {
			return "on"
		}
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func metadataOr(metadata map[string]string, key, fallback string) string {
	if value := strings.TrimSpace(metadata[key]); value != "" {
		return value
	}
	return fallback
}

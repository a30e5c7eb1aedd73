// Package tui collects form values in a terminal session. It walks the fields
// of a form model, prompts for each one through a PromptDriver and serializes
// the answers so they can be posted to the form endpoint.
package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-formdemo/pkg/model"
	"github.com/goliatone/go-formdemo/pkg/render"
)

// Renderer implements render.Renderer for terminal-driven sessions.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
	maxAttempts  int
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, form output).
func New(options ...Option) *Renderer {
	r := &Renderer{
		outputFormat: OutputFormatFormURLEncoded,
		maxAttempts:  defaultMaxAttempts,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver()
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatJSON:
		return "application/json"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/x-www-form-urlencoded"
	}
}

// Render prompts for every field and returns the serialized answers. Values
// in options.State prefill the prompts; its errors are printed first so a
// retry after a rejected submission shows why.
func (r *Renderer) Render(ctx context.Context, form model.FormModel, options render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}

	values := form.Defaults()
	for key, value := range options.State.Values {
		values[key] = value
	}
	if title := strings.TrimSpace(form.Summary); title != "" {
		if err := r.driver.Info(ctx, title); err != nil {
			return nil, err
		}
	}
	for _, message := range options.State.Errors {
		if err := r.driver.Info(ctx, "! "+message); err != nil {
			return nil, err
		}
	}

	for _, field := range form.Fields {
		value, err := r.promptField(ctx, field, values[field.Name])
		if err != nil {
			return nil, err
		}
		values[field.Name] = value
	}

	return r.serialize(values)
}

func (r *Renderer) promptField(ctx context.Context, field model.Field, current any) (any, error) {
	rules := collectValidationRules(field)
	label := displayLabel(field)

	if field.Type == model.FieldTypeBoolean {
		def, _ := current.(bool)
		return r.driver.Confirm(ctx, ConfirmConfig{Message: label, Default: def, Help: field.Description})
	}

	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		cfg := InputConfig{
			Message: label,
			Default: formatValue(current),
			Help:    field.Description,
		}
		var (
			response string
			err      error
		)
		if field.Format == "password" {
			response, err = r.driver.Password(ctx, cfg)
		} else {
			response, err = r.driver.Input(ctx, cfg)
		}
		if err != nil {
			return nil, err
		}
		response = strings.TrimSpace(response)

		value, err := rules.check(field, response)
		if err != nil {
			if infoErr := r.driver.Info(ctx, fmt.Sprintf("Invalid %s: %v", strings.ToLower(label), err)); infoErr != nil {
				return nil, infoErr
			}
			continue
		}
		return value, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrTooManyAttempts, field.Name)
}

func (r *Renderer) serialize(values model.Values) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatJSON:
		return json.Marshal(values)
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values)), nil
	default:
		return []byte(EncodeValues(values).Encode()), nil
	}
}

// EncodeValues flattens form values into url.Values using the same textual
// form a browser would post.
func EncodeValues(values model.Values) url.Values {
	out := make(url.Values, len(values))
	for key, value := range values {
		out.Set(key, formatValue(value))
	}
	return out
}

func displayLabel(field model.Field) string {
	if field.Label != "" {
		return field.Label
	}
	return model.DefaultLabeler(field.Name)
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

func prettyPrint(values model.Values) string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&b, "%s: %s\n", key, formatValue(values[key]))
	}
	return b.String()
}

type validationRules struct {
	required bool
	min      *float64
	max      *float64
	minLen   *int
	maxLen   *int
	pattern  *regexp.Regexp
}

func collectValidationRules(field model.Field) validationRules {
	rules := validationRules{required: field.Required}
	for _, v := range field.Validations {
		switch v.Kind {
		case model.ValidationRuleMin:
			if val, err := strconv.ParseFloat(v.Params["value"], 64); err == nil {
				rules.min = &val
			}
		case model.ValidationRuleMax:
			if val, err := strconv.ParseFloat(v.Params["value"], 64); err == nil {
				rules.max = &val
			}
		case model.ValidationRuleMinLength:
			if val, err := strconv.Atoi(v.Params["value"]); err == nil {
				rules.minLen = &val
			}
		case model.ValidationRuleMaxLength:
			if val, err := strconv.Atoi(v.Params["value"]); err == nil {
				rules.maxLen = &val
			}
		case model.ValidationRulePattern:
			if re, err := regexp.Compile(v.Params["pattern"]); err == nil {
				rules.pattern = re
			}
		}
	}
	return rules
}

// check applies the model's constraints and converts the answer to the
// field's value type. These mirror the browser's constraint attributes; the
// server still decides acceptance.
func (r validationRules) check(field model.Field, raw string) (any, error) {
	if raw == "" {
		if r.required {
			return nil, errors.New("required")
		}
		if field.Type == model.FieldTypeNumber || field.Type == model.FieldTypeInteger {
			return float64(0), nil
		}
		return "", nil
	}

	switch field.Type {
	case model.FieldTypeNumber, model.FieldTypeInteger:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.New("must be a number")
		}
		if field.Type == model.FieldTypeInteger && n != float64(int64(n)) {
			return nil, errors.New("must be a whole number")
		}
		if r.min != nil && n < *r.min {
			return nil, fmt.Errorf("must be at least %s", formatValue(*r.min))
		}
		if r.max != nil && n > *r.max {
			return nil, fmt.Errorf("must be at most %s", formatValue(*r.max))
		}
		return n, nil
	}

	length := len([]rune(raw))
	if r.minLen != nil && length < *r.minLen {
		return nil, fmt.Errorf("must be at least %d characters", *r.minLen)
	}
	if r.maxLen != nil && length > *r.maxLen {
		return nil, fmt.Errorf("must be at most %d characters", *r.maxLen)
	}
	if r.pattern != nil && !r.pattern.MatchString(raw) {
		return nil, fmt.Errorf("must match %s", r.pattern.String())
	}
	return raw, nil
}

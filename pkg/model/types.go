package model

import "strings"

// FieldType is the simplified enum for form-friendly field kinds.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeInteger FieldType = "integer"
	FieldTypeNumber  FieldType = "number"
	FieldTypeBoolean FieldType = "boolean"
)

const (
	ValidationRuleMin       = "min"
	ValidationRuleMax       = "max"
	ValidationRuleMinLength = "minLength"
	ValidationRuleMaxLength = "maxLength"
	ValidationRulePattern   = "pattern"
)

// ValidationRule represents a single client-side constraint applied to a
// field. Numeric bounds and length limits encode their threshold in
// Params["value"] while pattern rules keep the expression in
// Params["pattern"].
type ValidationRule struct {
	Kind   string            `json:"kind"`
	Params map[string]string `json:"params,omitempty"`
}

// Field models an individual input inside a form.
type Field struct {
	Name        string            `json:"name"`
	Type        FieldType         `json:"type"`
	Format      string            `json:"format,omitempty"`
	Required    bool              `json:"required"`
	Label       string            `json:"label,omitempty"`
	Placeholder string            `json:"placeholder,omitempty"`
	Description string            `json:"description,omitempty"`
	Default     any               `json:"default,omitempty"`
	Validations []ValidationRule  `json:"validations,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Rule returns the first validation rule of the given kind.
func (f Field) Rule(kind string) (ValidationRule, bool) {
	for _, rule := range f.Validations {
		if rule.Kind == kind {
			return rule, true
		}
	}
	return ValidationRule{}, false
}

// InputType maps the field type onto an HTML input type.
func (f Field) InputType() string {
	switch f.Type {
	case FieldTypeInteger, FieldTypeNumber:
		return "number"
	case FieldTypeBoolean:
		return "checkbox"
	}
	switch strings.ToLower(f.Format) {
	case "email":
		return "email"
	case "password":
		return "password"
	}
	return "text"
}

// FormModel is the top-level representation page templates consume.
type FormModel struct {
	ID          string            `json:"id"`
	OperationID string            `json:"operationId"`
	Endpoint    string            `json:"endpoint"`
	Method      string            `json:"method"`
	EncType     string            `json:"encType,omitempty"`
	Summary     string            `json:"summary,omitempty"`
	Description string            `json:"description,omitempty"`
	Fields      []Field           `json:"fields"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Field looks up a top-level field by name.
func (f FormModel) Field(name string) (Field, bool) {
	for _, field := range f.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// FieldNames returns the field names in render order.
func (f FormModel) FieldNames() []string {
	if len(f.Fields) == 0 {
		return nil
	}
	names := make([]string, 0, len(f.Fields))
	for _, field := range f.Fields {
		names = append(names, field.Name)
	}
	return names
}

// Subset returns a copy of the form that only keeps the named fields, in the
// order the form declares them. Unknown names are ignored and an empty name
// list returns the form unchanged.
func (f FormModel) Subset(names ...string) FormModel {
	if len(names) == 0 {
		return f
	}
	keep := make(map[string]struct{}, len(names))
	for _, name := range names {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			keep[trimmed] = struct{}{}
		}
	}
	if len(keep) == 0 {
		return f
	}

	out := f
	out.Fields = make([]Field, 0, len(keep))
	for _, field := range f.Fields {
		if _, ok := keep[field.Name]; ok {
			out.Fields = append(out.Fields, field)
		}
	}
	if len(out.Fields) == 0 {
		out.Fields = nil
	}
	return out
}

// Defaults returns the initial values of every field. Fields without a
// schema default start from the zero value of their type.
func (f FormModel) Defaults() Values {
	values := make(Values, len(f.Fields))
	for _, field := range f.Fields {
		if field.Default != nil {
			values[field.Name] = field.Default
			continue
		}
		switch field.Type {
		case FieldTypeInteger, FieldTypeNumber:
			values[field.Name] = float64(0)
		case FieldTypeBoolean:
			values[field.Name] = false
		default:
			values[field.Name] = ""
		}
	}
	return values
}

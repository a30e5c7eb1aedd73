package model

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-formdemo/pkg/openapi"
)

const (
	orderExtensionKey       = "x-order"
	placeholderExtensionKey = "x-placeholder"
	metadataExtensionPrefix = "x-formdemo-"
)

var (
	errOperationIDMissing   = errors.New("model builder: operation id is required")
	errOperationPathMissing = errors.New("model builder: operation path is required")
)

// Labeler turns a field name into a display label.
type Labeler func(name string) string

// Builder converts OpenAPI operations into form models.
type Builder struct {
	labeler Labeler
}

// NewBuilder returns a Builder. A nil labeler falls back to DefaultLabeler.
func NewBuilder(labeler Labeler) *Builder {
	if labeler == nil {
		labeler = DefaultLabeler
	}
	return &Builder{labeler: labeler}
}

// Build transforms an operation's request body into a FormModel identified
// by formID. Only flat objects of primitive properties are supported.
func (b *Builder) Build(formID string, op openapi.Operation) (FormModel, error) {
	if strings.TrimSpace(op.ID) == "" {
		return FormModel{}, errOperationIDMissing
	}
	if strings.TrimSpace(op.Path) == "" {
		return FormModel{}, errOperationPathMissing
	}

	form := FormModel{
		ID:          strings.TrimSpace(formID),
		OperationID: op.ID,
		Endpoint:    op.Path,
		Method:      strings.ToUpper(op.Method),
		EncType:     op.EncType,
		Summary:     op.Summary,
		Description: op.Description,
	}
	if form.ID == "" {
		form.ID = op.ID
	}
	if form.Method == "" {
		form.Method = "POST"
	}
	form.Metadata = metadataFromExtensions(op.Extensions)

	body := op.RequestBody
	if body.Type != "" && body.Type != "object" {
		return FormModel{}, fmt.Errorf("model builder: request body of %q must be an object, got %q", op.ID, body.Type)
	}

	required := make(map[string]struct{}, len(body.Required))
	for _, name := range body.Required {
		required[name] = struct{}{}
	}

	for _, name := range orderedProperties(body.Properties) {
		prop := body.Properties[name]
		if prop.Type == "object" || prop.Type == "array" {
			return FormModel{}, fmt.Errorf("model builder: field %q: nested %s fields are not supported", name, prop.Type)
		}
		_, isRequired := required[name]
		form.Fields = append(form.Fields, b.fieldFromPrimitive(name, prop, isRequired))
	}

	return form, nil
}

func (b *Builder) fieldFromPrimitive(name string, schema openapi.Schema, required bool) Field {
	label := strings.TrimSpace(schema.Title)
	if label == "" {
		label = b.labeler(name)
	}
	field := Field{
		Name:        name,
		Type:        mapType(schema.Type),
		Format:      schema.Format,
		Label:       label,
		Description: schema.Description,
		Required:    required,
		Default:     schema.Default,
	}
	if placeholder, ok := schema.Extensions[placeholderExtensionKey].(string); ok {
		field.Placeholder = placeholder
	}
	applyValidations(&field, schema)
	return field
}

// orderedProperties sorts property names by their x-order extension, then by
// name. Properties without an order sort after ordered ones.
func orderedProperties(props map[string]openapi.Schema) []string {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.SliceStable(names, func(i, j int) bool {
		oi, okI := extensionOrder(props[names[i]].Extensions)
		oj, okJ := extensionOrder(props[names[j]].Extensions)
		switch {
		case okI && okJ && oi != oj:
			return oi < oj
		case okI != okJ:
			return okI
		default:
			return names[i] < names[j]
		}
	})
	return names
}

// metadataFromExtensions copies string x-formdemo-* extensions into
// metadata keyed without the prefix.
func metadataFromExtensions(ext map[string]any) map[string]string {
	var out map[string]string
	for key, value := range ext {
		if !strings.HasPrefix(key, metadataExtensionPrefix) {
			continue
		}
		text, ok := value.(string)
		if !ok {
			continue
		}
		name := strings.TrimPrefix(key, metadataExtensionPrefix)
		if name == "" {
			continue
		}
		if out == nil {
			out = make(map[string]string)
		}
		out[name] = strings.TrimSpace(text)
	}
	return out
}

func extensionOrder(ext map[string]any) (float64, bool) {
	switch v := ext[orderExtensionKey].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return parsed, err == nil
	default:
		return 0, false
	}
}

func mapType(schemaType string) FieldType {
	switch schemaType {
	case "integer":
		return FieldTypeInteger
	case "number":
		return FieldTypeNumber
	case "boolean":
		return FieldTypeBoolean
	default:
		return FieldTypeString
	}
}

func applyValidations(field *Field, schema openapi.Schema) {
	if field == nil {
		return
	}

	if schema.Minimum != nil {
		params := map[string]string{"value": formatFloat(*schema.Minimum)}
		if schema.ExclusiveMinimum {
			params["exclusive"] = "true"
		}
		field.Validations = append(field.Validations, ValidationRule{Kind: ValidationRuleMin, Params: params})
	}

	if schema.Maximum != nil {
		params := map[string]string{"value": formatFloat(*schema.Maximum)}
		if schema.ExclusiveMaximum {
			params["exclusive"] = "true"
		}
		field.Validations = append(field.Validations, ValidationRule{Kind: ValidationRuleMax, Params: params})
	}

	if schema.MinLength != nil {
		field.Validations = append(field.Validations, ValidationRule{
			Kind:   ValidationRuleMinLength,
			Params: map[string]string{"value": strconv.Itoa(*schema.MinLength)},
		})
	}

	if schema.MaxLength != nil {
		field.Validations = append(field.Validations, ValidationRule{
			Kind:   ValidationRuleMaxLength,
			Params: map[string]string{"value": strconv.Itoa(*schema.MaxLength)},
		})
	}

	if schema.Pattern != "" {
		field.Validations = append(field.Validations, ValidationRule{
			Kind:   ValidationRulePattern,
			Params: map[string]string{"pattern": schema.Pattern},
		})
	}
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

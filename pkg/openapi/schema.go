package openapi

import "github.com/getkin/kin-openapi/openapi3"

// Operation is the subset of an OpenAPI operation needed to build a form.
type Operation struct {
	ID          string
	Method      string
	Path        string
	Summary     string
	Description string
	EncType     string
	RequestBody Schema
	Extensions  map[string]any
}

// Schema is a trimmed, resolved view of an OpenAPI schema.
type Schema struct {
	Ref              string
	Type             string
	Format           string
	Title            string
	Description      string
	Default          any
	Minimum          *float64
	ExclusiveMinimum bool
	Maximum          *float64
	ExclusiveMaximum bool
	MinLength        *int
	MaxLength        *int
	Pattern          string
	Required         []string
	Properties       map[string]Schema
	Extensions       map[string]any
}

func convertSchema(ref *openapi3.SchemaRef) Schema {
	if ref == nil {
		return Schema{}
	}
	out := Schema{Ref: ref.Ref}
	value := ref.Value
	if value == nil {
		return out
	}

	if types := value.Type.Slice(); len(types) > 0 {
		out.Type = types[0]
	}
	out.Format = value.Format
	out.Title = value.Title
	out.Description = value.Description
	out.Default = value.Default
	out.Pattern = value.Pattern
	out.ExclusiveMinimum = value.ExclusiveMin
	out.ExclusiveMaximum = value.ExclusiveMax
	if value.Min != nil {
		minimum := *value.Min
		out.Minimum = &minimum
	}
	if value.Max != nil {
		maximum := *value.Max
		out.Maximum = &maximum
	}
	if value.MinLength > 0 {
		minLength := int(value.MinLength)
		out.MinLength = &minLength
	}
	if value.MaxLength != nil {
		maxLength := int(*value.MaxLength)
		out.MaxLength = &maxLength
	}
	if len(value.Required) > 0 {
		out.Required = append([]string(nil), value.Required...)
	}
	if len(value.Properties) > 0 {
		out.Properties = make(map[string]Schema, len(value.Properties))
		for name, prop := range value.Properties {
			out.Properties[name] = convertSchema(prop)
		}
	}
	out.Extensions = cloneExtensions(value.Extensions)
	return out
}

func cloneExtensions(in map[string]any) map[string]any {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

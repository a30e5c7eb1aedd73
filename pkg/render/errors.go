package render

import (
	"strings"

	"github.com/goliatone/go-formdemo/pkg/model"
)

// ErrorMapping is a server error payload sorted into messages for named
// fields and messages for the form as a whole.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// payloadWrappers are leading path segments servers commonly nest request
// fields under.
var payloadWrappers = map[string]bool{
	"body":    true,
	"request": true,
	"payload": true,
	"data":    true,
	"values":  true,
}

// formLevelKeys name the whole form rather than a field.
var formLevelKeys = map[string]bool{
	"":                 true,
	".":                true,
	"/":                true,
	"#":                true,
	"$":                true,
	"form":             true,
	"__all__":          true,
	"non_field_errors": true,
	"non-field-errors": true,
}

var pointerUnescaper = strings.NewReplacer("~1", "/", "~0", "~")

// MergeFormErrors appends extras to existing and returns the trimmed,
// de-duplicated result in first-seen order.
func MergeFormErrors(existing []string, extras ...string) []string {
	all := append(append([]string(nil), existing...), extras...)
	return cleanMessages(all)
}

// MapErrorPayload assigns each payload key to a field of form. Keys may be
// bare names, dotted paths or JSON pointers ("/body/age"). Messages under
// keys that name no field are kept as form-level errors.
func MapErrorPayload(form model.FormModel, payload map[string][]string) ErrorMapping {
	var mapping ErrorMapping
	if len(payload) == 0 {
		return mapping
	}

	known := make(map[string]bool, len(form.Fields))
	for _, field := range form.Fields {
		if name := strings.TrimSpace(field.Name); name != "" {
			known[name] = true
		}
	}

	for _, key := range sortedKeys(payload) {
		messages := cleanMessages(payload[key])
		if messages == nil {
			continue
		}
		field := fieldForKey(key, known)
		if field == "" {
			mapping.Form = append(mapping.Form, messages...)
			continue
		}
		if mapping.Fields == nil {
			mapping.Fields = make(map[string][]string)
		}
		mapping.Fields[field] = cleanMessages(append(mapping.Fields[field], messages...))
	}
	mapping.Form = cleanMessages(mapping.Form)
	return mapping
}

// fieldForKey returns the field a payload key points at, or "" when the key
// addresses the form.
func fieldForKey(key string, known map[string]bool) string {
	key = strings.TrimSpace(key)
	if formLevelKeys[strings.ToLower(key)] {
		return ""
	}
	segments := keySegments(key)
	for len(segments) > 0 && payloadWrappers[strings.ToLower(segments[0])] {
		segments = segments[1:]
	}
	if len(segments) > 0 && known[segments[0]] {
		return segments[0]
	}
	return ""
}

// keySegments splits "#/body/age", "$.values.age" or "items[0].name" into
// path segments.
func keySegments(key string) []string {
	key = strings.TrimLeft(key, "#/.$")
	key = strings.NewReplacer("[", ".", "]", "").Replace(key)

	var segments []string
	for _, part := range strings.FieldsFunc(key, func(r rune) bool { return r == '.' || r == '/' }) {
		if part = strings.TrimSpace(part); part != "" {
			segments = append(segments, pointerUnescaper.Replace(part))
		}
	}
	return segments
}

func cleanMessages(messages []string) []string {
	var out []string
	seen := make(map[string]bool, len(messages))
	for _, message := range messages {
		message = strings.TrimSpace(message)
		if message == "" || seen[message] {
			continue
		}
		seen[message] = true
		out = append(out, message)
	}
	return out
}

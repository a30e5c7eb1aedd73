package render

import (
	"sort"
	"strings"
)

// RedirectFieldName is the hidden input holding the page a native
// submission should return to when the server rejects it.
const RedirectFieldName = "_redirect"

// HiddenField is a hidden input rendered inside the form.
type HiddenField struct {
	Name  string
	Value string
}

// RedirectField returns the hidden input that sends the browser back to
// path after a rejected native submission.
func RedirectField(path string) HiddenField {
	return HiddenField{Name: RedirectFieldName, Value: path}
}

// MergeHiddenFields copies base and sets fields on the copy. Blank names are
// skipped and later values overwrite earlier ones.
func MergeHiddenFields(base map[string]string, fields ...HiddenField) map[string]string {
	out := make(map[string]string, len(base)+len(fields))
	set := func(name, value string) {
		if name = strings.TrimSpace(name); name != "" {
			out[name] = value
		}
	}
	for name, value := range base {
		set(name, value)
	}
	for _, field := range fields {
		set(field.Name, field.Value)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SortedHiddenFields orders fields by name so markup is stable.
func SortedHiddenFields(fields map[string]string) []HiddenField {
	var out []HiddenField
	for name, value := range fields {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, HiddenField{Name: name, Value: value})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// SafeRedirect reports whether target is a local absolute path. Scheme
// relative ("//host") and backslash forms are refused, as are header
// breaking characters.
func SafeRedirect(target string) bool {
	target = strings.TrimSpace(target)
	switch {
	case !strings.HasPrefix(target, "/"):
		return false
	case strings.HasPrefix(target, "//"), strings.HasPrefix(target, `/\`):
		return false
	}
	return !strings.ContainsAny(target, "\r\n")
}

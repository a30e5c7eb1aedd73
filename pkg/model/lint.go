package model

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-formdemo/pkg/openapi"
)

// Operation-level metadata keys understood by the renderers, without the
// x-formdemo- prefix.
var allowedMetadataKeys = []string{"error-hint", "error-title"}

// Violation is one unsupported or malformed form extension.
type Violation struct {
	Operation string
	Location  string
	Message   string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s -> %s", v.Operation, v.Location, v.Message)
}

// AllowedMetadataKeys lists the supported x-formdemo-* operation keys.
func AllowedMetadataKeys() []string {
	return append([]string(nil), allowedMetadataKeys...)
}

// LintOperation checks the form extensions on op and its request body
// properties. Violations come back sorted by location.
func LintOperation(op openapi.Operation) []Violation {
	var out []Violation
	add := func(location []string, format string, args ...any) {
		out = append(out, Violation{
			Operation: op.ID,
			Location:  strings.Join(location, " > "),
			Message:   fmt.Sprintf(format, args...),
		})
	}

	for _, key := range sortedExtensionKeys(op.Extensions) {
		if !strings.HasPrefix(key, metadataExtensionPrefix) {
			continue
		}
		name := strings.TrimPrefix(key, metadataExtensionPrefix)
		location := []string{"operation", key}
		if !isAllowedMetadataKey(name) {
			add(location, "unsupported extension %q (supported: %s)", name, strings.Join(allowedMetadataKeys, ", "))
			continue
		}
		if _, ok := op.Extensions[key].(string); !ok {
			add(location, "value must be a string (got %T)", op.Extensions[key])
		}
	}

	props := op.RequestBody.Properties
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		ext := props[name].Extensions
		for _, key := range sortedExtensionKeys(ext) {
			location := []string{"requestBody", "properties." + name, key}
			switch {
			case key == orderExtensionKey:
				if _, ok := extensionOrder(ext); !ok {
					add(location, "value must be a number (got %T)", ext[key])
				}
			case key == placeholderExtensionKey:
				if _, ok := ext[key].(string); !ok {
					add(location, "value must be a string (got %T)", ext[key])
				}
			case strings.HasPrefix(key, metadataExtensionPrefix):
				add(location, "form metadata belongs on the operation")
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Location < out[j].Location
	})
	return out
}

func isAllowedMetadataKey(name string) bool {
	for _, key := range allowedMetadataKeys {
		if key == name {
			return true
		}
	}
	return false
}

func sortedExtensionKeys(ext map[string]any) []string {
	keys := make([]string, 0, len(ext))
	for key := range ext {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

package nav

import (
	"path"
	"strings"
)

// Match reports whether requestPath satisfies pattern. Both are cleaned and
// compared segment by segment; trailing slashes are ignored. A pattern
// segment written as ":name" or "{name}" matches any single segment. When
// fuzzy is set the pattern also matches any descendant of itself, so "/docs"
// matches "/docs/intro".
func Match(pattern, requestPath string, fuzzy bool) bool {
	patternSegments := segments(pattern)
	pathSegments := segments(requestPath)

	if len(pathSegments) < len(patternSegments) {
		return false
	}
	if !fuzzy && len(pathSegments) != len(patternSegments) {
		return false
	}
	for i, segment := range patternSegments {
		if isParam(segment) {
			continue
		}
		if segment != pathSegments[i] {
			return false
		}
	}
	return true
}

// Params extracts named segments from requestPath. ok is false when the path
// does not match pattern exactly.
func Params(pattern, requestPath string) (map[string]string, bool) {
	if !Match(pattern, requestPath, false) {
		return nil, false
	}
	params := map[string]string{}
	pathSegments := segments(requestPath)
	for i, segment := range segments(pattern) {
		if name := paramName(segment); name != "" {
			params[name] = pathSegments[i]
		}
	}
	return params, true
}

func segments(p string) []string {
	p = strings.TrimSpace(p)
	if p == "" {
		p = "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	cleaned := strings.Trim(path.Clean(p), "/")
	if cleaned == "" {
		return nil
	}
	return strings.Split(cleaned, "/")
}

func isParam(segment string) bool {
	return paramName(segment) != ""
}

func paramName(segment string) string {
	switch {
	case len(segment) > 1 && strings.HasPrefix(segment, ":"):
		return segment[1:]
	case len(segment) > 2 && strings.HasPrefix(segment, "{") && strings.HasSuffix(segment, "}"):
		return segment[1 : len(segment)-1]
	}
	return ""
}

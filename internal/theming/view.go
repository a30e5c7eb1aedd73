package theming

import (
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// View is the template-facing shape of a renderer config.
type View struct {
	Name       string   `json:"name"`
	Variant    string   `json:"variant"`
	Style      string   `json:"style"`
	Stylesheet string   `json:"stylesheet"`
	Script     string   `json:"script"`
	FormScript string   `json:"formScript"`
	Variants   []string `json:"variants"`
}

// NewView builds the page view for cfg.
func NewView(cfg *theme.RendererConfig, variants []string) View {
	if cfg == nil {
		return View{}
	}
	view := View{
		Name:     cfg.Theme,
		Variant:  cfg.Variant,
		Style:    CSSVarsStyle(cfg.CSSVars),
		Variants: append([]string(nil), variants...),
	}
	if cfg.AssetURL != nil {
		view.Stylesheet = cfg.AssetURL("stylesheet")
		view.Script = cfg.AssetURL("script")
		view.FormScript = cfg.AssetURL("form")
	}
	return view
}

// CSSVarsStyle renders vars as a sorted :root rule.
func CSSVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString("  ")
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}

package showcase

func builtins() []Component {
	return []Component{
		{
			Name:        "buttons",
			Title:       "Button",
			Description: "Primary, outline and <em>disabled</em> buttons.",
			Template: `<div class="row">{% for b in buttons %}<button type="button" class="button{% if b.variant %} button-{{ b.variant }}{% endif %}"{% if b.disabled %} disabled{% endif %}>{{ b.label }}</button>{% endfor %}</div>`,
			Data: map[string]any{"buttons": []map[string]any{
				{"label": "Submit"},
				{"label": "Reset", "variant": "outline"},
				{"label": "Destructive", "variant": "destructive"},
				{"label": "...", "disabled": true},
			}},
		},
		{
			Name:        "badges",
			Title:       "Badge",
			Description: "Small status labels.",
			Template: `<div class="row">{% for b in badges %}<span class="badge badge-{{ b.variant }}">{{ b.label }}</span>{% endfor %}</div>`,
			Data: map[string]any{"badges": []map[string]any{
				{"label": "Default", "variant": "default"},
				{"label": "Secondary", "variant": "secondary"},
				{"label": "Invalid", "variant": "destructive"},
			}},
		},
		{
			Name:        "alert",
			Title:       "Alert",
			Description: "The destructive alert used for form errors.",
			Template: `<div class="alert alert-destructive" role="alert"><div class="alert-title">{{ title }}</div><div class="alert-description"><p>{{ hint }}</p><ul class="error-list">{% for message in errors %}<li>{{ message }}</li>{% endfor %}</ul></div></div>`,
			Data: map[string]any{
				"title":  "Unable to verify your age.",
				"hint":   "Please verify your age and try again.",
				"errors": []string{"Server validation: You must be at least 12 to sign up"},
			},
		},
		{
			Name:        "card",
			Title:       "Card",
			Description: "Header, content and footer slots.",
			Template: `<div class="card"><header class="card-header"><h3 class="card-title">{{ title }}</h3><p class="card-description">{{ description }}</p></header><div class="card-content"><p>{{ body }}</p></div><footer class="card-footer"><span class="muted">{{ footer }}</span></footer></div>`,
			Data: map[string]any{
				"title":       "Card title",
				"description": "A short description of the card.",
				"body":        "Cards group related content.",
				"footer":      "Footer",
			},
		},
		{
			Name:        "input",
			Title:       "Input",
			Description: "Text and number inputs with constraint attributes.",
			Template: `<div class="field-group">{% for input in inputs %}<div class="field"><label class="field-label" for="showcase-{{ input.name }}">{{ input.label }}</label><input class="input" id="showcase-{{ input.name }}" name="{{ input.name }}" type="{{ input.type }}"{% if input.placeholder %} placeholder="{{ input.placeholder }}"{% endif %}></div>{% endfor %}</div>`,
			Data: map[string]any{"inputs": []map[string]any{
				{"name": "text", "label": "First name", "type": "text", "placeholder": "Ada"},
				{"name": "number", "label": "Age", "type": "number"},
			}},
		},
		{
			Name:        "field-error",
			Title:       "Field with error",
			Description: "An invalid field shows its messages below the input.",
			Template: `<div class="field" data-invalid="true"><label class="field-label" for="showcase-age-error">{{ label }}</label><input class="input" id="showcase-age-error" type="number" value="{{ value }}" aria-invalid="true"><ul class="field-error">{% for message in errors %}<li>{{ message }}</li>{% endfor %}</ul></div>`,
			Data: map[string]any{
				"label":  "Age",
				"value":  "8",
				"errors": []string{"Server validation: You must be at least 12 to sign up"},
			},
		},
	}
}

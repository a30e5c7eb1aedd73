package validation

import (
	"errors"
	"fmt"
	"html"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formdemo/pkg/model"
)

const (
	mediaMultipart  = "multipart/form-data"
	mediaURLEncoded = "application/x-www-form-urlencoded"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// ReadForm parses the request body as a form. Only multipart/form-data and
// application/x-www-form-urlencoded payloads are accepted; anything else
// fails with ErrInvalidInput.
func ReadForm(r *http.Request, maxMemory int64) (url.Values, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: missing request", ErrInvalidInput)
	}
	contentType := strings.TrimSpace(r.Header.Get("Content-Type"))
	if contentType == "" {
		return nil, fmt.Errorf("%w: missing content type", ErrInvalidInput)
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	switch mediaType {
	case mediaMultipart:
		if err := r.ParseMultipartForm(maxMemory); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	case mediaURLEncoded:
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported content type %q", ErrInvalidInput, mediaType)
	}

	if r.PostForm == nil {
		return url.Values{}, nil
	}
	return r.PostForm, nil
}

// decodeValues converts raw form input into typed values for the form's
// fields, starting from the form defaults. Values that cannot be converted
// keep the raw input and are reported in result.
func decodeValues(form model.FormModel, raw url.Values, result *model.ValidationResult) model.Values {
	values := form.Defaults()
	for _, field := range form.Fields {
		if _, present := raw[field.Name]; !present {
			continue
		}
		input := sanitizeText(raw.Get(field.Name))

		switch field.Type {
		case model.FieldTypeNumber, model.FieldTypeInteger:
			if input == "" {
				continue
			}
			number, err := parseNumber(input, field.Type)
			if err != nil {
				values[field.Name] = input
				result.Add(field.Name, fmt.Sprintf("%s must be a number", labelOf(field)))
				continue
			}
			values[field.Name] = number
		case model.FieldTypeBoolean:
			values[field.Name] = input == "on" || input == "true" || input == "1"
		default:
			values[field.Name] = input
		}
	}
	return values
}

func parseNumber(input string, kind model.FieldType) (float64, error) {
	number, err := strconv.ParseFloat(input, 64)
	if err != nil {
		return 0, err
	}
	if kind == model.FieldTypeInteger && number != float64(int64(number)) {
		return 0, errors.New("not an integer")
	}
	return number, nil
}

// sanitizeText strips markup from user input and returns plain text.
func sanitizeText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(trimmed)))
}

func labelOf(field model.Field) string {
	if field.Label != "" {
		return field.Label
	}
	return model.DefaultLabeler(field.Name)
}

package validation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/goliatone/go-formdemo/pkg/model"
)

const (
	// MinimumAge is the youngest age accepted by the signup form.
	MinimumAge = 12

	MessageMinimumAge    = "Server validation: You must be at least 12 to sign up"
	MessageFirstNameSize = "First name must be at most 100 characters"

	defaultMaxMemory = 1 << 20
)

// Signup is the typed view of the signup form that server rules run on.
type Signup struct {
	FirstName string  `form:"firstName" validate:"max=100"`
	Age       float64 `form:"age" validate:"gte=12"`
}

// BindSignup maps decoded form values onto a Signup.
func BindSignup(values model.Values) any {
	signup := Signup{}
	if name, ok := values["firstName"].(string); ok {
		signup.FirstName = name
	}
	if age, ok := values["age"].(float64); ok {
		signup.Age = age
	}
	return signup
}

// DefaultMessages maps "<field>.<tag>" failures of the signup rules to the
// messages shown to the user.
func DefaultMessages() map[string]string {
	return map[string]string{
		"age.gte":       MessageMinimumAge,
		"firstName.max": MessageFirstNameSize,
	}
}

// Binder maps decoded values onto the struct the validator checks.
type Binder func(values model.Values) any

// Option configures a ServerValidator.
type Option func(*ServerValidator)

// WithBinder overrides the struct binding. Defaults to BindSignup.
func WithBinder(binder Binder) Option {
	return func(v *ServerValidator) {
		if binder != nil {
			v.bind = binder
		}
	}
}

// WithMessages merges message overrides keyed by "<field>.<tag>".
func WithMessages(messages map[string]string) Option {
	return func(v *ServerValidator) {
		for key, message := range messages {
			v.messages[strings.TrimSpace(key)] = message
		}
	}
}

// WithMaxMemory bounds the memory used when parsing multipart bodies.
func WithMaxMemory(limit int64) Option {
	return func(v *ServerValidator) {
		if limit > 0 {
			v.maxMemory = limit
		}
	}
}

// ServerValidator decodes and validates submissions for one form.
type ServerValidator struct {
	form      model.FormModel
	validate  *validator.Validate
	bind      Binder
	messages  map[string]string
	maxMemory int64
}

// NewServerValidator returns a validator for the given form.
func NewServerValidator(form model.FormModel, opts ...Option) *ServerValidator {
	v := &ServerValidator{
		form:      form,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		bind:      BindSignup,
		messages:  DefaultMessages(),
		maxMemory: defaultMaxMemory,
	}
	v.validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}
	return v
}

// Form returns the form this validator checks.
func (v *ServerValidator) Form() model.FormModel {
	return v.form
}

// ValidateRequest decodes the request and validates it. It returns the typed
// values on success, an error wrapping ErrInvalidInput when the payload is
// not a form, or a *ServerValidateError carrying the response state.
func (v *ServerValidator) ValidateRequest(ctx context.Context, r *http.Request) (model.Values, error) {
	raw, err := ReadForm(r, v.maxMemory)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var result model.ValidationResult
	values := decodeValues(v.form, raw, &result)
	if err := v.check(values, &result); err != nil {
		return nil, err
	}

	if !result.Valid() {
		return nil, &ServerValidateError{
			Response: result.State(values),
			Result:   result,
		}
	}
	return values, nil
}

// Validate runs the server rules on already decoded values.
func (v *ServerValidator) Validate(values model.Values) model.ValidationResult {
	var result model.ValidationResult
	_ = v.check(values, &result)
	return result
}

func (v *ServerValidator) check(values model.Values, result *model.ValidationResult) error {
	target := v.bind(values)
	if target == nil {
		return errors.New("validation: binder returned nil")
	}

	err := v.validate.Struct(target)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validation: validate %T: %w", target, err)
	}

	for _, fieldErr := range fieldErrs {
		name := fieldErr.Field()
		if len(result.Fields[name]) > 0 {
			// The raw value did not decode; the rule ran on the zero value.
			continue
		}
		result.Add(name, v.message(name, fieldErr))
	}
	return nil
}

func (v *ServerValidator) message(field string, fieldErr validator.FieldError) string {
	if message, ok := v.messages[field+"."+fieldErr.Tag()]; ok {
		return message
	}
	label := field
	if f, ok := v.form.Field(field); ok {
		label = labelOf(f)
	}
	if param := fieldErr.Param(); param != "" {
		return fmt.Sprintf("%s failed %s=%s", label, fieldErr.Tag(), param)
	}
	return fmt.Sprintf("%s failed %s", label, fieldErr.Tag())
}

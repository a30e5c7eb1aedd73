package validation

import (
	"errors"
	"strings"

	"github.com/goliatone/go-formdemo/pkg/model"
)

// ErrInvalidInput reports a payload that is not a form-encoded object.
var ErrInvalidInput = errors.New("validation: invalid form data")

// ServerValidateError carries the response reported back to the caller when
// server validation fails: the submitted values plus the error list.
type ServerValidateError struct {
	Response model.FormState
	Result   model.ValidationResult
}

func (e *ServerValidateError) Error() string {
	if e == nil || len(e.Result.Errors) == 0 {
		return "validation: server validation failed"
	}
	return "validation: " + strings.Join(e.Result.Errors, "; ")
}

// AsServerValidateError unwraps err into a ServerValidateError.
func AsServerValidateError(err error) (*ServerValidateError, bool) {
	var target *ServerValidateError
	if errors.As(err, &target) && target != nil {
		return target, true
	}
	return nil, false
}

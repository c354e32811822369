package validation

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
)

// Error reports the first rule violated by an input.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// IsValidationError reports whether err carries a rule violation.
func IsValidationError(err error) bool {
	var validationErr *Error
	return errors.As(err, &validationErr)
}

// translate keeps only the first validator failure and renders it for clients.
func translate(field string, err error) error {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return &Error{Field: field, Message: err.Error()}
	}

	return &Error{Field: field, Message: message(field, fieldErrors[0])}
}

func message(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is not allowed to be empty", field)
	case "gt":
		if fe.Param() == "0" {
			return fmt.Sprintf("%q must be a positive number", field)
		}
		return fmt.Sprintf("%q must be greater than %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%q length must be less than or equal to %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%q must be less than or equal to %s", field, fe.Param())
	case "len":
		return fmt.Sprintf("%q length must be %s characters long", field, fe.Param())
	case "number":
		return fmt.Sprintf("%q must only contain digits without dots or dashes. Example: 12345678901", field)
	case "email":
		return fmt.Sprintf("%q must be a valid email", field)
	default:
		return fmt.Sprintf("%q failed on the %s rule", field, fe.Tag())
	}
}

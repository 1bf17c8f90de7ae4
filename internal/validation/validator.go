// Package validation integrates go-playground/validator with Echo.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator implements echo.Validator on top of go-playground/validator,
// so handlers can validate bound form structs declaratively via struct tags.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance.
func NewValidator() *Validator {
	return &Validator{
		validate: validator.New(),
	}
}

// Validate validates a struct using its validation tags.
// Called by Echo when a handler invokes c.Validate().
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	messages := make([]string, 0, len(validationErrors))
	for field, message := range FormatValidationErrors(validationErrors) {
		messages = append(messages, fmt.Sprintf("%s: %s", field, message))
	}
	return errors.New(strings.Join(messages, "; "))
}

// FormatValidationErrors converts validator errors to user-friendly messages,
// keyed by lowercased field name.
func FormatValidationErrors(validationErrors validator.ValidationErrors) map[string]string {
	fields := make(map[string]string, len(validationErrors))
	for _, fieldErr := range validationErrors {
		name := strings.ToLower(fieldErr.Field())
		switch fieldErr.Tag() {
		case "required":
			fields[name] = "is required"
		case "min":
			fields[name] = fmt.Sprintf("must be at least %s", fieldErr.Param())
		case "max":
			fields[name] = fmt.Sprintf("must be no more than %s", fieldErr.Param())
		case "oneof":
			fields[name] = fmt.Sprintf("must be one of: %s", fieldErr.Param())
		default:
			fields[name] = fmt.Sprintf("failed validation: %s", fieldErr.Tag())
		}
	}
	return fields
}

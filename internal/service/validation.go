package service

import (
	"errors"
	"fmt"
	"html"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"

	"foodapi/internal/apperr"
)

var (
	validate     = newValidator()
	strictPolicy = bluemonday.StrictPolicy()
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return lowerCamel(field.Name)
		}
		return name
	})
	return v
}

// validateInput runs struct-tag validation and turns the failures into a
// ValidationError listing one message per field.
func validateInput(input interface{}) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return apperr.Validation("invalid input")
	}

	details := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		field := fieldError.Field()
		switch fieldError.Tag() {
		case "required":
			details = append(details, fmt.Sprintf("%s is required", field))
		case "email":
			details = append(details, fmt.Sprintf("%s must be a valid email", field))
		case "min":
			details = append(details, fmt.Sprintf("%s must be at least %s characters", field, fieldError.Param()))
		case "max":
			details = append(details, fmt.Sprintf("%s must be at most %s characters", field, fieldError.Param()))
		case "gt":
			details = append(details, fmt.Sprintf("%s must be greater than %s", field, fieldError.Param()))
		case "oneof":
			details = append(details, fmt.Sprintf("%s must be one of: %s", field, fieldError.Param()))
		default:
			details = append(details, fmt.Sprintf("%s is invalid", field))
		}
	}
	return apperr.Validation("validation failed", details...)
}

func lowerCamel(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// sanitizeText strips all markup and returns plain text.
func sanitizeText(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	ierr "github.com/subledger/subledger/internal/errors"
)

var validate *validator.Validate

func NewValidator() *validator.Validate {
	validate = validator.New()

	// Report field paths by their json names so error paths match the wire
	// contract, not the Go struct fields.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return validate
}

func GetValidator() *validator.Validate {
	if validate == nil {
		return NewValidator()
	}
	return validate
}

// ValidateRequest runs the structural checks for a request payload. All
// field errors are collected, ordered by field declaration.
func ValidateRequest(req interface{}) error {
	if err := GetValidator().Struct(req); err != nil {
		var validateErrs validator.ValidationErrors
		if ierr.As(err, &validateErrs) {
			fieldErrors := make([]ierr.FieldError, 0, len(validateErrs))
			for _, fe := range validateErrs {
				fieldErrors = append(fieldErrors, ierr.FieldError{
					Path:    fieldPath(fe),
					Message: fieldMessage(fe),
				})
			}
			return ierr.WithError(err).
				WithHint("Request validation failed").
				WithFieldErrors(fieldErrors).
				Mark(ierr.ErrValidation)
		}
		return ierr.WithError(err).
			WithHint("Request validation failed").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// fieldPath strips the root struct name from the namespace, leaving the
// json path of the offending field (e.g. "lineItems[0].quantity").
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "invalid email format"
	case "gt":
		return fe.Field() + " must be greater than " + fe.Param()
	case "gte":
		return fe.Field() + " must be at least " + fe.Param()
	case "min":
		return fe.Field() + " must have at least " + fe.Param() + " items"
	default:
		return "invalid value for " + fe.Field()
	}
}

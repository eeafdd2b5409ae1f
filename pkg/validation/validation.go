package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "tandem-user-service/pkg/errors"
)

const (
	// MaxNameLength is the maximum length for first, middle and last names
	MaxNameLength = 100
	// MaxPhoneNumberLength is the maximum length for phone numbers
	MaxPhoneNumberLength = 20
	// MaxEmailAddressLength is the maximum length for email addresses
	MaxEmailAddressLength = 255
)

// phonePattern restricts phone numbers to digits, dashes, parentheses and spaces
var phonePattern = regexp.MustCompile(`^[\d\-\(\)\s]+$`)

// New creates a validator configured for request structs. Field names in
// error reports come from the json tag so they match the wire format.
func New() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Registration only fails for an empty tag or nil func
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})

	// "required" accepts whitespace-only strings; "notblank" closes that gap
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return v
}

// Check validates a request struct and converts any rule violations into a
// single *apperrors.ValidationError carrying the full (field, message) list.
// It returns nil when the struct is valid.
func Check(v *validator.Validate, req any) error {
	err := v.Struct(req)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		// validator.InvalidValidationError: programming error, not user input
		return apperrors.NewInternalError("request validation failed", err)
	}

	fieldErrors := make([]apperrors.FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		fieldErrors = append(fieldErrors, apperrors.FieldError{
			Field:   fe.Field(),
			Message: messageFor(fe),
		})
	}
	return apperrors.NewValidationError(fieldErrors...)
}

// messageFor maps a failed rule to a human-readable message.
func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required.", fe.Field())
	case "max":
		return fmt.Sprintf("%s must not exceed %s characters.", fe.Field(), fe.Param())
	case "email", "phone":
		return fmt.Sprintf("%s format is invalid.", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid.", fe.Field())
	}
}

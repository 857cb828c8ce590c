package wizard

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ValidationError is a local, synchronous validation failure. It blocks a
// transition or a submission and never reaches the network.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidation reports whether err is a local validation failure.
func IsValidation(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validateBasics(d *Draft) error {
	switch {
	case strings.TrimSpace(d.Title) == "":
		return &ValidationError{Field: "title", Message: "Job title is required"}
	case strings.TrimSpace(d.Description) == "":
		return &ValidationError{Field: "description", Message: "Job description is required"}
	case strings.TrimSpace(d.Location) == "":
		return &ValidationError{Field: "location", Message: "Location is required"}
	}
	return nil
}

// validateForSubmit runs every check a draft must pass before it is sent.
func validateForSubmit(d *Draft, now time.Time) error {
	if err := validateBasics(d); err != nil {
		return err
	}

	if len(d.RequiredSkills) == 0 {
		return &ValidationError{Field: "required_skills", Message: "At least one required skill is needed"}
	}

	if err := validate.Struct(d); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return fieldError(fieldErrs[0])
		}
		return fmt.Errorf("validate draft: %w", err)
	}

	if d.SalaryMin != nil && d.SalaryMax != nil && *d.SalaryMin > *d.SalaryMax {
		return &ValidationError{Field: "salary_max", Message: "Maximum salary must be greater than or equal to minimum salary"}
	}

	if strings.TrimSpace(d.ExpiresAt) != "" {
		expires, err := endOfDay(d.ExpiresAt)
		if err != nil {
			return &ValidationError{Field: "expires_at", Message: "Expiry date must be a valid date (YYYY-MM-DD)"}
		}
		if !expires.After(now) {
			return &ValidationError{Field: "expires_at", Message: "Expiry date must be in the future"}
		}
	}

	return nil
}

func fieldError(fe validator.FieldError) *ValidationError {
	field := fe.Field()
	var msg string
	switch fe.Tag() {
	case "gte":
		msg = fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		msg = fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		msg = fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		msg = fmt.Sprintf("%s is invalid", field)
	}
	return &ValidationError{Field: field, Message: msg}
}

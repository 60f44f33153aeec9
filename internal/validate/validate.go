// Package validate checks the login and registration forms before anything is sent.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	addressRegex   = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	upperRegex     = regexp.MustCompile(`[A-Z]`)
	lowerRegex     = regexp.MustCompile(`[a-z]`)
	digitRegex     = regexp.MustCompile(`[0-9]`)
	specialRegex   = regexp.MustCompile(`[^A-Za-z0-9]`)
	passwordChecks = []struct {
		re      *regexp.Regexp
		message string
	}{
		{upperRegex, "Must contain at least one uppercase letter."},
		{lowerRegex, "Must contain at least one lowercase letter."},
		{digitRegex, "Must contain at least one number."},
		{specialRegex, "Must contain at least one special character."},
	}
)

// FieldError is one failed field with the message shown next to it.
type FieldError struct {
	Field   string
	Message string
}

// Errors collects every failed field of a form, in field order.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		msgs = append(msgs, fe.Field+": "+fe.Message)
	}
	return strings.Join(msgs, "; ")
}

// Field returns the message for field, if it failed.
func (e Errors) Field(field string) (string, bool) {
	for _, fe := range e {
		if fe.Field == field {
			return fe.Message, true
		}
	}
	return "", false
}

// Validator wraps a configured go-playground validator.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// registration of static validators only fails on an empty tag
	_ = validate.RegisterValidation("address", func(fl validator.FieldLevel) bool {
		return addressRegex.MatchString(fl.Field().String())
	})
	_ = validate.RegisterValidation("complex", func(fl validator.FieldLevel) bool {
		return PasswordProblem(fl.Field().String()) == ""
	})

	return &Validator{validate: validate}
}

// Struct validates a form. It returns Errors when a field fails, nil when the form is valid.
func (v *Validator) Struct(form any) error {
	err := v.validate.Struct(form)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fmt.Errorf("failed to validate form: %w", err)
	}

	result := make(Errors, 0, len(validationErrs))
	for _, fe := range validationErrs {
		result = append(result, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return result
}

// PasswordProblem returns the first unmet complexity rule, or "" when the password is acceptable.
// Length is checked separately by the min tag.
func PasswordProblem(password string) string {
	for _, check := range passwordChecks {
		if !check.re.MatchString(password) {
			return check.message
		}
	}
	return ""
}

func message(fe validator.FieldError) string {
	label := labels[fe.Field()]
	if label == "" {
		label = fe.Field()
	}

	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	case "oneof":
		return label + " must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "address":
		return "Enter a valid email"
	case "complex":
		return PasswordProblem(fmt.Sprint(fe.Value()))
	default:
		return label + " is invalid"
	}
}

var labels = map[string]string{
	"firstName": "First Name",
	"lastName":  "Last Name",
	"role":      "Role",
	"managerId": "Manager",
	"email":     "Email",
	"password":  "Password",
}

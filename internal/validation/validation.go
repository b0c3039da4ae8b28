// Package validation checks request payloads before they reach the services.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Password length bounds. bcrypt ignores bytes past 72.
const (
	MinPasswordLength = 6
	MaxPasswordLength = 72
)

var usernameRegex = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9_.-]*[A-Za-z0-9])?$`)

// Validate is the shared validator instance. Field names in errors are the
// JSON names of the struct fields.
var Validate *validator.Validate

func init() {
	Validate = validator.New(validator.WithRequiredStructEnabled())

	Validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	_ = Validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRegex.MatchString(fl.Field().String())
	})
}

// Struct validates v against its `validate` tags and returns the first
// failure as a readable message.
func Struct(v any) error {
	err := Validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return errors.New(message(fieldErrs[0]))
	}
	return err
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return "Invalid email address"
	case "username":
		return "Username may only contain letters, numbers, dots, dashes and underscores"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", humanize(field), fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", humanize(field), fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", humanize(field), fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", humanize(field), fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", humanize(field))
	default:
		return fmt.Sprintf("%s is invalid", humanize(field))
	}
}

func humanize(field string) string {
	if field == "" {
		return field
	}
	return strings.ToUpper(field[:1]) + field[1:]
}

// ValidateUsername checks length and allowed characters.
func ValidateUsername(username string) error {
	if err := Validate.Var(username, "min=3,max=30"); err != nil {
		return errors.New("Username must be 3-30 characters")
	}
	if !usernameRegex.MatchString(username) {
		return errors.New("Username may only contain letters, numbers, dots, dashes and underscores")
	}
	return nil
}

// ValidateEmail checks the address is well formed.
func ValidateEmail(email string) error {
	if err := Validate.Var(email, "required,email,max=254"); err != nil {
		return errors.New("Invalid email address")
	}
	return nil
}

// ValidatePassword enforces the length bounds only.
func ValidatePassword(password string) error {
	n := len(password)
	if n < MinPasswordLength {
		return fmt.Errorf("Password must be at least %d characters", MinPasswordLength)
	}
	if n > MaxPasswordLength {
		return fmt.Errorf("Password must be at most %d characters", MaxPasswordLength)
	}
	return nil
}

package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/99minutos/identity-api/internal/core/domain"
)

// fieldMessages holds the client-facing message per field and failing tag.
// The "*" entry applies to any tag of that field.
var fieldMessages = map[string]map[string]string{
	"firstName":  {"*": "First Name is required"},
	"lastName":   {"*": "Last Name is required"},
	"email":      {"*": "Please provide a valid email."},
	"username":   {"notemail": "Username cannot be an email.", "*": "Please provide a username with at least 4 characters."},
	"password":   {"*": "Password must be 6 characters or more."},
	"credential": {"*": "Email or username is required"},
}

// loginPasswordMessage overrides the password message on the login form.
const loginPasswordMessage = "Please provide a password."

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notemail", func(fl validator.FieldLevel) bool {
		return v.Var(fl.Field().String(), "email") != nil
	})
	return &echoValidator{v: v}
}

// Validate satisfies the echo.Validator interface. Failures are returned as a
// validation domain.Error keyed by JSON field name.
func (ev *echoValidator) Validate(i any) error {
	err := ev.v.Struct(i)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	_, isLogin := i.(*loginRequest)
	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		if isLogin && fe.Field() == "password" {
			fields["password"] = loginPasswordMessage
			continue
		}
		fields[fe.Field()] = fieldError(fe)
	}
	return domain.NewValidationError(fields)
}

// fieldError converts a single ValidationError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	if msgs, ok := fieldMessages[fe.Field()]; ok {
		if msg, ok := msgs[fe.Tag()]; ok {
			return msg
		}
		if msg, ok := msgs["*"]; ok {
			return msg
		}
	}
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

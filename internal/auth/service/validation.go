package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/AlibekovAA/credential-service/internal/common/constants"
)

// ValidationError names the first registration field that failed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func AsValidationError(err error) (*ValidationError, bool) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}

// Field order is the reporting order.
type registrationRules struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email,dotteddomain"`
	Password string `json:"password" validate:"required,min=8"`
}

type CredentialValidator struct {
	validate *validator.Validate
}

func NewCredentialValidator() CredentialValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	// Registration only fails on an empty tag name or nil func, both constant here.
	_ = v.RegisterValidation("dotteddomain", validateDottedDomain)

	return CredentialValidator{validate: v}
}

// Validate checks the input and returns it unchanged when valid. Usernames and
// emails are not case-folded or trimmed.
func (cv CredentialValidator) Validate(input RegisterInput) (RegisterInput, error) {
	err := cv.validate.Struct(registrationRules{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
	})
	if err == nil {
		return input, nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return RegisterInput{}, &ValidationError{Field: "input", Reason: "is invalid"}
	}

	first := fieldErrs[0]
	return RegisterInput{}, &ValidationError{
		Field:  first.Field(),
		Reason: reasonFor(first.Tag()),
	}
}

func reasonFor(tag string) string {
	switch tag {
	case "required":
		return "is required"
	case "email", "dotteddomain":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %d characters", constants.PasswordMinLength)
	default:
		return "is invalid"
	}
}

func validateDottedDomain(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	at := strings.LastIndex(value, "@")
	if at < 1 || at == len(value)-1 {
		return false
	}
	domain := value[at+1:]
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1
}

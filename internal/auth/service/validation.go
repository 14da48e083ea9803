package service

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// emailRegex mirrors the classic local@domain.tld check: no whitespace or
// extra @, at least one dot segment after the @.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	_ = v.RegisterValidation("emailformat", func(fl validator.FieldLevel) bool {
		return emailRegex.MatchString(strings.TrimSpace(fl.Field().String()))
	})

	return v
}

type signupFields struct {
	Username string `validate:"required,notblank"`
	Email    string `validate:"required,notblank,emailformat"`
	Password string `validate:"required,notblank"`
}

type loginFields struct {
	Email    string `validate:"required,notblank"`
	Password string `validate:"required,notblank"`
}

var signupFieldMessages = map[string]string{
	"Username": "username is required and must be a non-empty string",
	"Email":    "email is required and must be a non-empty string",
	"Password": "password is required and must be a non-empty string",
}

func validateSignup(username, email, password string) error {
	err := validate.Struct(signupFields{
		Username: username,
		Email:    email,
		Password: password,
	})
	return mapFieldErrors(err)
}

func validateLogin(email, password string) error {
	err := validate.Struct(loginFields{
		Email:    email,
		Password: password,
	})
	return mapFieldErrors(err)
}

func mapFieldErrors(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return ErrValidation.WithCause(err)
	}

	fe := fieldErrs[0]
	if fe.Tag() == "emailformat" {
		return ErrValidation.WithMessage("invalid email format")
	}
	if msg, ok := signupFieldMessages[fe.Field()]; ok {
		return ErrValidation.WithMessage(msg)
	}
	return ErrValidation
}

package service

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return v
}

// goalFields covers create and update alike: updates are full replaces, so
// every field is required both times.
type goalFields struct {
	Title       string `validate:"required,notblank"`
	Description string `validate:"required,notblank"`
	StartDate   string `validate:"required,notblank"`
	TargetDate  string `validate:"required,notblank"`
}

var goalFieldMessages = map[string]string{
	"Title":       "title is required and must be a non-empty string",
	"Description": "description is required and must be a non-empty string",
	"StartDate":   "start date is required and must be a non-empty string",
	"TargetDate":  "target date is required and must be a non-empty string",
}

func validateGoalFields(input GoalInput) error {
	err := validate.Struct(goalFields{
		Title:       input.Title,
		Description: input.Description,
		StartDate:   input.StartDate,
		TargetDate:  input.TargetDate,
	})
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return ErrValidation.WithCause(err)
	}

	if msg, ok := goalFieldMessages[fieldErrs[0].Field()]; ok {
		return ErrValidation.WithMessage(msg)
	}
	return ErrValidation
}

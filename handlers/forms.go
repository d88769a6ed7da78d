package handlers

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("form")
	})
	return v
}

var fieldLabels = map[string]string{
	"username":     "username",
	"email":        "email address",
	"password":     "password",
	"display_name": "display name",
	"bio":          "bio",
}

type registerForm struct {
	Username string `form:"username" validate:"required,max=50"`
	Email    string `form:"email" validate:"required,email,max=255"`
	Password string `form:"password" validate:"required"`
}

type loginForm struct {
	Email    string `form:"email" validate:"required"`
	Password string `form:"password" validate:"required"`
}

type postForm struct {
	Content string `form:"content" validate:"required,max=200"`
}

type profileForm struct {
	DisplayName string `form:"display_name" validate:"max=100"`
	Bio         string `form:"bio"`
}

func firstFieldError(form interface{}) (validator.FieldError, error) {
	err := validate.Struct(form)
	if err == nil {
		return nil, nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return nil, err
	}
	return fieldErrs[0], nil
}

// problem returns a message for the first failing field, or "" when the
// form is valid.
func problem(form interface{}) string {
	fe, err := firstFieldError(form)
	if err != nil {
		return "The submitted form is invalid."
	}
	if fe == nil {
		return ""
	}

	label := fieldLabels[fe.Field()]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Please enter your %s.", label)
	case "email":
		return "Please enter a valid email address."
	case "max":
		return fmt.Sprintf("Your %s must be %s characters or less.", label, fe.Param())
	default:
		return fmt.Sprintf("Your %s is invalid.", label)
	}
}

func (f postForm) contentProblem() string {
	fe, err := firstFieldError(f)
	switch {
	case err != nil:
		return "The submitted form is invalid."
	case fe == nil:
		return ""
	case fe.Tag() == "required":
		return "Message content cannot be empty."
	default:
		return "Message content must be 200 characters or less."
	}
}

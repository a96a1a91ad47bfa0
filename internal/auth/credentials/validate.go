package credentials

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"member-portal/internal/users"
)

type SignupInput struct {
	Name     string `form:"name" validate:"required,alphanum,min=3,max=20"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=6,max=30"`
}

type LoginInput struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=6,max=30"`
}

// ValidationError describes the first field that failed validation.
type ValidationError struct {
	Field   string
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return &Validator{v: v}
}

// Signup checks a signup form and returns it with the email normalised.
func (v *Validator) Signup(in SignupInput) (SignupInput, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := v.check(in); err != nil {
		return SignupInput{}, err
	}
	in.Email = users.NormalizeEmail(in.Email)
	return in, nil
}

func (v *Validator) Login(in LoginInput) (LoginInput, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := v.check(in); err != nil {
		return LoginInput{}, err
	}
	in.Email = users.NormalizeEmail(in.Email)
	return in, nil
}

func (v *Validator) check(in any) error {
	err := v.v.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	return &ValidationError{
		Field:   fe.Field(),
		Rule:    fe.Tag(),
		Message: message(fe),
	}
}

func message(fe validator.FieldError) string {
	field := fmt.Sprintf("%q", fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is not allowed to be empty"
	case "alphanum":
		return field + " must only contain alpha-numeric characters"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s length must be at least %s characters long", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s length must be less than or equal to %s characters long", field, fe.Param())
	default:
		return field + " is invalid"
	}
}

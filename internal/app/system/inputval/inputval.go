// Package inputval validates request input structs. Rules are declared
// with `validate` tags and human-readable labels with `label` tags:
//
//	type CreateGroupInput struct {
//		Name string `validate:"required,min=3,max=100" label:"Group name"`
//	}
//
// Validate returns a Result whose messages are safe to show to callers.
package inputval

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError is one failed rule on one field.
type FieldError struct {
	Field   string
	Message string
}

// Result collects the validation errors for one input struct.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any rule failed.
func (r *Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first error message, or "" when validation passed.
func (r *Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// All joins every error message with "; ".
func (r *Result) All() string {
	if len(r.Errors) == 0 {
		return ""
	}
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

// Add appends an error produced outside the tag rules.
func (r *Result) Add(field, message string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Message: message})
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their label tag so messages read naturally.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if label := fld.Tag.Get("label"); label != "" {
			return label
		}
		return fld.Name
	})

	mustRegister(v, "objectid", func(fl validator.FieldLevel) bool {
		return IsValidObjectID(fl.Field().String())
	})
	mustRegister(v, "grouprole", func(fl validator.FieldLevel) bool {
		return IsValidGroupRole(fl.Field().String())
	})
	mustRegister(v, "visibility", func(fl validator.FieldLevel) bool {
		return IsValidVisibility(fl.Field().String())
	})
	mustRegister(v, "httpurl", func(fl validator.FieldLevel) bool {
		return IsValidHTTPURL(fl.Field().String())
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("inputval: register %q: %v", tag, err))
	}
}

// Validate runs the tag rules on input and returns the collected errors.
func Validate(input any) *Result {
	res := &Result{}

	err := validate.Struct(input)
	if err == nil {
		return res
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		res.Add("", "Invalid input.")
		return res
	}

	for _, fe := range verrs {
		res.Errors = append(res.Errors, FieldError{
			Field:   fe.Field(),
			Message: messageFor(fe),
		})
	}
	return res
}

func messageFor(fe validator.FieldError) string {
	label := fe.Field()

	switch fe.Tag() {
	case "required":
		return label + " is required."
	case "email":
		return "A valid email address is required."
	case "min":
		if isLength(fe) {
			return fmt.Sprintf("%s must be at least %s characters.", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s.", label, fe.Param())
	case "max":
		if isLength(fe) {
			return fmt.Sprintf("%s must be at most %s characters.", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s.", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s.", label, strings.Join(strings.Fields(fe.Param()), ", "))
	case "objectid":
		return label + " must be a valid id."
	case "grouprole":
		return label + " must be one of: creator, admin, member."
	case "visibility":
		return label + " must be either public or private."
	case "httpurl":
		return label + " must be a valid http(s) URL."
	default:
		return label + " is invalid."
	}
}

// isLength reports whether min/max applied to a string or slice, where the
// parameter counts characters or items rather than a numeric bound.
func isLength(fe validator.FieldError) bool {
	switch fe.Kind() {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		return true
	default:
		return false
	}
}

// Package inputval validates form input structs using `validate` tags,
// producing user-facing messages built from the `label` tags.
//
// Example:
//
//	type signupInput struct {
//	    Name string `validate:"required,max=200" label:"Name"`
//	    City string `validate:"required,max=100" label:"City"`
//	}
//
//	if result := inputval.Validate(input); result.HasErrors() {
//	    renderWithError(result.First())
//	}
package inputval

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once sync.Once
	v    *validator.Validate
)

func validate() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
	})
	return v
}

// FieldError is a single validation failure with a user-facing message.
type FieldError struct {
	Field   string // struct field name
	Label   string // from the label tag, falls back to the field name
	Message string
}

// Result collects validation failures for one input struct.
type Result struct {
	errors []FieldError
}

// HasErrors reports whether any field failed validation.
func (r Result) HasErrors() bool { return len(r.errors) > 0 }

// First returns the first error message, or "" when validation passed.
func (r Result) First() string {
	if len(r.errors) == 0 {
		return ""
	}
	return r.errors[0].Message
}

// Errors returns all field errors in declaration order.
func (r Result) Errors() []FieldError { return r.errors }

// Validate checks the struct's `validate` tags and returns a Result with
// messages phrased using the `label` tags.
func Validate(input any) Result {
	err := validate().Struct(input)
	if err == nil {
		return Result{}
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return Result{errors: []FieldError{{Message: "Invalid input."}}}
	}

	t := reflect.TypeOf(input)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	var out []FieldError
	for _, fe := range verrs {
		label := fe.Field()
		if f, found := t.FieldByName(fe.StructField()); found {
			if l := f.Tag.Get("label"); l != "" {
				label = l
			}
		}
		out = append(out, FieldError{
			Field:   fe.StructField(),
			Label:   label,
			Message: message(label, fe),
		})
	}
	return Result{errors: out}
}

func message(label string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return label + " is required."
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", label, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters.", label, fe.Param())
	case "email":
		return label + " must be a valid email address."
	case "url":
		return label + " must be a valid URL."
	case "gt":
		return fmt.Sprintf("%s must be greater than %s.", label, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s.", label, fe.Param())
	default:
		return label + " is invalid."
	}
}

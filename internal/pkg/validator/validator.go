package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// NonField is the key used for errors that do not belong to a single field.
const NonField = "non_field_errors"

// FieldErrors maps a JSON field name to a human readable message.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, f[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (f FieldErrors) Add(field, message string) {
	if _, exists := f[field]; !exists {
		f[field] = message
	}
}

// OrNil returns nil when nothing was collected so callers can return it as an error.
func (f FieldErrors) OrNil() error {
	if len(f) == 0 {
		return nil
	}
	return f
}

var validate *validator.Validate

// Gin's binding validator reports JSON field names too, for every router
// that imports this package.
func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(jsonName)
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonName)
	}
}

// Validate struct fields
func Validate(v interface{}) FieldErrors {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	return FromError(err)
}

// FromError converts a binding or decoding error into field errors.
func FromError(err error) FieldErrors {
	out := FieldErrors{}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			out.Add(fe.Field(), message(fe))
		}
		return out
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		out.Add(typeErr.Field, "Incorrect type.")
		return out
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		out.Add(NonField, "Invalid request body")
		return out
	}

	out.Add(NonField, err.Error())
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "oneof":
		return fmt.Sprintf("%q is not a valid choice.", fmt.Sprint(fe.Value()))
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "datetime":
		return fmt.Sprintf("Time has wrong format. Use %s.", fe.Param())
	case "eqfield":
		return fmt.Sprintf("Must match %s.", fe.Param())
	}
	return fmt.Sprintf("Failed on the %q rule.", fe.Tag())
}

func jsonName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

package validator

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"dancestudio/internal/pkg/apperr"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.SetTagName("binding")
	// report fields by their JSON names
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	binding.Validator = ginValidator{}
}

// ginValidator lets gin binding share the same engine and field naming.
type ginValidator struct{}

func (ginValidator) ValidateStruct(obj any) error {
	if obj == nil {
		return nil
	}
	v := reflect.ValueOf(obj)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}
	return validate.Struct(v.Interface())
}

func (ginValidator) Engine() any { return validate }

// Validate struct fields
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": err.Error()}
	}

	errs := make(map[string]string)
	for _, fe := range verrs {
		errs[fe.Field()] = fe.Tag()
	}
	return errs
}

// Struct validates v and returns a ValidationError naming the offending
// fields, or nil.
func Struct(v interface{}) error {
	errs := Validate(v)
	if len(errs) == 0 {
		return nil
	}
	return apperr.Validation("%s", describe(errs))
}

// BindingError converts a gin binding failure into a ValidationError.
func BindingError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		errs := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			errs[fe.Field()] = fe.Tag()
		}
		return apperr.Validation("%s", describe(errs))
	}
	return apperr.Validation("Invalid request body")
}

func describe(errs map[string]string) string {
	parts := make([]string, 0, len(errs))
	for field, tag := range errs {
		switch tag {
		case "required":
			parts = append(parts, field+" is required")
		default:
			parts = append(parts, field+" is invalid ("+tag+")")
		}
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}

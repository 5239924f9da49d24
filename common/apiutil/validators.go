package apiutil

import (
	"reflect"
	"strings"
	"sync"

	"github.com/Aidin1998/minitask/common/errors"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// NewValidator builds a validator that reads `binding` tags and reports
// fields by their JSON names.
func NewValidator() *Validator {
	return &Validator{}
}

// Validator implements gin's binding.StructValidator and turns field
// failures into Validation errors.
type Validator struct {
	once      sync.Once
	validator *validator.Validate
}

var _ binding.StructValidator = (*Validator)(nil)

func (v *Validator) lazyInit() {
	v.once.Do(func() {
		v.validator = validator.New(validator.WithRequiredStructEnabled())
		v.validator.SetTagName("binding")
		v.validator.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// ValidateStruct validates structs and pointers to structs; anything else passes
func (v *Validator) ValidateStruct(obj any) error {
	if obj == nil {
		return nil
	}
	value := reflect.ValueOf(obj)
	for value.Kind() == reflect.Ptr {
		if value.IsNil() {
			return nil
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil
	}
	return v.Validate(obj)
}

// Engine exposes the underlying validator
func (v *Validator) Engine() any {
	v.lazyInit()
	return v.validator
}

// Validate checks i and returns an errors.Invalid describing each failed field
func (v *Validator) Validate(i interface{}) error {
	v.lazyInit()

	err := v.validator.Struct(i)
	if err == nil {
		return nil
	}

	var fieldsError validator.ValidationErrors
	if !errors.As(err, &fieldsError) {
		return errors.Invalid.Explain("validation error").Wrap(err)
	}

	messages := make([]string, 0, len(fieldsError))
	for _, fieldErr := range fieldsError {
		switch fieldErr.Tag() {
		case "required":
			messages = append(messages, fieldErr.Field()+" is required")
		default:
			messages = append(messages, fieldErr.Field()+" is invalid")
		}
	}
	return errors.Invalid.Explain("%s", strings.Join(messages, "; ")).Wrap(err)
}

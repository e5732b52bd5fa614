package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Schema runs struct-tag rules and reports failures by JSON field name.
// A Schema is safe for concurrent use.
type Schema struct {
	v *validator.Validate
}

// NewSchema returns a Schema with the custom validators registered.
func NewSchema() *Schema {
	v := validator.New()
	RegisterValidators(v)
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return &Schema{v: v}
}

// Validate returns nil when candidate satisfies its rules.
func (s *Schema) Validate(candidate any) FieldErrors {
	if err := s.v.Struct(candidate); err != nil {
		return FormatValidationErrors(err)
	}
	return nil
}

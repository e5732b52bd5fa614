package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps wire field names to user-facing labels
var FieldLabels = map[string]string{
	"name":           "Name",
	"email":          "Email",
	"projectDetails": "Project description",
}

// FieldErrors holds one message per failing field, keyed by wire field name.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, fe[k]))
	}
	return strings.Join(parts, "; ")
}

// Has reports whether field failed validation
func (fe FieldErrors) Has(field string) bool {
	_, ok := fe[field]
	return ok
}

// FormatValidationErrors converts validator.ValidationErrors to per-field messages
func FormatValidationErrors(err error) FieldErrors {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return FieldErrors{"_": err.Error()}
	}

	fields := make(FieldErrors, len(validationErrors))
	for _, e := range validationErrors {
		// validator reports at most one failing tag per field
		fields[e.Field()] = formatSingleError(e)
	}
	return fields
}

// formatSingleError formats a single validation error to a user-friendly message
func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)

	case "not_blank":
		return fmt.Sprintf("%s must not be blank", label)

	case "email":
		return "Invalid email address"

	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, param)

	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, param)

	case "single_line":
		return fmt.Sprintf("%s must fit on a single line", label)

	default:
		return fmt.Sprintf("%s is invalid (%s)", label, e.Tag())
	}
}

// getFieldLabel returns the user-friendly label for a field
func getFieldLabel(field string) string {
	if label, ok := FieldLabels[field]; ok {
		return label
	}
	return formatCamelCase(field)
}

// formatCamelCase converts camelCase to spaced words, capitalising the first
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i == 0 {
			result.WriteString(strings.ToUpper(string(r)))
			continue
		}
		if r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
			result.WriteString(strings.ToLower(string(r)))
			continue
		}
		result.WriteRune(r)
	}
	return result.String()
}

package domain_test

import (
	"testing"

	"studio-inquiry-backend/internal/domain"
	"studio-inquiry-backend/pkg/validation"

	"github.com/stretchr/testify/assert"
)

func TestValidateInquiryTrimsBeforeRules(t *testing.T) {
	schema := validation.NewSchema()

	normalized, fields := domain.ValidateInquiry(schema, domain.InquiryInput{
		Name:           "   ",
		Email:          " jane@example.com ",
		ProjectDetails: "\t\n",
	})
	assert.Equal(t, validation.FieldErrors{
		"name":           "Name is required",
		"projectDetails": "Project description is required",
	}, fields)
	assert.Equal(t, "jane@example.com", normalized.Email)

	normalized, fields = domain.ValidateInquiry(schema, domain.InquiryInput{
		Name:           " Jane ",
		Email:          "jane@example.com",
		ProjectDetails: " A pavilion ",
	})
	assert.Nil(t, fields)
	assert.Equal(t, domain.InquiryInput{Name: "Jane", Email: "jane@example.com", ProjectDetails: "A pavilion"}, normalized)
}

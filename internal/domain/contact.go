package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"studio-inquiry-backend/pkg/validation"

	"github.com/google/uuid"
)

// Common domain errors
var ErrNotFound = errors.New("resource not found")

// InquiryInput is the candidate record submitted through the contact form.
// Its tags are the single definition of what a valid inquiry is; both the
// endpoint and the submission client validate through ValidateInquiry, which
// trims first, so whitespace-only values fail "required".
type InquiryInput struct {
	Name           string `json:"name" validate:"required,single_line,max=120"`
	Email          string `json:"email" validate:"required,email,max=254"`
	ProjectDetails string `json:"projectDetails" validate:"required,max=5000"`
}

// Normalize trims surrounding whitespace from every field.
func (in InquiryInput) Normalize() InquiryInput {
	return InquiryInput{
		Name:           strings.TrimSpace(in.Name),
		Email:          strings.TrimSpace(in.Email),
		ProjectDetails: strings.TrimSpace(in.ProjectDetails),
	}
}

// ValidateInquiry normalizes in and checks it against schema. It returns the
// normalized record and nil, or the per-field failures.
func ValidateInquiry(schema *validation.Schema, in InquiryInput) (InquiryInput, validation.FieldErrors) {
	normalized := in.Normalize()
	if fields := schema.Validate(normalized); len(fields) > 0 {
		return normalized, fields
	}
	return normalized, nil
}

// ContactInquiry is a persisted inquiry. It is never mutated after creation.
type ContactInquiry struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	ProjectDetails string    `json:"projectDetails"`
	CreatedAt      time.Time `json:"createdAt"`
}

// NewContactInquiry stamps a validated input with a fresh ID and creation time.
func NewContactInquiry(in InquiryInput, now time.Time) *ContactInquiry {
	return &ContactInquiry{
		ID:             uuid.New(),
		Name:           in.Name,
		Email:          in.Email,
		ProjectDetails: in.ProjectDetails,
		CreatedAt:      now.UTC(),
	}
}

// InquiryRepository is the persistence boundary for inquiries.
// Implementations must tolerate concurrent Create calls.
type InquiryRepository interface {
	Create(ctx context.Context, inquiry *ContactInquiry) error
	GetByID(ctx context.Context, id uuid.UUID) (*ContactInquiry, error)
	Ping(ctx context.Context) error
}

// InquiryNotifier is told about each inquiry after it has been stored.
type InquiryNotifier interface {
	NotifyInquiry(ctx context.Context, inquiry *ContactInquiry) error
}

// ContactUsecase defines the interface for contact form operations
type ContactUsecase interface {
	// SubmitInquiry validates and stores one inquiry
	SubmitInquiry(ctx context.Context, in InquiryInput) (*ContactInquiry, error)
	// WaitNotifications blocks until notifications started by SubmitInquiry finish
	WaitNotifications(ctx context.Context) error
}

type HealthUsecase interface {
	Check(ctx context.Context) (map[string]string, error)
}

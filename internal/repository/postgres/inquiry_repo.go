package postgres

import (
	"context"
	"errors"
	"fmt"

	"studio-inquiry-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type inquiryRepo struct {
	db *pgxpool.Pool
}

func NewInquiryRepository(db *pgxpool.Pool) domain.InquiryRepository {
	return &inquiryRepo{db: db}
}

func (r *inquiryRepo) Create(ctx context.Context, inquiry *domain.ContactInquiry) error {
	query := `INSERT INTO contact_inquiries (id, name, email, project_details, created_at)
              VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.Exec(ctx, query,
		inquiry.ID, inquiry.Name, inquiry.Email, inquiry.ProjectDetails, inquiry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert contact inquiry: %w", err)
	}
	return nil
}

func (r *inquiryRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ContactInquiry, error) {
	query := `SELECT id, name, email, project_details, created_at FROM contact_inquiries WHERE id = $1`
	var inquiry domain.ContactInquiry
	err := r.db.QueryRow(ctx, query, id).Scan(
		&inquiry.ID, &inquiry.Name, &inquiry.Email, &inquiry.ProjectDetails, &inquiry.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &inquiry, nil
}

func (r *inquiryRepo) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

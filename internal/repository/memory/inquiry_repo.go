package memory

import (
	"context"
	"sync"

	"studio-inquiry-backend/internal/domain"

	"github.com/google/uuid"
)

// inquiryRepo is an append-only in-process store
type inquiryRepo struct {
	mu        sync.RWMutex
	inquiries []domain.ContactInquiry
	byID      map[uuid.UUID]int
}

func NewInquiryRepository() domain.InquiryRepository {
	return &inquiryRepo{byID: make(map[uuid.UUID]int)}
}

func (r *inquiryRepo) Create(ctx context.Context, inquiry *domain.ContactInquiry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[inquiry.ID] = len(r.inquiries)
	r.inquiries = append(r.inquiries, *inquiry)
	return nil
}

func (r *inquiryRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ContactInquiry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	inquiry := r.inquiries[idx]
	return &inquiry, nil
}

func (r *inquiryRepo) Ping(ctx context.Context) error {
	return ctx.Err()
}

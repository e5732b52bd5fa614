package usecase

import (
	"context"
	"fmt"

	"studio-inquiry-backend/internal/domain"
)

type healthUsecase struct {
	repo    domain.InquiryRepository
	backend string
}

func NewHealthUsecase(repo domain.InquiryRepository, backend string) domain.HealthUsecase {
	return &healthUsecase{repo: repo, backend: backend}
}

func (u *healthUsecase) Check(ctx context.Context) (map[string]string, error) {
	if err := u.repo.Ping(ctx); err != nil {
		return nil, fmt.Errorf("inquiry store unreachable: %w", err)
	}
	return map[string]string{
		"status": "ok",
		"store":  u.backend,
	}, nil
}

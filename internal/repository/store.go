// Package repository selects and opens the inquiry store backend.
package repository

import (
	"context"
	"fmt"
	"strings"

	"studio-inquiry-backend/internal/domain"
	"studio-inquiry-backend/internal/repository/memory"
	"studio-inquiry-backend/internal/repository/postgres"
	"studio-inquiry-backend/internal/repository/sqlite"
	"studio-inquiry-backend/pkg/database"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Store is the process-wide inquiry store handle, opened once at startup.
type Store struct {
	Backend   string
	Inquiries domain.InquiryRepository
	closeFn   func() error
}

// Close releases the backend connection
func (s *Store) Close() error {
	if s.closeFn == nil {
		return nil
	}
	return s.closeFn()
}

// Backend reports which backend storeURL selects, and the backend-specific DSN.
func Backend(storeURL string) (backend, dsn string, err error) {
	u := strings.TrimSpace(storeURL)
	switch {
	case u == "", u == "memory", strings.HasPrefix(u, "memory://"):
		return BackendMemory, "", nil
	case strings.HasPrefix(u, "postgres://"), strings.HasPrefix(u, "postgresql://"):
		return BackendPostgres, u, nil
	case strings.HasPrefix(u, "sqlite://"):
		path := strings.TrimPrefix(u, "sqlite://")
		if path == "" {
			return "", "", fmt.Errorf("sqlite store url needs a path, e.g. sqlite://inquiries.db")
		}
		return BackendSQLite, path, nil
	case strings.HasPrefix(u, "sqlite:"):
		return BackendSQLite, strings.TrimPrefix(u, "sqlite:"), nil
	default:
		return "", "", fmt.Errorf("unsupported inquiry store url scheme in %q", redact(u))
	}
}

// Open connects to the backend selected by storeURL.
func Open(ctx context.Context, storeURL string) (*Store, error) {
	backend, dsn, err := Backend(storeURL)
	if err != nil {
		return nil, err
	}

	switch backend {
	case BackendPostgres:
		pool, err := database.NewPostgresConnection(ctx, dsn, database.DefaultPoolOptions())
		if err != nil {
			return nil, err
		}
		return &Store{
			Backend:   backend,
			Inquiries: postgres.NewInquiryRepository(pool),
			closeFn: func() error {
				pool.Close()
				return nil
			},
		}, nil

	case BackendSQLite:
		db, err := sqlite.Open(dsn)
		if err != nil {
			return nil, err
		}
		return &Store{
			Backend:   backend,
			Inquiries: sqlite.NewInquiryRepository(db),
			closeFn:   func() error { return sqlite.Close(db) },
		}, nil

	default:
		return &Store{
			Backend:   BackendMemory,
			Inquiries: memory.NewInquiryRepository(),
		}, nil
	}
}

// redact drops everything after the scheme so credentials never reach logs
func redact(u string) string {
	if i := strings.Index(u, "://"); i >= 0 {
		return u[:i+3] + "..."
	}
	if len(u) > 8 {
		return u[:8] + "..."
	}
	return u
}

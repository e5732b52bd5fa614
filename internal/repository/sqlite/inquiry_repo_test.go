package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"studio-inquiry-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestRepo(t *testing.T) domain.InquiryRepository {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	return NewInquiryRepository(db)
}

func TestCreateAndGetByID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	in := domain.NewContactInquiry(domain.InquiryInput{
		Name:           "John Doe",
		Email:          "john@example.com",
		ProjectDetails: "Build a villa",
	}, time.Now())
	require.NoError(t, repo.Create(ctx, in))

	got, err := repo.GetByID(ctx, in.ID)
	require.NoError(t, err)
	assert.Equal(t, in.ID, got.ID)
	assert.Equal(t, "John Doe", got.Name)
	assert.Equal(t, "john@example.com", got.Email)
	assert.Equal(t, "Build a villa", got.ProjectDetails)
	assert.WithinDuration(t, in.CreatedAt, got.CreatedAt, time.Millisecond)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, repo.Ping(ctx))
}

func TestCreateDuplicateIDFails(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	in := domain.NewContactInquiry(domain.InquiryInput{Name: "A", Email: "a@b.com", ProjectDetails: "x"}, time.Now())
	require.NoError(t, repo.Create(ctx, in))
	assert.Error(t, repo.Create(ctx, in))
}

func TestConcurrentCreates(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	const n = 20
	ids := make([]uuid.UUID, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in := domain.NewContactInquiry(domain.InquiryInput{Name: "Same", Email: "a@b.com", ProjectDetails: "x"}, time.Now())
			ids[i] = in.ID
			assert.NoError(t, repo.Create(ctx, in))
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		_, err := repo.GetByID(ctx, id)
		assert.NoError(t, err)
	}
}

func TestOpenFailsWhenTableNameIsTaken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inquiries.db")

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE VIEW contact_inquiries AS SELECT 1 AS id").Error)
	require.NoError(t, Close(db))

	_, err = Open(path)
	assert.Error(t, err)
}

func TestCloseStopsPing(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	repo := NewInquiryRepository(db)

	require.NoError(t, Close(db))
	assert.Error(t, repo.Ping(context.Background()))
}

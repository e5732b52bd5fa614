package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"studio-inquiry-backend/internal/delivery/http/middleware"
	v1 "studio-inquiry-backend/internal/delivery/http/v1"
	"studio-inquiry-backend/internal/domain"
	"studio-inquiry-backend/internal/repository/memory"
	"studio-inquiry-backend/internal/usecase"
	"studio-inquiry-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRepo struct {
	domain.InquiryRepository
	creates int32
}

func (r *countingRepo) Create(ctx context.Context, inquiry *domain.ContactInquiry) error {
	atomic.AddInt32(&r.creates, 1)
	return r.InquiryRepository.Create(ctx, inquiry)
}

func newAPI(t *testing.T) (*httptest.Server, *countingRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := &countingRepo{InquiryRepository: memory.NewInquiryRepository()}
	router := v1.NewRouter(v1.RouterDeps{
		ContactUC:      usecase.NewContactUsecase(repo, validation.NewSchema(), log),
		HealthUC:       usecase.NewHealthUsecase(repo, "memory"),
		RateLimiter:    middleware.NewRateLimiter(nil, log),
		Logger:         log,
		AllowedOrigins: []string{"http://localhost:5173"},
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, repo
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd(strings.NewReader(stdin), &out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestSubmit_Success(t *testing.T) {
	srv, repo := newAPI(t)

	out, err := run(t, "", "submit", "--api", srv.URL,
		"--name", "John Doe", "--email", "john@example.com", "--details", "Build a villa")
	require.NoError(t, err)
	assert.Contains(t, out, "Thank you")
	assert.Contains(t, out, "John Doe")
	assert.Equal(t, int32(1), atomic.LoadInt32(&repo.creates))
}

func TestSubmit_DetailsFromStdin(t *testing.T) {
	srv, repo := newAPI(t)

	_, err := run(t, "A courtyard house\nwith two wings\n", "submit", "--api", srv.URL,
		"--name", "Jane", "--email", "jane@example.com", "--details", "-")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&repo.creates))
}

func TestSubmit_InvalidFieldsSkipNetwork(t *testing.T) {
	srv, repo := newAPI(t)

	out, err := run(t, "", "submit", "--api", srv.URL,
		"--name", "", "--email", "not-an-email", "--details", "x")
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, out, "Name is required")
	assert.Contains(t, out, "Invalid email address")
	assert.Equal(t, int32(0), atomic.LoadInt32(&repo.creates))
}

func TestSubmit_ServerFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Your inquiry could not be saved. Please try again later."}`))
	}))
	defer srv.Close()

	out, err := run(t, "", "submit", "--api", srv.URL,
		"--name", "John Doe", "--email", "john@example.com", "--details", "Build a villa")
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, out, "could not be saved")
}

func TestValidate(t *testing.T) {
	out, err := run(t, "", "validate", "--name", "John Doe", "--email", "john@example.com", "--details", "Build a villa")
	require.NoError(t, err)
	assert.Contains(t, out, "valid")

	out, err = run(t, "", "validate", "--name", "John Doe", "--email", "john@example.com")
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, out, "Project description is required")
}

package v1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"studio-inquiry-backend/internal/delivery/http/middleware"
	v1 "studio-inquiry-backend/internal/delivery/http/v1"
	"studio-inquiry-backend/internal/domain"
	"studio-inquiry-backend/internal/repository/memory"
	"studio-inquiry-backend/internal/usecase"
	"studio-inquiry-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingRepo records creates and can be told to fail
type countingRepo struct {
	domain.InquiryRepository
	creates int
	failErr error
	pingErr error
}

func (r *countingRepo) Create(ctx context.Context, inquiry *domain.ContactInquiry) error {
	r.creates++
	if r.failErr != nil {
		return r.failErr
	}
	return r.InquiryRepository.Create(ctx, inquiry)
}

func (r *countingRepo) Ping(ctx context.Context) error {
	if r.pingErr != nil {
		return r.pingErr
	}
	return r.InquiryRepository.Ping(ctx)
}

func newTestRouter(repo domain.InquiryRepository, contactLimit int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return v1.NewRouter(v1.RouterDeps{
		ContactUC:        usecase.NewContactUsecase(repo, validation.NewSchema(), log),
		HealthUC:         usecase.NewHealthUsecase(repo, "memory"),
		RateLimiter:      middleware.NewRateLimiter(nil, log),
		Logger:           log,
		AllowedOrigins:   []string{"http://localhost:5173"},
		RateLimitWindow:  time.Minute,
		ContactRateLimit: contactLimit,
	})
}

func postContact(t *testing.T, r http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestSubmitContactCreated(t *testing.T) {
	repo := &countingRepo{InquiryRepository: memory.NewInquiryRepository()}
	r := newTestRouter(repo, 0)

	rec := postContact(t, r, `{"name":"John Doe","email":"john@example.com","projectDetails":"Build a villa"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var got domain.ContactInquiry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "John Doe", got.Name)
	assert.Equal(t, "john@example.com", got.Email)
	assert.Equal(t, "Build a villa", got.ProjectDetails)
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.False(t, got.CreatedAt.IsZero())

	stored, err := repo.GetByID(context.Background(), got.ID)
	require.NoError(t, err)
	assert.Equal(t, "John Doe", stored.Name)
	assert.Equal(t, 1, repo.creates)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
}

func TestSubmitContactTwiceCreatesTwoRecords(t *testing.T) {
	repo := &countingRepo{InquiryRepository: memory.NewInquiryRepository()}
	r := newTestRouter(repo, 0)
	body := `{"name":"John Doe","email":"john@example.com","projectDetails":"Build a villa"}`

	first := postContact(t, r, body)
	second := postContact(t, r, body)
	require.Equal(t, http.StatusCreated, first.Code)
	require.Equal(t, http.StatusCreated, second.Code)

	var a, b domain.ContactInquiry
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &a))
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &b))
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, repo.creates)
}

func TestSubmitContactValidationFailed(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		field string
	}{
		{"empty name", `{"name":"","email":"john@example.com","projectDetails":"x"}`, "name"},
		{"bad email", `{"name":"Jane","email":"not-an-email","projectDetails":"x"}`, "email"},
		{"empty details", `{"name":"Jane","email":"jane@example.com","projectDetails":""}`, "projectDetails"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &countingRepo{InquiryRepository: memory.NewInquiryRepository()}
			r := newTestRouter(repo, 0)

			rec := postContact(t, r, tc.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var body struct {
				Errors map[string]string `json:"errors"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Contains(t, body.Errors, tc.field)
			assert.Len(t, body.Errors, 1)
			assert.Equal(t, 0, repo.creates)
		})
	}
}

func TestSubmitContactMissingFields(t *testing.T) {
	repo := &countingRepo{InquiryRepository: memory.NewInquiryRepository()}
	rec := postContact(t, newTestRouter(repo, 0), `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]string{
		"name":           "Name is required",
		"email":          "Email is required",
		"projectDetails": "Project description is required",
	}, body.Errors)
}

func TestSubmitContactMalformed(t *testing.T) {
	bodies := map[string]string{
		"not json":    `name=John`,
		"array":       `[1,2,3]`,
		"wrong types": `{"name":42,"email":"john@example.com","projectDetails":"x"}`,
		"empty":       ``,
		"too large":   `{"name":"John","email":"john@example.com","projectDetails":"` + strings.Repeat("a", middleware.MaxBodyBytes) + `"}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			repo := &countingRepo{InquiryRepository: memory.NewInquiryRepository()}
			rec := postContact(t, newTestRouter(repo, 0), body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var got map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.NotEmpty(t, got["error"])
			assert.NotContains(t, got, "errors")
			assert.Equal(t, 0, repo.creates)
		})
	}
}

func TestSubmitContactStorageUnavailable(t *testing.T) {
	repo := &countingRepo{
		InquiryRepository: memory.NewInquiryRepository(),
		failErr:           errors.New("pq: connection refused to 10.0.0.5"),
	}
	rec := postContact(t, newTestRouter(repo, 0), `{"name":"John Doe","email":"john@example.com","projectDetails":"Build a villa"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Error)
	assert.NotContains(t, body.Error, "10.0.0.5")
	assert.Equal(t, 1, repo.creates)
}

func TestSubmitContactRateLimited(t *testing.T) {
	repo := &countingRepo{InquiryRepository: memory.NewInquiryRepository()}
	r := newTestRouter(repo, 2)
	body := `{"name":"John Doe","email":"john@example.com","projectDetails":"Build a villa"}`

	assert.Equal(t, http.StatusCreated, postContact(t, r, body).Code)
	assert.Equal(t, http.StatusCreated, postContact(t, r, body).Code)

	rec := postContact(t, r, body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, 2, repo.creates)
}

func TestHealth(t *testing.T) {
	repo := &countingRepo{InquiryRepository: memory.NewInquiryRepository()}
	r := newTestRouter(repo, 0)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","store":"memory"}`, rec.Body.String())

	repo.pingErr = errors.New("down")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"error":"Inquiry store unavailable"}`, rec.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	r := newTestRouter(memory.NewInquiryRepository(), 0)

	req := httptest.NewRequest(http.MethodOptions, "/api/contact", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/contact", nil)
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDPropagated(t *testing.T) {
	r := newTestRouter(memory.NewInquiryRepository(), 0)

	req := httptest.NewRequest(http.MethodPost, "/api/contact", bytes.NewBufferString(`{}`))
	req.Header.Set(middleware.RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "req-123", rec.Header().Get(middleware.RequestIDHeader))
}

func TestUnknownRoute(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(memory.NewInquiryRepository(), 0).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/projects", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Not found"}`, rec.Body.String())
}

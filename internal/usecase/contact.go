package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"studio-inquiry-backend/internal/domain"
	"studio-inquiry-backend/pkg/apperror"
	"studio-inquiry-backend/pkg/validation"
)

type contactUsecase struct {
	repo         domain.InquiryRepository
	schema       *validation.Schema
	notifier     domain.InquiryNotifier
	log          *slog.Logger
	writeTimeout  time.Duration
	notifyTimeout time.Duration
	now           func() time.Time

	pending sync.WaitGroup
}

// DefaultNotifyTimeout bounds one studio notification
const DefaultNotifyTimeout = 30 * time.Second

// ContactOption customises the contact usecase
type ContactOption func(*contactUsecase)

// WithNotifier sends a notification after every stored inquiry
func WithNotifier(n domain.InquiryNotifier) ContactOption {
	return func(uc *contactUsecase) { uc.notifier = n }
}

// WithWriteTimeout bounds the store write. Zero leaves it to the request context.
func WithWriteTimeout(d time.Duration) ContactOption {
	return func(uc *contactUsecase) { uc.writeTimeout = d }
}

// WithNotifyTimeout bounds each notification, which runs after the response
func WithNotifyTimeout(d time.Duration) ContactOption {
	return func(uc *contactUsecase) { uc.notifyTimeout = d }
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) ContactOption {
	return func(uc *contactUsecase) { uc.now = now }
}

// NewContactUsecase creates a new contact usecase
func NewContactUsecase(repo domain.InquiryRepository, schema *validation.Schema, log *slog.Logger, opts ...ContactOption) domain.ContactUsecase {
	uc := &contactUsecase{
		repo:          repo,
		schema:        schema,
		log:           log,
		notifyTimeout: DefaultNotifyTimeout,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// SubmitInquiry validates the input, stores it and notifies the studio.
// Each successful call stores exactly one new record.
func (uc *contactUsecase) SubmitInquiry(ctx context.Context, in domain.InquiryInput) (*domain.ContactInquiry, error) {
	normalized, fields := domain.ValidateInquiry(uc.schema, in)
	if fields != nil {
		return nil, apperror.ValidationFailed(fields)
	}

	inquiry := domain.NewContactInquiry(normalized, uc.now())

	writeCtx := ctx
	if uc.writeTimeout > 0 {
		var cancel context.CancelFunc
		writeCtx, cancel = context.WithTimeout(ctx, uc.writeTimeout)
		defer cancel()
	}

	// No retry here: the caller owns the decision to resubmit
	if err := uc.repo.Create(writeCtx, inquiry); err != nil {
		uc.log.Error("Failed to store inquiry",
			"error", err,
			"request_id", requestID(ctx),
		)
		return nil, apperror.StorageUnavailable(err)
	}

	uc.log.Info("Inquiry stored",
		"inquiry_id", inquiry.ID.String(),
		"request_id", requestID(ctx),
	)

	if uc.notifier != nil {
		uc.pending.Add(1)
		go uc.notify(context.WithoutCancel(ctx), inquiry)
	}

	return inquiry, nil
}

// notify runs detached from the request, bounded by notifyTimeout.
func (uc *contactUsecase) notify(ctx context.Context, inquiry *domain.ContactInquiry) {
	defer uc.pending.Done()

	if uc.notifyTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.notifyTimeout)
		defer cancel()
	}
	if err := uc.notifier.NotifyInquiry(ctx, inquiry); err != nil {
		uc.log.Warn("Failed to send inquiry notification",
			"error", err,
			"inquiry_id", inquiry.ID.String(),
			"request_id", requestID(ctx),
		)
	}
}

// WaitNotifications blocks until in-flight notifications finish or ctx is done.
func (uc *contactUsecase) WaitNotifications(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		uc.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(domain.KeyRequestID).(string)
	return id
}

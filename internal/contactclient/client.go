// Package contactclient submits contact inquiries to the inquiry endpoint
// and tracks the form state a UI needs to render feedback.
package contactclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"studio-inquiry-backend/internal/domain"
	"studio-inquiry-backend/pkg/apperror"
	"studio-inquiry-backend/pkg/validation"
)

const (
	ContactPath = "/api/contact"

	// KindNetwork marks failures where no response was received
	KindNetwork apperror.Kind = "NetworkError"

	maxResponseBytes = 1 << 20
)

// ErrSubmissionPending is returned when Submit is called while a previous
// submission from the same client has not resolved.
var ErrSubmissionPending = errors.New("contactclient: a submission is already in flight")

// Status is the submission lifecycle state
type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// State is a snapshot of the submission status. Inquiry is set only for
// StatusSuccess and Err only for StatusError.
type State struct {
	Status  Status
	Inquiry *domain.ContactInquiry
	Err     *SubmissionError
}

// SubmissionError always carries a message fit to show the user.
type SubmissionError struct {
	StatusCode int
	Kind       apperror.Kind
	Message    string
	Fields     map[string]string
	Err        error
}

func (e *SubmissionError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%s (%s)", e.Message, validation.FieldErrors(e.Fields).Error())
	}
	return e.Message
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// Client holds one form instance. It is safe for concurrent use.
type Client struct {
	endpoint   string
	httpClient *http.Client
	schema     *validation.Schema
	onChange   func(State)

	mu     sync.Mutex
	fields domain.InquiryInput
	state  State
}

type Option func(*Client)

// WithHTTPClient replaces the default transport
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithSchema shares an existing schema instead of building one
func WithSchema(s *validation.Schema) Option {
	return func(c *Client) { c.schema = s }
}

// OnChange registers a listener called after every status transition.
// It runs on the goroutine that caused the transition, without locks held.
func OnChange(fn func(State)) Option {
	return func(c *Client) { c.onChange = fn }
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		endpoint:   strings.TrimRight(baseURL, "/") + ContactPath,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.schema == nil {
		c.schema = validation.NewSchema()
	}
	return c
}

func (c *Client) SetName(v string) {
	c.mu.Lock()
	c.fields.Name = v
	c.mu.Unlock()
}

func (c *Client) SetEmail(v string) {
	c.mu.Lock()
	c.fields.Email = v
	c.mu.Unlock()
}

func (c *Client) SetProjectDetails(v string) {
	c.mu.Lock()
	c.fields.ProjectDetails = v
	c.mu.Unlock()
}

// SetFields replaces all three form fields
func (c *Client) SetFields(in domain.InquiryInput) {
	c.mu.Lock()
	c.fields = in
	c.mu.Unlock()
}

// Fields returns the current form values
func (c *Client) Fields() domain.InquiryInput {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fields
}

// Validate runs the current values through the shared schema.
// A nil result means the form can be submitted.
func (c *Client) Validate() validation.FieldErrors {
	_, fields := domain.ValidateInquiry(c.schema, c.Fields())
	return fields
}

// Valid reports whether the current values pass validation
func (c *Client) Valid() bool {
	return c.Validate() == nil
}

// State returns the current submission state
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Reset clears the form and returns to idle. It does nothing while pending.
func (c *Client) Reset() {
	c.mu.Lock()
	if c.state.Status == StatusPending {
		c.mu.Unlock()
		return
	}
	c.fields = domain.InquiryInput{}
	c.state = State{Status: StatusIdle}
	c.mu.Unlock()
	c.notify(State{Status: StatusIdle})
}

// Submit sends the current form values as one request.
//
// It returns ErrSubmissionPending without any network call while another
// submission is in flight, and a ValidationFailed *SubmissionError without
// any network call or status change when the values fail local validation.
// On success the fields are cleared unless they were edited while the
// request was pending; on failure they are kept so the user can correct
// them and submit again.
func (c *Client) Submit(ctx context.Context) (*domain.ContactInquiry, error) {
	c.mu.Lock()
	if c.state.Status == StatusPending {
		c.mu.Unlock()
		return nil, ErrSubmissionPending
	}

	sent := c.fields
	normalized, fieldErrs := domain.ValidateInquiry(c.schema, sent)
	if fieldErrs != nil {
		c.mu.Unlock()
		return nil, &SubmissionError{
			Kind:    apperror.KindValidationFailed,
			Message: "Please correct the highlighted fields.",
			Fields:  fieldErrs,
		}
	}

	pending := State{Status: StatusPending}
	c.state = pending
	c.mu.Unlock()
	c.notify(pending)

	inquiry, subErr := c.send(ctx, normalized)

	var next State
	c.mu.Lock()
	if subErr != nil {
		next = State{Status: StatusError, Err: subErr}
	} else {
		if c.fields == sent {
			c.fields = domain.InquiryInput{}
		}
		next = State{Status: StatusSuccess, Inquiry: inquiry}
	}
	c.state = next
	c.mu.Unlock()
	c.notify(next)

	if subErr != nil {
		return nil, subErr
	}
	return inquiry, nil
}

func (c *Client) notify(s State) {
	if c.onChange != nil {
		c.onChange(s)
	}
}

func (c *Client) send(ctx context.Context, in domain.InquiryInput) (*domain.ContactInquiry, *SubmissionError) {
	payload, err := json.Marshal(in)
	if err != nil {
		return nil, &SubmissionError{Kind: apperror.KindInternal, Message: "Could not prepare your inquiry.", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &SubmissionError{Kind: apperror.KindInternal, Message: "Could not prepare your inquiry.", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &SubmissionError{
			Kind:    KindNetwork,
			Message: "Could not reach the studio. Please check your connection and try again.",
			Err:     err,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &SubmissionError{
			StatusCode: resp.StatusCode,
			Kind:       KindNetwork,
			Message:    "The connection was interrupted. Please try again.",
			Err:        err,
		}
	}

	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated {
		var inquiry domain.ContactInquiry
		if err := json.Unmarshal(body, &inquiry); err != nil {
			return nil, &SubmissionError{
				StatusCode: resp.StatusCode,
				Kind:       apperror.KindInternal,
				Message:    "The studio sent an unexpected response.",
				Err:        err,
			}
		}
		return &inquiry, nil
	}

	return nil, decodeError(resp.StatusCode, body)
}

// decodeError maps a non-success response onto a SubmissionError
func decodeError(code int, body []byte) *SubmissionError {
	var envelope struct {
		Error  string            `json:"error"`
		Errors map[string]string `json:"errors"`
	}
	_ = json.Unmarshal(body, &envelope)

	subErr := &SubmissionError{
		StatusCode: code,
		Message:    envelope.Error,
		Err:        fmt.Errorf("inquiry endpoint returned HTTP %d", code),
	}

	switch {
	case code == http.StatusBadRequest && len(envelope.Errors) > 0:
		subErr.Kind = apperror.KindValidationFailed
		subErr.Fields = envelope.Errors
		subErr.Message = "Please correct the highlighted fields."
	case code == http.StatusBadRequest:
		subErr.Kind = apperror.KindMalformedRequest
	case code == http.StatusTooManyRequests:
		subErr.Kind = apperror.KindTooManyRequests
	case code >= http.StatusInternalServerError:
		subErr.Kind = apperror.KindStorageUnavailable
	default:
		subErr.Kind = apperror.KindInternal
	}

	if subErr.Message == "" {
		subErr.Message = defaultMessage(subErr.Kind)
	}
	return subErr
}

func defaultMessage(kind apperror.Kind) string {
	switch kind {
	case apperror.KindMalformedRequest:
		return "The inquiry could not be read by the studio."
	case apperror.KindTooManyRequests:
		return "Too many inquiries were sent. Please wait a moment and try again."
	case apperror.KindStorageUnavailable:
		return "Your inquiry could not be saved. Please try again later."
	default:
		return "Something went wrong. Please try again."
	}
}

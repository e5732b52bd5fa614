package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies an AppError independently of its HTTP status.
type Kind string

const (
	KindMalformedRequest   Kind = "MalformedRequest"
	KindValidationFailed   Kind = "ValidationFailed"
	KindStorageUnavailable Kind = "StorageUnavailable"
	KindTooManyRequests    Kind = "TooManyRequests"
	KindNotFound           Kind = "NotFound"
	KindInternal           Kind = "Internal"
)

type AppError struct {
	Code    int               `json:"code"`
	Kind    Kind              `json:"kind"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	Err     error             `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code int, kind Kind, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// MalformedRequest is returned when a body cannot be decoded into the expected shape.
func MalformedRequest(message string, err error) *AppError {
	return New(http.StatusBadRequest, KindMalformedRequest, message, err)
}

// ValidationFailed carries per-field messages keyed by wire field name.
func ValidationFailed(fields map[string]string) *AppError {
	e := New(http.StatusBadRequest, KindValidationFailed, "Validation failed", nil)
	e.Fields = fields
	return e
}

// StorageUnavailable wraps a failed store write. It is never retried internally.
func StorageUnavailable(err error) *AppError {
	return New(http.StatusInternalServerError, KindStorageUnavailable, "Your inquiry could not be saved. Please try again later.", err)
}

func NotFound(message string) *AppError {
	return New(http.StatusNotFound, KindNotFound, message, nil)
}

// KindOf reports the Kind of err, or KindInternal when err is not an AppError.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

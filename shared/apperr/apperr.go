// Package apperr defines the error kinds shared by every service. Handlers
// classify errors with errors.Is against the Err* sentinels and only ever show
// the Message of an *Error to clients.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrStore        = errors.New("store failure")
)

// Error carries a client-safe message, its kind, and an optional cause.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func Validation(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) error {
	return &Error{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

func Unauthorized(format string, args ...any) error {
	return &Error{Kind: ErrUnauthorized, Message: fmt.Sprintf(format, args...)}
}

// Store wraps a driver or cache failure. The cause is kept for logging but is
// never part of the public message.
func Store(op string, err error) error {
	return &Error{Kind: ErrStore, Message: op, Err: err}
}

// PublicMessage returns the message that may be sent to a client.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && !errors.Is(err, ErrStore) {
		return e.Message
	}
	return "Internal server error"
}

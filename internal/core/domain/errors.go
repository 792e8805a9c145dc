package domain

import (
	"net/http"
	"time"
)

// ErrorKind classifies request-terminating failures.
type ErrorKind string

const (
	KindValidation         ErrorKind = "validation_failed"
	KindAuthRequired       ErrorKind = "authentication_required"
	KindInvalidCredentials ErrorKind = "invalid_credentials"
	KindConflict           ErrorKind = "conflict"
	KindTooManyAttempts    ErrorKind = "too_many_attempts"
	KindInternal           ErrorKind = "internal"
)

const (
	MsgAuthRequired    = "Authentication required"
	MsgEmailTaken      = "User with that email already exists"
	MsgUsernameTaken   = "User with that username already exists"
	MsgInvalidLogin    = "The provided credentials were invalid."
	MsgTooManyAttempts = "Too many login attempts"
	MsgBadRequest      = "Bad request."
	MsgUserExists      = "User already exists"
	MsgLoginFailed     = "Login failed"
	MsgInternalError   = "Internal Server Error"
)

// Error is the structured failure returned to HTTP clients. Fields carries
// optional per-field messages keyed by the request field name.
type Error struct {
	Kind       ErrorKind
	Status     int
	Title      string
	Message    string
	Fields     map[string]string
	RetryAfter time.Duration
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// NewValidationError reports malformed input with per-field messages.
func NewValidationError(fields map[string]string) *Error {
	return &Error{
		Kind:    KindValidation,
		Status:  http.StatusBadRequest,
		Title:   MsgBadRequest,
		Message: MsgBadRequest,
		Fields:  fields,
	}
}

// NewAuthRequiredError is returned by the auth gate for anonymous callers.
func NewAuthRequiredError() *Error {
	return &Error{
		Kind:    KindAuthRequired,
		Status:  http.StatusUnauthorized,
		Title:   MsgAuthRequired,
		Message: MsgAuthRequired,
		Fields:  map[string]string{"message": MsgAuthRequired},
	}
}

// NewInvalidCredentialsError is returned when login fails for any reason
// related to the supplied credential or password.
func NewInvalidCredentialsError() *Error {
	return &Error{
		Kind:    KindInvalidCredentials,
		Status:  http.StatusUnauthorized,
		Title:   MsgLoginFailed,
		Message: MsgLoginFailed,
		Fields:  map[string]string{"credential": MsgInvalidLogin},
	}
}

// NewConflictError marks the fields that collide with an existing user.
func NewConflictError(fields map[string]string) *Error {
	return &Error{
		Kind:    KindConflict,
		Status:  http.StatusConflict,
		Title:   MsgUserExists,
		Message: MsgUserExists,
		Fields:  fields,
		Err:     ErrUserExists,
	}
}

// NewTooManyAttemptsError is returned while a client is locked out of login.
func NewTooManyAttemptsError(retryAfter time.Duration) *Error {
	return &Error{
		Kind:       KindTooManyAttempts,
		Status:     http.StatusTooManyRequests,
		Title:      MsgTooManyAttempts,
		Message:    MsgTooManyAttempts,
		RetryAfter: retryAfter,
	}
}

// NewInternalError wraps an unexpected fault. The cause is logged, never rendered.
func NewInternalError(err error) *Error {
	return &Error{
		Kind:    KindInternal,
		Status:  http.StatusInternalServerError,
		Title:   MsgInternalError,
		Message: MsgInternalError,
		Err:     err,
	}
}

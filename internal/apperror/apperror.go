// Package apperror holds the error taxonomy shared by services and handlers.
// Services return these kinds; the HTTP layer maps them to status codes in one place.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an AppError.
type Kind int

const (
	Internal Kind = iota
	Validation
	InvalidCredentials
	TokenMissing
	TokenInvalid
	UserNotFound
	Forbidden
	NotFound
	RateLimited
)

var kindNames = map[Kind]string{
	Internal:           "Internal",
	Validation:         "ValidationError",
	InvalidCredentials: "InvalidCredentials",
	TokenMissing:       "TokenMissing",
	TokenInvalid:       "TokenInvalid",
	UserNotFound:       "UserNotFound",
	Forbidden:          "Forbidden",
	NotFound:           "NotFound",
	RateLimited:        "RateLimited",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// AppError carries a client-safe Message and an optional underlying cause.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// Is matches on Kind so that sentinels below work with errors.Is
// regardless of message or cause.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// StatusCode maps the kind to an HTTP status.
// Ownership violations answer 400, as the public API always has.
func (e *AppError) StatusCode() int {
	switch e.Kind {
	case Validation, Forbidden:
		return http.StatusBadRequest
	case InvalidCredentials, TokenMissing, TokenInvalid, UserNotFound:
		return http.StatusUnauthorized
	case NotFound:
		return http.StatusNotFound
	case RateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func New(kind Kind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

// Sentinels for errors.Is comparisons.
var (
	ErrValidation         = New(Validation, "validation error", nil)
	ErrInvalidCredentials = New(InvalidCredentials, "invalid username or password", nil)
	ErrTokenMissing       = New(TokenMissing, "token missing", nil)
	ErrTokenInvalid       = New(TokenInvalid, "token invalid", nil)
	ErrUserNotFound       = New(UserNotFound, "user not found", nil)
	ErrForbidden          = New(Forbidden, "forbidden", nil)
	ErrNotFound           = New(NotFound, "not found", nil)
	ErrRateLimited        = New(RateLimited, "too many login attempts", nil)
)

func NewValidation(message string, err error) *AppError { return New(Validation, message, err) }
func NewNotFound(message string) *AppError              { return New(NotFound, message, nil) }
func NewForbidden(message string) *AppError             { return New(Forbidden, message, nil) }

// From extracts the first *AppError in err's chain.
func From(err error) (*AppError, bool) {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

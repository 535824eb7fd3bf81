package commonerrors

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCategory string

const (
	CategoryValidation   ErrorCategory = "VALIDATION"
	CategoryAuth         ErrorCategory = "AUTH"
	CategoryNotFound     ErrorCategory = "NOT_FOUND"
	CategoryConflict     ErrorCategory = "CONFLICT"
	CategoryUnauthorized ErrorCategory = "UNAUTHORIZED"
	CategoryInternal     ErrorCategory = "INTERNAL"
	CategoryExternal     ErrorCategory = "EXTERNAL"
)

type DomainError interface {
	error
	Code() string
	Category() ErrorCategory
	HTTPStatus() int
	Message() string
	Unwrap() error
	WithCause(cause error) DomainError
	WithMessage(message string) DomainError
}

type domainError struct {
	code     string
	category ErrorCategory
	status   int
	message  string
	cause    error
}

func (e *domainError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *domainError) Code() string {
	return e.code
}

func (e *domainError) Category() ErrorCategory {
	return e.category
}

func (e *domainError) HTTPStatus() int {
	return e.status
}

func (e *domainError) Message() string {
	return e.message
}

func (e *domainError) Unwrap() error {
	return e.cause
}

// Is matches on code so that errors derived through WithCause or WithMessage
// still compare equal to the sentinel they came from.
func (e *domainError) Is(target error) bool {
	t, ok := target.(*domainError)
	if !ok {
		return false
	}
	return e.code == t.code
}

func (e *domainError) WithCause(cause error) DomainError {
	return &domainError{
		code:     e.code,
		category: e.category,
		status:   e.status,
		message:  e.message,
		cause:    cause,
	}
}

func (e *domainError) WithMessage(message string) DomainError {
	return &domainError{
		code:     e.code,
		category: e.category,
		status:   e.status,
		message:  message,
		cause:    e.cause,
	}
}

func NewDomainError(code string, category ErrorCategory, status int, message string) DomainError {
	return &domainError{
		code:     code,
		category: category,
		status:   status,
		message:  message,
	}
}

func IsDomainError(err error) bool {
	var de DomainError
	return errors.As(err, &de)
}

// Internal builds a 500 error. The cause is kept for logs and never reaches
// the client message.
func Internal(code, message string, cause error) DomainError {
	err := NewDomainError(code, CategoryInternal, http.StatusInternalServerError, message)
	if cause != nil {
		err = err.WithCause(cause)
	}
	return err
}

// WrapInternal passes domain errors through untouched and turns anything
// else into an Internal error.
func WrapInternal(code, message string, err error) error {
	if IsDomainError(err) {
		return err
	}
	return Internal(code, message, err)
}

// FromCircuitBreaker reports a rejected call as service unavailable.
func FromCircuitBreaker(err error) error {
	if errors.Is(err, ErrCircuitOpen) {
		return ErrServiceUnavailable.WithCause(err)
	}
	return err
}

func AsDomainError(err error) (DomainError, bool) {
	var de DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

var (
	ErrValidation = NewDomainError(
		"VALIDATION_FAILED",
		CategoryValidation,
		http.StatusBadRequest,
		"validation failed",
	)

	ErrInvalidJSON = NewDomainError(
		"INVALID_JSON",
		CategoryValidation,
		http.StatusBadRequest,
		"invalid json",
	)

	ErrRequestTooLarge = NewDomainError(
		"REQUEST_TOO_LARGE",
		CategoryValidation,
		http.StatusRequestEntityTooLarge,
		"request body too large",
	)

	ErrInvalidID = NewDomainError(
		"INVALID_ID",
		CategoryValidation,
		http.StatusBadRequest,
		"invalid id format",
	)

	ErrEmptyUUID = NewDomainError(
		"EMPTY_UUID",
		CategoryValidation,
		http.StatusBadRequest,
		"uuid cannot be empty",
	)

	ErrRouteNotFound = NewDomainError(
		"NOT_FOUND",
		CategoryNotFound,
		http.StatusNotFound,
		"No such route exists!",
	)

	ErrMissingAuthorization = NewDomainError(
		"MISSING_AUTHORIZATION",
		CategoryAuth,
		http.StatusUnauthorized,
		"Authentication token missing",
	)

	ErrInvalidToken = NewDomainError(
		"INVALID_TOKEN",
		CategoryAuth,
		http.StatusForbidden,
		"Invalid token",
	)

	ErrCircuitOpen = NewDomainError(
		"CIRCUIT_OPEN",
		CategoryExternal,
		http.StatusServiceUnavailable,
		"circuit breaker is open",
	)

	ErrServiceUnavailable = NewDomainError(
		"SERVICE_UNAVAILABLE",
		CategoryExternal,
		http.StatusServiceUnavailable,
		"service temporarily unavailable",
	)

	ErrInternalError = NewDomainError(
		"INTERNAL_ERROR",
		CategoryInternal,
		http.StatusInternalServerError,
		"Something went wrong! Please try again.",
	)

	ErrDatabaseError = NewDomainError(
		"DATABASE_ERROR",
		CategoryInternal,
		http.StatusInternalServerError,
		"Something went wrong! Please try again.",
	)
)

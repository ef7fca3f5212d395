package apperr

import (
	"errors"
	"fmt"
)

// Code classifies an expected domain failure.
type Code string

const (
	CodeNotFound               Code = "NOT_FOUND"
	CodeConflict               Code = "CONFLICT"
	CodeInvalidStateTransition Code = "INVALID_STATE_TRANSITION"
	CodeValidation             Code = "VALIDATION"
	CodeSystemEntityProtected  Code = "SYSTEM_ENTITY_PROTECTED"
	CodeUnauthorized           Code = "UNAUTHORIZED"
	CodeForbidden              Code = "FORBIDDEN"
	CodeConcurrencyConflict    Code = "CONCURRENCY_CONFLICT"
	CodeCapacityExceeded       Code = "CAPACITY_EXCEEDED"
	CodeSubscriptionExpired    Code = "SUBSCRIPTION_EXPIRED"
)

// Error is a typed domain failure. Services return *Error for every expected
// failure path; only programmer errors and infrastructure faults travel as
// plain wrapped errors.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// New creates a typed error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func NotFound(entity string) *Error {
	return New(CodeNotFound, "%s not found", entity)
}

func Conflict(format string, args ...any) *Error {
	return New(CodeConflict, format, args...)
}

func InvalidStateTransition(format string, args ...any) *Error {
	return New(CodeInvalidStateTransition, format, args...)
}

func Validation(format string, args ...any) *Error {
	return New(CodeValidation, format, args...)
}

func SystemEntityProtected(entity string) *Error {
	return New(CodeSystemEntityProtected, "%s is a system entity and cannot be modified or deleted", entity)
}

func ConcurrencyConflict(entity string) *Error {
	return New(CodeConcurrencyConflict, "%s was modified concurrently, retry with fresh data", entity)
}

func CapacityExceeded(kind string) *Error {
	return New(CodeCapacityExceeded, "institution %s capacity reached", kind)
}

func SubscriptionExpired() *Error {
	return New(CodeSubscriptionExpired, "institution subscription has expired")
}

func Forbidden(format string, args ...any) *Error {
	return New(CodeForbidden, format, args...)
}

// CodeOf extracts the typed code from err, or empty string if err is not a
// domain error.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// Is reports whether err is a domain error with the given code.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}

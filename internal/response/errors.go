package response

import (
	"errors"
	"net/http"

	"github.com/brightclass/brightclass-backend/internal/apperr"
	"github.com/gin-gonic/gin"
)

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden        ErrCode = "FORBIDDEN"
	ErrPermissionDenied ErrCode = "PERMISSION_DENIED"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound            ErrCode = "NOT_FOUND"
	ErrConflict            ErrCode = "CONFLICT"
	ErrConcurrencyConflict ErrCode = "CONCURRENCY_CONFLICT"

	// ─── Domain-specific ───────────────────────────────────────────────
	ErrInvalidStateTransition ErrCode = "INVALID_STATE_TRANSITION"
	ErrSystemEntityProtected  ErrCode = "SYSTEM_ENTITY_PROTECTED"
	ErrCapacityExceeded       ErrCode = "CAPACITY_EXCEEDED"
	ErrSubscriptionExpired    ErrCode = "SUBSCRIPTION_EXPIRED"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrInvalidCredentials:
		return "Invalid email or password."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid."
	case ErrTokenExpired:
		return "The authentication token has expired."
	case ErrForbidden:
		return "You do not have access to this resource."
	case ErrPermissionDenied:
		return "Permission denied."
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "The resource already exists."
	case ErrConcurrencyConflict:
		return "The resource was modified by another request. Please retry."
	case ErrInvalidStateTransition:
		return "This action is not valid in the resource's current state."
	case ErrSystemEntityProtected:
		return "System entries cannot be renamed or deleted."
	case ErrCapacityExceeded:
		return "The institution has reached its license capacity."
	case ErrSubscriptionExpired:
		return "The institution's subscription has expired."
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}

// FailDomain maps a service error onto an HTTP status and error code.
// Typed domain errors surface their own message; everything else becomes an
// opaque INTERNAL_ERROR so infrastructure faults never leak details.
func FailDomain(c *gin.Context, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		Fail(c, http.StatusInternalServerError, ErrInternal)
		return
	}

	status, code := mapDomainCode(appErr.Code)
	c.JSON(status, Response{
		Data:     nil,
		Error:    &ErrorBody{Code: code, Message: appErr.Message},
		Metadata: buildMetadata(c),
	})
}

func mapDomainCode(code apperr.Code) (int, ErrCode) {
	switch code {
	case apperr.CodeNotFound:
		return http.StatusNotFound, ErrNotFound
	case apperr.CodeConflict:
		return http.StatusConflict, ErrConflict
	case apperr.CodeConcurrencyConflict:
		return http.StatusConflict, ErrConcurrencyConflict
	case apperr.CodeInvalidStateTransition:
		return http.StatusConflict, ErrInvalidStateTransition
	case apperr.CodeValidation:
		return http.StatusBadRequest, ErrValidation
	case apperr.CodeSystemEntityProtected:
		return http.StatusForbidden, ErrSystemEntityProtected
	case apperr.CodeUnauthorized:
		return http.StatusUnauthorized, ErrTokenInvalid
	case apperr.CodeForbidden:
		return http.StatusForbidden, ErrForbidden
	case apperr.CodeCapacityExceeded:
		return http.StatusConflict, ErrCapacityExceeded
	case apperr.CodeSubscriptionExpired:
		return http.StatusPaymentRequired, ErrSubscriptionExpired
	default:
		return http.StatusInternalServerError, ErrInternal
	}
}

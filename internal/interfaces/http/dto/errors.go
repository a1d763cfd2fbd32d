package dto

import (
	"net/http"
	"strings"
)

// Error codes the API surfaces directly, beyond the domain error codes.
const (
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes. The
// INVALID_* family is handled by prefix in GetHTTPStatus; only codes that
// need a non-400 status are listed.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeBadRequest: http.StatusBadRequest,

	// Auth
	ErrCodeUnauthorized:   http.StatusUnauthorized,
	"FORBIDDEN":           http.StatusForbidden,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"TOKEN_EXPIRED":       http.StatusUnauthorized,
	"TOKEN_INVALID":       http.StatusUnauthorized,
	"ACCOUNT_DEACTIVATED": http.StatusForbidden,

	// Resources
	ErrCodeNotFound:        http.StatusNotFound,
	"PAYMENT_NOT_FOUND":    http.StatusNotFound,
	"ALREADY_EXISTS":       http.StatusConflict,
	"DUPLICATE_NUMBER":     http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,

	// Business rules
	"EXCEEDS_BALANCE":  http.StatusUnprocessableEntity,
	"INVALID_STATE":    http.StatusUnprocessableEntity,
	"NUMBER_EXHAUSTED": http.StatusConflict,

	// Server faults
	ErrCodeInternal:       http.StatusInternalServerError,
	"PASSWORD_HASH_ERROR": http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status for a domain error code. Unlisted
// INVALID_* codes are validation failures (400); anything else unknown is
// treated as a server fault.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

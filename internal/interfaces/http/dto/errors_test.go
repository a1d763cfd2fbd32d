package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{"NOT_FOUND", http.StatusNotFound},
		{"PAYMENT_NOT_FOUND", http.StatusNotFound},
		{"DUPLICATE_NUMBER", http.StatusConflict},
		{"CONCURRENCY_CONFLICT", http.StatusConflict},
		{"EXCEEDS_BALANCE", http.StatusUnprocessableEntity},
		{"INVALID_CREDENTIALS", http.StatusUnauthorized},
		{"TOKEN_EXPIRED", http.StatusUnauthorized},
		{"ACCOUNT_DEACTIVATED", http.StatusForbidden},
		{"INVALID_AMOUNT", http.StatusBadRequest},
		{"INVALID_DATE", http.StatusBadRequest},
		{"INVALID_SOMETHING_NEW", http.StatusBadRequest},
		{"NO_SUCH_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPStatus(tt.code))
		})
	}
}

package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", ErrValidation, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"email taken", ErrEmailTaken, http.StatusBadRequest, "EMAIL_TAKEN"},
		{"wrapped email taken", fmt.Errorf("register: %w", ErrEmailTaken), http.StatusBadRequest, "EMAIL_TAKEN"},
		{"invalid credentials", ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"invalid token", ErrInvalidToken, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"not found", fmt.Errorf("update expense: %w", ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"unknown", errors.New("dial tcp 10.0.0.3:3306: connection refused"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
			assert.Equal(t, tt.wantCode, httpErr.Code)
		})
	}
}

func TestMapErrorToHTTP_HidesInternalDetails(t *testing.T) {
	httpErr := MapErrorToHTTP(errors.New("Error 1045: Access denied for user 'root'@'10.0.0.3'"))

	assert.Equal(t, "internal server error", httpErr.Message)
	assert.NotContains(t, httpErr.ToErrorResponse().Message, "root")
}

func TestMapErrorToHTTP_ValidationFields(t *testing.T) {
	err := fmt.Errorf("add expense: %w", NewValidationError("title", "must be at least 2 characters"))

	assert.True(t, errors.Is(err, ErrValidation))

	httpErr := MapErrorToHTTP(err)
	assert.Equal(t, http.StatusBadRequest, httpErr.StatusCode)
	assert.Equal(t, map[string]string{"title": "must be at least 2 characters"}, httpErr.ToErrorResponse().Errors)
	assert.False(t, httpErr.ToErrorResponse().Success)
}

func TestMapErrorToHTTP_PassesThroughHTTPError(t *testing.T) {
	original := NewHTTPError(http.StatusBadRequest, "user not found", "USER_NOT_FOUND")

	assert.Same(t, original, MapErrorToHTTP(original))
}

package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Sentinel error identity ---

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound, ErrInvalidInput, ErrUnauthorized, ErrForbidden,
		ErrInternal, ErrConflict, ErrServiceUnavail, ErrNetwork, ErrRejected,
	}

	for i := 0; i < len(sentinels); i++ {
		for j := i + 1; j < len(sentinels); j++ {
			assert.NotEqual(t, sentinels[i], sentinels[j],
				"sentinels %d and %d should be distinct", i, j)
		}
	}
}

// --- AppError behavior ---

func TestAppError_ErrorString_WithWrappedError(t *testing.T) {
	inner := fmt.Errorf("backend unreachable")
	appErr := &AppError{Code: "INTERNAL_ERROR", Message: "something broke", Err: inner}
	assert.Contains(t, appErr.Error(), "INTERNAL_ERROR")
	assert.Contains(t, appErr.Error(), "something broke")
	assert.Contains(t, appErr.Error(), "backend unreachable")
}

func TestAppError_ErrorString_WithoutWrappedError(t *testing.T) {
	appErr := &AppError{Code: "NOT_FOUND", Message: "client not found"}
	assert.Equal(t, "NOT_FOUND: client not found", appErr.Error())
}

func TestAppError_Unwrap_Nil(t *testing.T) {
	appErr := &AppError{Code: "TEST", Message: "test"}
	assert.Nil(t, appErr.Unwrap())
}

// --- Constructor functions ---

func TestNotFound(t *testing.T) {
	err := NotFound("appointment", "42")
	require.NotNil(t, err)
	assert.Equal(t, "NOT_FOUND", err.Code)
	assert.Contains(t, err.Message, "appointment")
	assert.Contains(t, err.Message, "42")
	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestInvalidInput(t *testing.T) {
	err := InvalidInput("clientId is required")
	assert.Equal(t, "INVALID_INPUT", err.Code)
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestUnauthorizedAndForbidden(t *testing.T) {
	assert.True(t, errors.Is(Unauthorized("expired"), ErrUnauthorized))
	assert.True(t, errors.Is(Forbidden("counselor only"), ErrForbidden))
	assert.Equal(t, http.StatusForbidden, Forbidden("x").Status)
}

func TestInternal(t *testing.T) {
	err := Internal(fmt.Errorf("segfault"))
	assert.Equal(t, "INTERNAL_ERROR", err.Code)
	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.Contains(t, err.Error(), "segfault")
}

func TestRejected(t *testing.T) {
	err := Rejected("Consent form is no longer active")
	assert.Equal(t, "REJECTED", err.Code)
	assert.True(t, errors.Is(err, ErrRejected))
	assert.Equal(t, "Consent form is no longer active", err.Message)

	empty := Rejected("")
	assert.NotEmpty(t, empty.Message)
}

// --- Transport error types ---

func TestNetworkError_IsErrNetwork(t *testing.T) {
	err := &NetworkError{Method: http.MethodGet, URL: "http://x/api", Err: context.DeadlineExceeded}
	assert.True(t, errors.Is(err, ErrNetwork))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Contains(t, err.Error(), "GET http://x/api")
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(err))
}

func TestHTTPError_MapsStatusToSentinel(t *testing.T) {
	tests := []struct {
		status   int
		sentinel error
	}{
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusConflict, ErrConflict},
		{http.StatusBadRequest, ErrInvalidInput},
		{http.StatusBadGateway, ErrServiceUnavail},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			err := fmt.Errorf("call: %w", &HTTPError{Status: tt.status})
			assert.True(t, errors.Is(err, tt.sentinel))
			assert.Equal(t, tt.status, HTTPStatus(err))
		})
	}

	assert.False(t, errors.Is(&HTTPError{Status: http.StatusNotFound}, ErrForbidden))
}

func TestHTTPError_ErrorString(t *testing.T) {
	assert.Equal(t, "http 404: Not Found", (&HTTPError{Status: 404}).Error())
	assert.Equal(t, "http 409: slot taken", (&HTTPError{Status: 409, Message: "slot taken"}).Error())
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("You must agree", map[string]string{"agreed": "required"})
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Equal(t, "You must agree", err.Error())
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

// --- UserMessage ---

func TestUserMessage(t *testing.T) {
	const fallback = "Please try again."

	assert.Equal(t, "Form expired", UserMessage(&HTTPError{Status: 400, Message: "Form expired"}, fallback))
	assert.Equal(t, fallback, UserMessage(&HTTPError{Status: 500}, fallback))
	assert.Equal(t, fallback, UserMessage(&NetworkError{Err: errors.New("refused")}, fallback))
	assert.Equal(t, "must agree", UserMessage(NewValidationError("must agree", nil), fallback))
	assert.Equal(t, "not allowed", UserMessage(Rejected("not allowed"), fallback))
	assert.Equal(t, fallback, UserMessage(Internal(errors.New("x")), fallback))
}

// --- Wrap / HTTPStatus ---

func TestWrap(t *testing.T) {
	wrapped := Wrap(ErrNotFound, "get client")
	assert.Contains(t, wrapped.Error(), "get client")
	assert.True(t, errors.Is(wrapped, ErrNotFound))
}

func TestHTTPStatus_SentinelErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{ErrNotFound, http.StatusNotFound},
		{ErrConflict, http.StatusConflict},
		{ErrInvalidInput, http.StatusBadRequest},
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrForbidden, http.StatusForbidden},
		{ErrNetwork, http.StatusBadGateway},
		{ErrServiceUnavail, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
		})
	}
}

func TestHTTPStatus_UnknownError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(fmt.Errorf("unknown")))
}

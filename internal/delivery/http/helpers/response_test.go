package helpers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventboard/internal/domain"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"unauthenticated", domain.ErrUnauthenticated, http.StatusUnauthorized, ErrCodeUnauthorized},
		{"invalid session", domain.ErrInvalidSession, http.StatusUnauthorized, ErrCodeInvalidSession},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusBadRequest, ErrCodeBadRequest},
		{"username taken", domain.ErrUsernameTaken, http.StatusBadRequest, ErrCodeBadRequest},
		{"validation", domain.ValidationError("title is required"), http.StatusBadRequest, ErrCodeBadRequest},
		{"forbidden", domain.ErrNotHost, http.StatusForbidden, ErrCodeForbidden},
		{"not found wrapped", fmt.Errorf("get: %w", domain.ErrEventNotFound), http.StatusNotFound, ErrCodeNotFound},
		{"conflict", domain.ErrAlreadyAttending, http.StatusBadRequest, ErrCodeConflict},
		{"untagged", errors.New("pq: connection refused"), http.StatusInternalServerError, ErrCodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := StatusFor(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestWriteDomainError_HidesInternalCause(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteDomainError(rr, errors.New("pq: password authentication failed for user app"))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	var body APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	require.NotNil(t, body.Error)
	assert.Nil(t, body.Data)
	assert.Equal(t, ErrCodeInternalError, body.Error.Code)
	assert.Equal(t, "internal error", body.Error.Message)
}

func TestWriteJSONSuccess(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteJSONSuccess(rr, http.StatusCreated, map[string]bool{"success": true})

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.JSONEq(t, `{"data":{"success":true},"error":null}`, rr.Body.String())
}

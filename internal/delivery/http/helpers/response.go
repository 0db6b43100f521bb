package helpers

import (
	"encoding/json"
	"net/http"

	"eventboard/internal/domain"
)

// Error codes for API error responses. Use these with WriteJSONError.
const (
	ErrCodeBadRequest     = "bad_request"
	ErrCodeUnauthorized   = "unauthorized"
	ErrCodeInvalidSession = "invalid_session"
	ErrCodeForbidden      = "forbidden"
	ErrCodeNotFound       = "not_found"
	ErrCodeConflict       = "conflict"
	ErrCodeInternalError  = "internal_error"
)

// APIError is the error object in the standardized API response envelope.
// swagger:model APIError
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIResponse is the standardized envelope for all API responses.
// On success: Data is set, Error is nil. On error: Data is nil, Error is set.
// swagger:model APIResponse
type APIResponse struct {
	Data  any       `json:"data"`
	Error *APIError `json:"error"`
}

// WriteJSONSuccess sets Content-Type to application/json, writes statusCode, and
// encodes an APIResponse with the given data and error set to nil.
func WriteJSONSuccess(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIResponse{Data: data, Error: nil})
}

// WriteJSONError sets Content-Type to application/json, writes statusCode, and
// encodes an APIResponse with data nil and the given error code and message.
func WriteJSONError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIResponse{
		Data:  nil,
		Error: &APIError{Code: code, Message: message},
	})
}

// StatusFor maps an error's domain.Kind to its HTTP status and error code.
func StatusFor(err error) (int, string) {
	switch domain.KindOf(err) {
	case domain.KindUnauthenticated:
		return http.StatusUnauthorized, ErrCodeUnauthorized
	case domain.KindInvalidSession:
		return http.StatusUnauthorized, ErrCodeInvalidSession
	case domain.KindInvalidCredentials, domain.KindUsernameTaken, domain.KindValidation:
		return http.StatusBadRequest, ErrCodeBadRequest
	case domain.KindForbidden:
		return http.StatusForbidden, ErrCodeForbidden
	case domain.KindNotFound:
		return http.StatusNotFound, ErrCodeNotFound
	case domain.KindConflict:
		return http.StatusBadRequest, ErrCodeConflict
	default:
		return http.StatusInternalServerError, ErrCodeInternalError
	}
}

// WriteDomainError writes err using StatusFor. Internal errors get a generic
// message; their cause is for the server log only.
func WriteDomainError(w http.ResponseWriter, err error) {
	status, code := StatusFor(err)
	WriteJSONError(w, status, code, domain.MessageOf(err))
}

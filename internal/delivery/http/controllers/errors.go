package controllers

import (
	"log/slog"
	"net/http"

	h "eventboard/internal/delivery/http/helpers"
	"eventboard/internal/delivery/http/middleware"
	"eventboard/internal/domain"
)

// writeError maps err to its status and code. Untagged errors are logged and
// reported as a generic internal_error.
func writeError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	if domain.KindOf(err) == domain.KindInternal {
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	}
	h.WriteDomainError(w, err)
}

// callerID returns the session user attached by middleware.RequireSession.
func callerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteDomainError(w, domain.ErrUnauthenticated)
		return "", false
	}
	return id, true
}

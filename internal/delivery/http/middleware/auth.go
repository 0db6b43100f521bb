package middleware

import (
	"context"
	"log/slog"
	"net/http"

	h "eventboard/internal/delivery/http/helpers"
	"eventboard/internal/domain"
)

type contextKey string

const userIDKey contextKey = "userID"

// SetUserID returns a context with the user ID set. Used by auth middleware.
func SetUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the authenticated user ID from the context, if present.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// Authenticator resolves a session token to a live user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// RequireSession returns a wrapper that resolves the session cookie and sets the user ID
// in the request context. A missing cookie or deleted user yields 401 unauthorized, a bad
// or expired token 401 invalid_session; next is not called in either case.
func RequireSession(auth Authenticator, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token := h.SessionToken(r)
			if token == "" {
				h.WriteDomainError(w, domain.ErrUnauthenticated)
				return
			}
			user, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				if domain.KindOf(err) == domain.KindInternal {
					logger.ErrorContext(r.Context(), "session lookup failed", "path", r.URL.Path, "method", r.Method, "err", err)
				}
				h.WriteDomainError(w, err)
				return
			}
			r = r.WithContext(SetUserID(r.Context(), user.ID))
			next(w, r)
		}
	}
}

package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey string

const (
	// SessionIDKey is the context key under which the resolved session id
	// is stored
	SessionIDKey contextKey = "session_id"

	// SessionCookieName is the cookie holding the opaque session token
	SessionCookieName = "session_id"

	// SessionCookieMaxAge keeps the cookie for a year; the cart expiry
	// sweeper bounds the server-side state independently
	SessionCookieMaxAge = 365 * 24 * time.Hour
)

// SessionMiddleware resolves the per-browser session identity used to
// partition cart state. A missing or malformed cookie is never an error:
// the middleware fails open by minting a fresh opaque token and setting
// the cookie, so every request downstream carries a usable session id.
func SessionMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := ""

			if cookie, err := r.Cookie(SessionCookieName); err == nil {
				if _, err := uuid.Parse(cookie.Value); err == nil {
					sessionID = cookie.Value
				}
			}

			if sessionID == "" {
				sessionID = uuid.New().String()
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookieName,
					Value:    sessionID,
					Path:     "/",
					MaxAge:   int(SessionCookieMaxAge.Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
				logger.Debug("Issued new session", zap.String("session_id", sessionID))
			}

			ctx := context.WithValue(r.Context(), SessionIDKey, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSessionID extracts the session id from request context
func GetSessionID(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value(SessionIDKey).(string)
	return sessionID, ok
}

// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"net/http"

	"github.com/carterperez-dev/agency-portal/internal/core"
	"github.com/carterperez-dev/agency-portal/internal/session"
)

type contextKey string

const sessionKey contextKey = "portal_session"

// RequireSession guards JSON API routes. Page routes use the redirecting
// guard instead; API callers get a 401 envelope they can act on.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		sess, err := session.FromContext(ctx).Read(ctx)
		if err != nil {
			core.Logger(ctx).Error("session read failed", "error", err)
			core.JSONError(w, core.NewAppError(
				core.ErrUnavailable,
				"session storage unavailable",
				http.StatusServiceUnavailable,
				"SESSION_UNAVAILABLE",
			))
			return
		}

		if !sess.Present() {
			core.Unauthorized(w, "")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, sessionKey, sess)))
	})
}

// GetSession returns the session loaded by RequireSession.
func GetSession(ctx context.Context) (session.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(session.Session)
	return sess, ok && sess.Present()
}

func GetUserID(ctx context.Context) string {
	if sess, ok := GetSession(ctx); ok {
		return sess.User.ID
	}
	return ""
}

// AngelaMos | 2026
// middleware.go

package session

import (
	"net/http"
	"time"

	"github.com/carterperez-dev/agency-portal/internal/config"
	"github.com/carterperez-dev/agency-portal/internal/core"
)

type Middleware struct {
	store       *Store
	cookies     cookieOptions
	expireStale bool
	now         func() time.Time
}

func NewMiddleware(store *Store, cfg config.SessionConfig) *Middleware {
	return &Middleware{
		store: store,
		cookies: cookieOptions{
			name:   cfg.CookieName,
			domain: cfg.CookieDomain,
			secure: cfg.CookieSecure,
			maxAge: cfg.TTL,
		},
		expireStale: cfg.ExpireStaleTokens,
		now:         time.Now,
	}
}

// Handler places an Accessor for the caller's scope on the request context.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := &Handle{
			store:   m.store,
			w:       w,
			cookies: m.cookies,
			scope:   m.scopeFromRequest(r),
		}

		ctx := WithAccessor(r.Context(), h)

		if m.expireStale && h.scope != "" {
			m.clearIfExpired(r.WithContext(ctx), h)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Middleware) scopeFromRequest(r *http.Request) string {
	c, err := r.Cookie(m.cookies.name)
	if err != nil {
		return ""
	}

	if !core.ValidSessionID(c.Value) {
		return ""
	}

	return c.Value
}

func (m *Middleware) clearIfExpired(r *http.Request, h *Handle) {
	ctx := r.Context()

	sess, err := h.Read(ctx)
	if err != nil || !sess.Present() {
		return
	}

	if !TokenExpired(sess.Token, m.now()) {
		return
	}

	if err := h.Clear(ctx); err != nil {
		core.Logger(ctx).Warn("failed to clear expired session", "error", err)
		return
	}

	core.Logger(ctx).Info("cleared session with expired token",
		"user_id", sess.User.ID,
	)
}

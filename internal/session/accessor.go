// AngelaMos | 2026
// accessor.go

package session

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/carterperez-dev/agency-portal/internal/core"
	"github.com/carterperez-dev/agency-portal/internal/user"
)

var ErrNoScope = errors.New("request has no session scope")

// Accessor is the session of one browser scope. Handlers and the gateway
// receive it through the request context instead of reaching for a global.
// Write begins a new session and replaces whatever the scope held.
type Accessor interface {
	Read(ctx context.Context) (Session, error)
	Write(ctx context.Context, token string, u *user.User) error
	Clear(ctx context.Context) error
	UpdateUser(ctx context.Context, u *user.User) error
}

// Preferences holds UI state kept alongside the session.
type Preferences interface {
	SidebarCollapsed(ctx context.Context) (bool, error)
	SetSidebarCollapsed(ctx context.Context, collapsed bool) error
}

type accessorKey struct{}

func WithAccessor(ctx context.Context, acc Accessor) context.Context {
	return context.WithValue(ctx, accessorKey{}, acc)
}

// FromContext returns the request's accessor, or one that never holds a
// session when the request did not pass through Middleware.
func FromContext(ctx context.Context) Accessor {
	if acc, ok := ctx.Value(accessorKey{}).(Accessor); ok {
		return acc
	}
	return detached{}
}

type detached struct{}

func (detached) Read(context.Context) (Session, error) { return Session{}, nil }
func (detached) Write(context.Context, string, *user.User) error { return ErrNoScope }
func (detached) Clear(context.Context) error { return nil }
func (detached) UpdateUser(context.Context, *user.User) error { return ErrNoScope }
func (detached) SidebarCollapsed(context.Context) (bool, error) { return false, nil }
func (detached) SetSidebarCollapsed(context.Context, bool) error { return ErrNoScope }

type cookieOptions struct {
	name   string
	domain string
	secure bool
	maxAge time.Duration
}

// Handle binds a Store to the scope named by one request's cookie. Every
// Write starts the session under a newly minted scope id, which is sent
// back as a cookie.
type Handle struct {
	store   *Store
	w       http.ResponseWriter
	cookies cookieOptions

	mu    sync.Mutex
	scope string
}

func (h *Handle) currentScope() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.scope
}

func (h *Handle) ensureScope() (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.scope == "" {
		id, err := core.GenerateSessionID()
		if err != nil {
			return "", err
		}
		h.scope = id
	}

	h.setCookieLocked()

	return h.scope, nil
}

// renewScope drops the request's scope and moves the caller to a freshly
// minted one. Only the sidebar preference is carried over.
func (h *Handle) renewScope(ctx context.Context) (string, error) {
	old := h.currentScope()

	collapsed, err := h.store.SidebarCollapsed(ctx, old)
	if err != nil {
		return "", err
	}

	if err := h.store.Discard(ctx, old); err != nil {
		return "", err
	}

	id, err := core.GenerateSessionID()
	if err != nil {
		return "", err
	}

	h.mu.Lock()
	h.scope = id
	h.setCookieLocked()
	h.mu.Unlock()

	if collapsed {
		if err := h.store.SetSidebarCollapsed(ctx, id, true); err != nil {
			return "", err
		}
	}

	return id, nil
}

func (h *Handle) setCookieLocked() {
	http.SetCookie(h.w, &http.Cookie{
		Name:     h.cookies.name,
		Value:    h.scope,
		Path:     "/",
		Domain:   h.cookies.domain,
		MaxAge:   int(h.cookies.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.cookies.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handle) Read(ctx context.Context) (Session, error) {
	return h.store.Read(ctx, h.currentScope())
}

func (h *Handle) Write(ctx context.Context, token string, u *user.User) error {
	if token == "" || u == nil {
		return ErrIncompleteSession
	}

	scope, err := h.renewScope(ctx)
	if err != nil {
		return err
	}

	return h.store.Write(ctx, scope, token, u)
}

func (h *Handle) Clear(ctx context.Context) error {
	return h.store.Clear(ctx, h.currentScope())
}

func (h *Handle) UpdateUser(ctx context.Context, u *user.User) error {
	return h.store.UpdateUser(ctx, h.currentScope(), u)
}

func (h *Handle) SidebarCollapsed(ctx context.Context) (bool, error) {
	return h.store.SidebarCollapsed(ctx, h.currentScope())
}

func (h *Handle) SetSidebarCollapsed(ctx context.Context, collapsed bool) error {
	scope, err := h.ensureScope()
	if err != nil {
		return err
	}

	return h.store.SetSidebarCollapsed(ctx, scope, collapsed)
}

// PreferencesFromContext returns the preference view of the request's
// accessor when it has one.
func PreferencesFromContext(ctx context.Context) Preferences {
	if prefs, ok := FromContext(ctx).(Preferences); ok {
		return prefs
	}
	return detached{}
}

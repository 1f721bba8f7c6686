// AngelaMos | 2026
// guard_test.go

package guard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/agency-portal/internal/metrics"
	"github.com/carterperez-dev/agency-portal/internal/session"
	"github.com/carterperez-dev/agency-portal/internal/user"
)

type fakeAccessor struct {
	sess session.Session
	err  error
}

func (f fakeAccessor) Read(context.Context) (session.Session, error) {
	return f.sess, f.err
}

func (f fakeAccessor) Write(context.Context, string, *user.User) error { return nil }

func (f fakeAccessor) Clear(context.Context) error { return nil }

func (f fakeAccessor) UpdateUser(context.Context, *user.User) error { return nil }

func sessionFor(role user.Role, perms ...user.Permission) session.Session {
	return session.Session{
		Token:    "t1",
		User:     &user.User{ID: "u1", Role: role, Permissions: perms},
		LoggedIn: true,
	}
}

type pageSpy struct {
	rendered bool
}

func (p *pageSpy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.rendered = true
	w.WriteHeader(http.StatusOK)
}

func serve(h http.Handler, path string, acc session.Accessor) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req = req.WithContext(session.WithAccessor(req.Context(), acc))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestDecide(t *testing.T) {
	adminGuard := Config{RequiredRole: user.RoleAdmin, LoginRoute: "/admin/login"}

	tests := []struct {
		name     string
		sess     session.Session
		cfg      Config
		state    State
		redirect string
	}{
		{
			name:     "no session goes to login",
			sess:     session.Session{},
			cfg:      adminGuard,
			state:    Redirecting,
			redirect: "/admin/login",
		},
		{
			name:     "executive on admin guard goes to executive dashboard",
			sess:     sessionFor(user.RoleExecutive),
			cfg:      adminGuard,
			state:    Redirecting,
			redirect: "/business/executive",
		},
		{
			name:     "supAdmin gets no role bypass",
			sess:     sessionFor(user.RoleSupAdmin),
			cfg:      adminGuard,
			state:    Redirecting,
			redirect: "/supAdmin",
		},
		{
			name:  "matching role",
			sess:  sessionFor(user.RoleAdmin),
			cfg:   adminGuard,
			state: Authorized,
		},
		{
			name:     "missing permission falls back to role dashboard",
			sess:     sessionFor(user.RoleEditor),
			cfg:      Config{RequiredRole: user.RoleEditor, RequiredPermission: user.PermDeleteEditor},
			state:    Redirecting,
			redirect: "/business/editor",
		},
		{
			name: "missing permission uses configured fallback",
			sess: sessionFor(user.RoleEditor),
			cfg: Config{
				RequiredPermission: user.PermDeleteEditor,
				FallbackRoute:      "/business/editor/papers",
			},
			state:    Redirecting,
			redirect: "/business/editor/papers",
		},
		{
			name:  "granted permission",
			sess:  sessionFor(user.RoleEditor, user.PermDeleteEditor),
			cfg:   Config{RequiredRole: user.RoleEditor, RequiredPermission: user.PermDeleteEditor},
			state: Authorized,
		},
		{
			name:  "supAdmin bypasses permission guard",
			sess:  sessionFor(user.RoleSupAdmin),
			cfg:   Config{RequiredPermission: user.PermDeleteEditor},
			state: Authorized,
		},
		{
			name:     "login route defaults from required role",
			sess:     session.Session{},
			cfg:      Config{RequiredRole: user.RoleSupAdmin},
			state:    Redirecting,
			redirect: "/supAdmin/login",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(tt.sess, tt.cfg)
			assert.Equal(t, tt.state, d.State)
			assert.Equal(t, tt.redirect, d.Redirect)
		})
	}
}

func TestMiddleware_NoSessionNeverRendersPage(t *testing.T) {
	page := &pageSpy{}
	h := New(Config{RequiredRole: user.RoleAdmin, LoginRoute: "/admin/login"}).Middleware(page)

	rec := serve(h, "/admin", fakeAccessor{})

	assert.False(t, page.rendered)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/login", rec.Header().Get("Location"))
}

func TestMiddleware_WrongRoleScenario(t *testing.T) {
	page := &pageSpy{}
	h := New(Config{RequiredRole: user.RoleAdmin}).Middleware(page)

	rec := serve(h, "/admin", fakeAccessor{sess: sessionFor(user.RoleExecutive)})

	assert.False(t, page.rendered)
	assert.Equal(t, "/business/executive", rec.Header().Get("Location"))
}

func TestMiddleware_StorageErrorFailsClosed(t *testing.T) {
	page := &pageSpy{}
	h := New(Config{RequiredRole: user.RoleAdmin, LoginRoute: "/admin/login"}).Middleware(page)

	rec := serve(h, "/admin", fakeAccessor{err: assert.AnError})

	assert.False(t, page.rendered)
	assert.Equal(t, "/admin/login", rec.Header().Get("Location"))
}

func TestMiddleware_AuthorizedRendersAndCounts(t *testing.T) {
	before := testutil.ToFloat64(metrics.GuardDecisions.WithLabelValues("editor", "authorized"))

	page := &pageSpy{}
	h := New(Config{RequiredRole: user.RoleEditor}).Middleware(page)

	rec := serve(h, "/business/editor", fakeAccessor{sess: sessionFor(user.RoleEditor)})

	assert.True(t, page.rendered)
	assert.Equal(t, http.StatusOK, rec.Code)

	after := testutil.ToFloat64(metrics.GuardDecisions.WithLabelValues("editor", "authorized"))
	assert.InDelta(t, before+1, after, 0.0001)
}

func TestTable_LongestPrefixWins(t *testing.T) {
	table := DefaultTable()

	g, ok := table.Lookup("/business/editor/papers/42")
	require.True(t, ok)
	assert.Equal(t, user.RoleEditor, g.Config().RequiredRole)

	g, ok = table.Lookup("/business")
	require.True(t, ok)
	assert.Empty(t, g.Config().RequiredRole)

	g, ok = table.Lookup("/business/conversion/")
	require.True(t, ok)
	assert.Equal(t, user.RoleLeads, g.Config().RequiredRole)

	g, ok = table.Lookup("/supAdmin/system/stats")
	require.True(t, ok)
	assert.Equal(t, user.RoleSupAdmin, g.Config().RequiredRole)
}

func TestTable_PrefixMatchesWholeSegments(t *testing.T) {
	table := DefaultTable()

	_, ok := table.Lookup("/administrator")
	assert.False(t, ok)

	_, ok = table.Lookup("/api/session")
	assert.False(t, ok)
}

func TestTable_LoginRoutesExempt(t *testing.T) {
	table := DefaultTable()

	for _, route := range []string{"/login", "/admin/login", "/supAdmin/login/"} {
		_, ok := table.Lookup(route)
		assert.False(t, ok, route)
	}

	page := &pageSpy{}
	rec := serve(table.Middleware(page), "/admin/login", fakeAccessor{})
	assert.True(t, page.rendered)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTable_MiddlewareRedirectsByPrefix(t *testing.T) {
	page := &pageSpy{}
	h := DefaultTable().Middleware(page)

	rec := serve(h, "/business/author/papers", fakeAccessor{sess: sessionFor(user.RoleClient)})

	assert.False(t, page.rendered)
	assert.Equal(t, "/business/clients", rec.Header().Get("Location"))
}

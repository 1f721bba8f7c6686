// AngelaMos | 2026
// predicate_test.go

package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/agency-portal/internal/config"
	"github.com/carterperez-dev/agency-portal/internal/session"
	"github.com/carterperez-dev/agency-portal/internal/user"
)

type recordingNavigator struct {
	routes []string
}

func (n *recordingNavigator) Navigate(route string) {
	n.routes = append(n.routes, route)
}

type storeAccessor struct {
	store *session.Store
	scope string
}

func (a storeAccessor) Read(ctx context.Context) (session.Session, error) {
	return a.store.Read(ctx, a.scope)
}

func (a storeAccessor) Write(ctx context.Context, token string, u *user.User) error {
	return a.store.Write(ctx, a.scope, token, u)
}

func (a storeAccessor) Clear(ctx context.Context) error {
	return a.store.Clear(ctx, a.scope)
}

func (a storeAccessor) UpdateUser(ctx context.Context, u *user.User) error {
	return a.store.UpdateUser(ctx, a.scope, u)
}

func newAccessor(t *testing.T) storeAccessor {
	t.Helper()

	store := session.NewStore(session.NewMemoryStorage(), config.SessionConfig{
		TTL:       time.Hour,
		KeyPrefix: "test",
		Keys: config.StorageKeys{
			Token:     "token",
			User:      "user",
			LoginFlag: "isLoggedIn",
			Version:   "sessionVersion",
			Sidebar:   "sidebarCollapsed",
		},
	})

	return storeAccessor{store: store, scope: "browser-1"}
}

func TestDashboardRoute(t *testing.T) {
	tests := map[user.Role]string{
		user.RoleAdmin:     "/admin",
		user.RoleExecutive: "/business/executive",
		user.RoleEditor:    "/business/editor",
		user.RoleAuthor:    "/business/author",
		user.RoleClient:    "/business/clients",
		user.RoleLeads:     "/business/conversion",
		user.RoleSupAdmin:  "/supAdmin",
		"":                 "/business",
		"intern":           "/business",
	}

	for role, want := range tests {
		assert.Equal(t, want, DashboardRoute(role), "role %q", role)
	}
}

func TestLoginRoute(t *testing.T) {
	assert.Equal(t, "/admin/login", LoginRoute(user.RoleAdmin))
	assert.Equal(t, "/supAdmin/login", LoginRoute(user.RoleSupAdmin))
	assert.Equal(t, "/login", LoginRoute(user.RoleEditor))
	assert.Equal(t, "/login", LoginRoute(""))
}

func TestCheckAuth_NoSessionNavigatesOnce(t *testing.T) {
	acc := newAccessor(t)
	nav := &recordingNavigator{}

	ok := CheckAuth(context.Background(), acc, nav)

	assert.False(t, ok)
	require.Len(t, nav.routes, 1)
	assert.Equal(t, "/login", nav.routes[0])
}

func TestCheckAuth_NoSessionUsesHintLogin(t *testing.T) {
	acc := newAccessor(t)
	nav := &recordingNavigator{}

	assert.False(t, CheckAuth(context.Background(), acc, nav, user.RoleAdmin))
	assert.Equal(t, []string{"/admin/login"}, nav.routes)
}

func TestCheckAuth_WrongRoleGoesToOwnDashboard(t *testing.T) {
	ctx := context.Background()
	acc := newAccessor(t)
	require.NoError(t, acc.Write(ctx, "t1", &user.User{ID: "u1", Role: user.RoleExecutive}))

	nav := &recordingNavigator{}
	assert.False(t, CheckAuth(ctx, acc, nav, user.RoleAdmin))
	assert.Equal(t, []string{"/business/executive"}, nav.routes)
}

func TestCheckAuth_MatchingRole(t *testing.T) {
	ctx := context.Background()
	acc := newAccessor(t)
	require.NoError(t, acc.Write(ctx, "t1", &user.User{ID: "u1", Role: user.RoleAdmin}))

	nav := &recordingNavigator{}
	assert.True(t, CheckAuth(ctx, acc, nav, user.RoleAdmin))
	assert.True(t, CheckAuth(ctx, acc, nav))
	assert.Empty(t, nav.routes)
}

func TestPredicates_AfterClear(t *testing.T) {
	ctx := context.Background()
	acc := newAccessor(t)
	require.NoError(t, acc.Write(ctx, "t1", &user.User{ID: "u1", Role: user.RoleEditor}))

	assert.True(t, IsLoggedIn(ctx, acc))
	assert.Equal(t, user.RoleEditor, UserRole(ctx, acc))

	require.NoError(t, acc.Clear(ctx))

	assert.False(t, IsLoggedIn(ctx, acc))
	assert.Empty(t, UserRole(ctx, acc))
}

func TestCurrentUserHasPermission(t *testing.T) {
	ctx := context.Background()
	acc := newAccessor(t)

	assert.False(t, CurrentUserHasPermission(ctx, acc, user.PermDeleteEditor))

	require.NoError(t, acc.Write(ctx, "t1", &user.User{ID: "u1", Role: user.RoleSupAdmin}))
	assert.True(t, CurrentUserHasPermission(ctx, acc, user.PermDeleteEditor))

	require.NoError(t, acc.Write(ctx, "t2", &user.User{
		ID:          "u2",
		Role:        user.RoleEditor,
		Permissions: []user.Permission{user.PermAddEditor},
	}))
	assert.True(t, CurrentUserHasPermission(ctx, acc, user.PermAddEditor))
	assert.False(t, CurrentUserHasPermission(ctx, acc, user.PermDeleteEditor))
}

func TestHTTPNavigator_RedirectsOnce(t *testing.T) {
	rec := httptest.NewRecorder()
	nav := NewHTTPNavigator(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))

	nav.Navigate("/admin/login")
	nav.Navigate("/login")

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/login", rec.Header().Get("Location"))
	assert.Equal(t, "/admin/login", nav.Target())
}

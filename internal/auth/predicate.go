// AngelaMos | 2026
// predicate.go

package auth

import (
	"context"
	"net/http"

	"github.com/carterperez-dev/agency-portal/internal/core"
	"github.com/carterperez-dev/agency-portal/internal/session"
	"github.com/carterperez-dev/agency-portal/internal/user"
)

const DefaultLoginRoute = "/login"

var dashboards = map[user.Role]string{
	user.RoleAdmin:     "/admin",
	user.RoleExecutive: "/business/executive",
	user.RoleEditor:    "/business/editor",
	user.RoleAuthor:    "/business/author",
	user.RoleClient:    "/business/clients",
	user.RoleLeads:     "/business/conversion",
	user.RoleSupAdmin:  "/supAdmin",
}

const defaultDashboard = "/business"

// DashboardRoute is the landing route for role. Unknown and empty roles
// land on /business.
func DashboardRoute(role user.Role) string {
	if route, ok := dashboards[role]; ok {
		return route
	}
	return defaultDashboard
}

// LoginRoute is the login page of the portal role belongs to.
func LoginRoute(role user.Role) string {
	switch role {
	case user.RoleAdmin:
		return "/admin/login"
	case user.RoleSupAdmin:
		return "/supAdmin/login"
	default:
		return DefaultLoginRoute
	}
}

// LoginRoutes lists every login page so guards can exempt them.
func LoginRoutes() []string {
	return []string{DefaultLoginRoute, "/admin/login", "/supAdmin/login"}
}

func readSession(ctx context.Context, acc session.Accessor) session.Session {
	sess, err := acc.Read(ctx)
	if err != nil {
		core.Logger(ctx).Error("session read failed", "error", err)
		return session.Session{}
	}
	return sess
}

// IsLoggedIn is true iff the scope holds both a token and a user. A
// storage failure counts as logged out.
func IsLoggedIn(ctx context.Context, acc session.Accessor) bool {
	return readSession(ctx, acc).Present()
}

func UserRole(ctx context.Context, acc session.Accessor) user.Role {
	sess := readSession(ctx, acc)
	if !sess.Present() {
		return ""
	}
	return sess.Role()
}

func CurrentUserHasPermission(
	ctx context.Context,
	acc session.Accessor,
	perm user.Permission,
) bool {
	sess := readSession(ctx, acc)
	if !sess.Present() {
		return false
	}
	return user.HasPermission(sess.User, perm)
}

// Navigator performs the redirect a failed check asks for.
type Navigator interface {
	Navigate(route string)
}

// HTTPNavigator answers with a 303 and ignores any navigation after the
// first.
type HTTPNavigator struct {
	w      http.ResponseWriter
	r      *http.Request
	target string
}

func NewHTTPNavigator(w http.ResponseWriter, r *http.Request) *HTTPNavigator {
	return &HTTPNavigator{w: w, r: r}
}

func (n *HTTPNavigator) Navigate(route string) {
	if n.target != "" {
		return
	}
	n.target = route
	http.Redirect(n.w, n.r, route, http.StatusSeeOther)
}

func (n *HTTPNavigator) Target() string {
	return n.target
}

// CheckAuth redirects through nav and returns false when the scope has no
// session, or when requiredRole is given and the session role differs.
// Callers must stop handling the request when it returns false.
func CheckAuth(
	ctx context.Context,
	acc session.Accessor,
	nav Navigator,
	requiredRole ...user.Role,
) bool {
	var hint user.Role
	if len(requiredRole) > 0 {
		hint = requiredRole[0]
	}

	sess := readSession(ctx, acc)
	if !sess.Present() {
		nav.Navigate(LoginRoute(hint))
		return false
	}

	if hint != "" && sess.Role() != hint {
		nav.Navigate(DashboardRoute(sess.Role()))
		return false
	}

	return true
}

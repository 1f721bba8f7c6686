// AngelaMos | 2026
// guard.go

package guard

import (
	"net/http"

	"github.com/carterperez-dev/agency-portal/internal/auth"
	"github.com/carterperez-dev/agency-portal/internal/core"
	"github.com/carterperez-dev/agency-portal/internal/metrics"
	"github.com/carterperez-dev/agency-portal/internal/session"
	"github.com/carterperez-dev/agency-portal/internal/user"
)

type State string

const (
	Checking    State = "checking"
	Authorized  State = "authorized"
	Redirecting State = "redirecting"
)

// Config describes one guard. An empty RequiredRole admits any role and an
// empty RequiredPermission skips the permission check.
type Config struct {
	Name               string
	RequiredRole       user.Role
	RequiredPermission user.Permission
	LoginRoute         string
	FallbackRoute      string
}

type Decision struct {
	State    State
	Redirect string
}

// Decide applies the guard rules in order: no session, role mismatch,
// missing permission. Role matching is exact.
func Decide(sess session.Session, cfg Config) Decision {
	if !sess.Present() {
		return Decision{State: Redirecting, Redirect: cfg.loginRoute()}
	}

	role := sess.Role()

	if cfg.RequiredRole != "" && role != cfg.RequiredRole {
		return Decision{State: Redirecting, Redirect: auth.DashboardRoute(role)}
	}

	if cfg.RequiredPermission != "" &&
		!user.HasPermission(sess.User, cfg.RequiredPermission) {
		fallback := cfg.FallbackRoute
		if fallback == "" {
			fallback = auth.DashboardRoute(role)
		}
		return Decision{State: Redirecting, Redirect: fallback}
	}

	return Decision{State: Authorized}
}

func (c Config) loginRoute() string {
	if c.LoginRoute != "" {
		return c.LoginRoute
	}
	return auth.LoginRoute(c.RequiredRole)
}

func (c Config) name() string {
	switch {
	case c.Name != "":
		return c.Name
	case c.RequiredRole != "":
		return string(c.RequiredRole)
	case c.RequiredPermission != "":
		return string(c.RequiredPermission)
	default:
		return "session"
	}
}

type Guard struct {
	cfg Config
}

func New(cfg Config) *Guard {
	return &Guard{cfg: cfg}
}

// Permission builds a guard that only checks perm; mount it inside a role
// guard.
func Permission(perm user.Permission) *Guard {
	return New(Config{RequiredPermission: perm})
}

func (g *Guard) Config() Config {
	return g.cfg
}

// Middleware writes nothing until the decision is made and runs next only
// when the request is authorized.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := core.Logger(ctx)

		sess, err := session.FromContext(ctx).Read(ctx)
		if err != nil {
			logger.Error("guard could not read session", "error", err)
			sess = session.Session{}
		}

		d := Decide(sess, g.cfg)

		metrics.RecordGuardDecision(g.cfg.name(), string(d.State))
		logger.Debug("guard decision",
			"guard", g.cfg.name(),
			"path", r.URL.Path,
			"state", d.State,
			"redirect", d.Redirect,
		)

		if d.State != Authorized {
			auth.NewHTTPNavigator(w, r).Navigate(d.Redirect)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// AngelaMos | 2026
// table.go

package guard

import (
	"net/http"
	"sort"
	"strings"

	"github.com/carterperez-dev/agency-portal/internal/auth"
	"github.com/carterperez-dev/agency-portal/internal/user"
)

type entry struct {
	prefix string
	guard  *Guard
}

// Table picks a guard by the longest route prefix matching the request.
type Table struct {
	entries []entry
	exempt  map[string]struct{}
}

func NewTable(guards map[string]Config, exempt ...string) *Table {
	t := &Table{
		entries: make([]entry, 0, len(guards)),
		exempt:  make(map[string]struct{}, len(exempt)),
	}

	for prefix, cfg := range guards {
		t.entries = append(t.entries, entry{
			prefix: strings.TrimRight(prefix, "/"),
			guard:  New(cfg),
		})
	}

	sort.Slice(t.entries, func(i, j int) bool {
		return len(t.entries[i].prefix) > len(t.entries[j].prefix)
	})

	for _, route := range exempt {
		t.exempt[strings.TrimRight(route, "/")] = struct{}{}
	}

	return t
}

// DefaultTable guards every role portal. /business on its own only needs a
// session; it is the landing page for roles without a dashboard.
func DefaultTable() *Table {
	return NewTable(map[string]Config{
		"/admin": {
			RequiredRole: user.RoleAdmin,
			LoginRoute:   auth.LoginRoute(user.RoleAdmin),
		},
		"/business": {
			Name:       "business",
			LoginRoute: auth.DefaultLoginRoute,
		},
		"/business/executive": {
			RequiredRole: user.RoleExecutive,
			LoginRoute:   auth.DefaultLoginRoute,
		},
		"/business/editor": {
			RequiredRole: user.RoleEditor,
			LoginRoute:   auth.DefaultLoginRoute,
		},
		"/business/author": {
			RequiredRole: user.RoleAuthor,
			LoginRoute:   auth.DefaultLoginRoute,
		},
		"/business/clients": {
			RequiredRole: user.RoleClient,
			LoginRoute:   auth.DefaultLoginRoute,
		},
		"/business/conversion": {
			RequiredRole: user.RoleLeads,
			LoginRoute:   auth.DefaultLoginRoute,
		},
		"/supAdmin": {
			RequiredRole: user.RoleSupAdmin,
			LoginRoute:   auth.LoginRoute(user.RoleSupAdmin),
		},
	}, auth.LoginRoutes()...)
}

func matches(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// Lookup returns the guard for path. Exempt routes and unguarded paths
// return false.
func (t *Table) Lookup(path string) (*Guard, bool) {
	clean := strings.TrimRight(path, "/")
	if clean == "" {
		clean = "/"
	}

	if _, ok := t.exempt[clean]; ok {
		return nil, false
	}

	for _, e := range t.entries {
		if matches(clean, e.prefix) {
			return e.guard, true
		}
	}

	return nil, false
}

func (t *Table) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		g, ok := t.Lookup(r.URL.Path)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		g.Middleware(next).ServeHTTP(w, r)
	})
}

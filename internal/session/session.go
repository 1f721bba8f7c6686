// AngelaMos | 2026
// session.go

package session

import (
	"errors"

	"github.com/carterperez-dev/agency-portal/internal/user"
)

// SchemaVersion tags every write so older shapes can be rejected on read.
const SchemaVersion = "1"

var (
	ErrNoSession         = errors.New("no active session")
	ErrIncompleteSession = errors.New("session requires both token and user")
)

// Session is the token and cached user pair held for one browser scope.
// The zero value means "no session".
type Session struct {
	Token    string
	User     *user.User
	LoggedIn bool
}

// Present reports whether both halves of the session exist.
func (s Session) Present() bool {
	return s.Token != "" && s.User != nil
}

func (s Session) Role() user.Role {
	if s.User == nil {
		return ""
	}
	return s.User.Role
}

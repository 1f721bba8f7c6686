// AngelaMos | 2026
// entity.go

package user

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleExecutive Role = "executive"
	RoleEditor    Role = "editor"
	RoleAuthor    Role = "author"
	RoleClient    Role = "client"
	RoleLeads     Role = "leads"
	RoleSupAdmin  Role = "supAdmin"
)

var roles = []Role{
	RoleAdmin,
	RoleExecutive,
	RoleEditor,
	RoleAuthor,
	RoleClient,
	RoleLeads,
	RoleSupAdmin,
}

func Roles() []Role {
	out := make([]Role, len(roles))
	copy(out, roles)
	return out
}

func (r Role) Valid() bool {
	for _, known := range roles {
		if r == known {
			return true
		}
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// User is the cached copy of the backend account held by a session.
// Permissions is nil when the backend sends none.
type User struct {
	ID          string       `json:"id"`
	Username    string       `json:"username"`
	Email       string       `json:"email"`
	Name        string       `json:"name,omitempty"`
	Role        Role         `json:"role"`
	Permissions []Permission `json:"permissions,omitempty"`
	IsProtected bool         `json:"isProtected,omitempty"`
}

func (u *User) IsSupAdmin() bool {
	return u != nil && u.Role == RoleSupAdmin
}

func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Permissions != nil {
		c.Permissions = make([]Permission, len(u.Permissions))
		copy(c.Permissions, u.Permissions)
	}
	return &c
}

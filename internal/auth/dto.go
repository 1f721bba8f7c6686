// AngelaMos | 2026
// dto.go

package auth

import (
	"github.com/carterperez-dev/agency-portal/internal/user"
)

type LoginRequest struct {
	Email    string    `json:"email"    validate:"required,email,max=255"`
	Password string    `json:"password" validate:"required,min=1,max=128"`
	Portal   user.Role `json:"portal"   validate:"omitempty,oneof=admin supAdmin"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Name     string `json:"name"     validate:"omitempty,max=100"`
}

// backendCredentials is the body the backend's login endpoint expects.
type backendCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type backendLoginResponse struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

type SessionResponse struct {
	User       *user.User `json:"user"`
	Redirect   string     `json:"redirect"`
	LoginRoute string     `json:"login_route"`
}

type LogoutResponse struct {
	Redirect string `json:"redirect"`
}

type LoginPage struct {
	Portal user.Role `json:"portal,omitempty"`
	Action string    `json:"action"`
}

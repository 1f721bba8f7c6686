// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/carterperez-dev/agency-portal/internal/core"
	"github.com/carterperez-dev/agency-portal/internal/session"
	"github.com/carterperez-dev/agency-portal/internal/user"
)

var (
	ErrMalformedLogin = errors.New("backend login response lacks token or user")
	ErrWrongPortal    = errors.New("account cannot sign in to this portal")
)

// Backend is the slice of the API gateway the session flows need.
type Backend interface {
	Post(ctx context.Context, path string, body, out any) error
}

type Service struct {
	backend Backend
}

func NewService(backend Backend) *Service {
	return &Service{backend: backend}
}

// Login exchanges credentials for a token and persists the session. The
// accessor starts it under a newly issued scope id.
func (s *Service) Login(
	ctx context.Context,
	acc session.Accessor,
	req LoginRequest,
) (*SessionResponse, error) {
	var resp backendLoginResponse
	err := s.backend.Post(ctx, "/auth/login", backendCredentials{
		Email:    req.Email,
		Password: req.Password,
	}, &resp)
	if err != nil {
		return nil, err
	}

	if resp.Token == "" || resp.User == nil || resp.User.ID == "" {
		return nil, ErrMalformedLogin
	}

	if req.Portal != "" && resp.User.Role != req.Portal {
		return nil, ErrWrongPortal
	}

	if err := acc.Write(ctx, resp.Token, resp.User); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	core.Logger(ctx).Info("session started",
		"user_id", resp.User.ID,
		"role", resp.User.Role,
	)

	return &SessionResponse{
		User:       resp.User,
		Redirect:   DashboardRoute(resp.User.Role),
		LoginRoute: LoginRoute(resp.User.Role),
	}, nil
}

// Register creates an account on the backend. It does not sign the caller
// in.
func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
) (json.RawMessage, error) {
	var created json.RawMessage
	if err := s.backend.Post(ctx, "/auth/create-account", req, &created); err != nil {
		return nil, err
	}
	return created, nil
}

// Logout clears the session and tells the backend on a best-effort basis.
// It returns the login route of the portal the user was in.
func (s *Service) Logout(ctx context.Context, acc session.Accessor) (string, error) {
	sess, err := acc.Read(ctx)
	if err != nil {
		core.Logger(ctx).Warn("session read failed during logout", "error", err)
	}

	var role user.Role
	if sess.Present() {
		role = sess.Role()
		if err := s.backend.Post(ctx, "/auth/logout", nil, nil); err != nil {
			core.Logger(ctx).Warn("backend logout failed", "error", err)
		}
	}

	if err := acc.Clear(ctx); err != nil {
		return "", fmt.Errorf("clear session: %w", err)
	}

	return LoginRoute(role), nil
}

func (s *Service) Current(
	ctx context.Context,
	acc session.Accessor,
) (*SessionResponse, error) {
	sess, err := acc.Read(ctx)
	if err != nil {
		return nil, err
	}

	if !sess.Present() {
		return nil, session.ErrNoSession
	}

	return &SessionResponse{
		User:       sess.User,
		Redirect:   DashboardRoute(sess.Role()),
		LoginRoute: LoginRoute(sess.Role()),
	}, nil
}

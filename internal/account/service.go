// AngelaMos | 2026
// service.go

package account

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/carterperez-dev/agency-portal/internal/core"
	"github.com/carterperez-dev/agency-portal/internal/session"
	"github.com/carterperez-dev/agency-portal/internal/user"
)

var ErrProtectedAccount = errors.New("account is protected from edits")

// Backend is the slice of the API gateway the account flows need.
type Backend interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Post(ctx context.Context, path string, body, out any) error
}

type Service struct {
	backend Backend
}

func NewService(backend Backend) *Service {
	return &Service{backend: backend}
}

// Me fetches the signed-in user and refreshes the cached copy.
func (s *Service) Me(ctx context.Context, acc session.Accessor) (*user.User, error) {
	var u user.User
	if err := s.backend.Get(ctx, "/users/me", nil, &u); err != nil {
		return nil, err
	}

	if u.ID == "" {
		return nil, core.UpstreamError("unexpected response from server", 0)
	}

	if err := acc.UpdateUser(ctx, &u); err != nil {
		core.Logger(ctx).Warn("cached user refresh failed", "error", err)
	}

	return &u, nil
}

// UpdateProfile saves the profile on the backend and replaces the cached
// user. The token is left untouched.
func (s *Service) UpdateProfile(
	ctx context.Context,
	acc session.Accessor,
	req UpdateProfileRequest,
) (*user.User, error) {
	sess, err := acc.Read(ctx)
	if err != nil {
		return nil, err
	}

	if !sess.Present() {
		return nil, session.ErrNoSession
	}

	if sess.User.IsProtected {
		return nil, ErrProtectedAccount
	}

	var updated user.User
	if err := s.backend.Put(ctx, "/users/me", req, &updated); err != nil {
		return nil, err
	}

	if updated.ID == "" {
		updated = *applyProfile(sess.User, req)
	}

	if err := acc.UpdateUser(ctx, &updated); err != nil {
		return nil, fmt.Errorf("update cached user: %w", err)
	}

	core.Logger(ctx).Info("profile updated", "user_id", updated.ID)

	return &updated, nil
}

func (s *Service) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	return s.backend.Post(ctx, "/users/change-password", backendPasswordChange{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	}, nil)
}

// applyProfile is used when the backend acknowledges an update without
// echoing the user back.
func applyProfile(current *user.User, req UpdateProfileRequest) *user.User {
	u := current.Clone()
	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Username != nil {
		u.Username = *req.Username
	}
	if req.Email != nil {
		u.Email = *req.Email
	}
	return u
}

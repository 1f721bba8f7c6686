// AngelaMos | 2026
// store.go

package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/carterperez-dev/agency-portal/internal/config"
	"github.com/carterperez-dev/agency-portal/internal/core"
	"github.com/carterperez-dev/agency-portal/internal/user"
)

const loginFlagValue = "true"

type Store struct {
	storage Storage
	keys    config.StorageKeys
	prefix  string
	ttl     time.Duration
}

func NewStore(storage Storage, cfg config.SessionConfig) *Store {
	return &Store{
		storage: storage,
		keys:    cfg.Keys,
		prefix:  cfg.KeyPrefix,
		ttl:     cfg.TTL,
	}
}

func (s *Store) storageKey(scope string) string {
	return s.prefix + ":" + core.HashToken(scope)
}

// Write persists token, user, login flag and version tag in one save.
func (s *Store) Write(
	ctx context.Context,
	scope, token string,
	u *user.User,
) error {
	if token == "" || u == nil {
		return ErrIncompleteSession
	}

	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode session user: %w", err)
	}

	values := map[string]string{
		s.keys.Token:     token,
		s.keys.User:      string(raw),
		s.keys.LoginFlag: loginFlagValue,
		s.keys.Version:   SchemaVersion,
	}

	if err := s.storage.Save(ctx, s.storageKey(scope), values, s.ttl); err != nil {
		return fmt.Errorf("write session: %w", err)
	}

	return nil
}

// Read returns the persisted session. Malformed data is logged and reported
// as an empty session, never as an error. Token freshness is not checked.
func (s *Store) Read(ctx context.Context, scope string) (Session, error) {
	if scope == "" {
		return Session{}, nil
	}

	values, err := s.storage.Load(ctx, s.storageKey(scope))
	if err != nil {
		return Session{}, fmt.Errorf("read session: %w", err)
	}

	token, hasToken := values[s.keys.Token]
	rawUser, hasUser := values[s.keys.User]

	if !hasToken && !hasUser {
		return Session{}, nil
	}

	sess, reason := s.decode(token, rawUser, values)
	if reason != "" {
		core.Logger(ctx).Warn("discarding malformed session",
			"reason", reason,
		)
		return Session{}, nil
	}

	return sess, nil
}

func (s *Store) decode(
	token, rawUser string,
	values map[string]string,
) (Session, string) {
	if token == "" {
		return Session{}, "user without token"
	}

	if rawUser == "" {
		return Session{}, "token without user"
	}

	if v := values[s.keys.Version]; v != SchemaVersion {
		return Session{}, "unknown schema version " + strconv.Quote(v)
	}

	var u user.User
	if err := json.Unmarshal([]byte(rawUser), &u); err != nil {
		return Session{}, "corrupt user record"
	}

	return Session{
		Token:    token,
		User:     &u,
		LoggedIn: values[s.keys.LoginFlag] == loginFlagValue,
	}, ""
}

// Clear removes the session values. The sidebar preference survives.
func (s *Store) Clear(ctx context.Context, scope string) error {
	if scope == "" {
		return nil
	}

	err := s.storage.Remove(ctx, s.storageKey(scope),
		s.keys.Token,
		s.keys.User,
		s.keys.LoginFlag,
		s.keys.Version,
	)
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}

	return nil
}

// Discard removes every value of the scope, the sidebar preference
// included.
func (s *Store) Discard(ctx context.Context, scope string) error {
	if scope == "" {
		return nil
	}

	err := s.storage.Remove(ctx, s.storageKey(scope),
		s.keys.Token,
		s.keys.User,
		s.keys.LoginFlag,
		s.keys.Version,
		s.keys.Sidebar,
	)
	if err != nil {
		return fmt.Errorf("discard scope: %w", err)
	}

	return nil
}

// UpdateUser replaces the cached user of an existing session and keeps
// its token.
func (s *Store) UpdateUser(
	ctx context.Context,
	scope string,
	u *user.User,
) error {
	if u == nil {
		return ErrIncompleteSession
	}

	current, err := s.Read(ctx, scope)
	if err != nil {
		return err
	}

	if !current.Present() {
		return ErrNoSession
	}

	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode session user: %w", err)
	}

	values := map[string]string{
		s.keys.User:    string(raw),
		s.keys.Version: SchemaVersion,
	}

	if err := s.storage.Save(ctx, s.storageKey(scope), values, s.ttl); err != nil {
		return fmt.Errorf("update session user: %w", err)
	}

	return nil
}

func (s *Store) SidebarCollapsed(ctx context.Context, scope string) (bool, error) {
	if scope == "" {
		return false, nil
	}

	values, err := s.storage.Load(ctx, s.storageKey(scope))
	if err != nil {
		return false, fmt.Errorf("read sidebar preference: %w", err)
	}

	collapsed, err := strconv.ParseBool(values[s.keys.Sidebar])
	if err != nil {
		return false, nil
	}

	return collapsed, nil
}

func (s *Store) SetSidebarCollapsed(
	ctx context.Context,
	scope string,
	collapsed bool,
) error {
	values := map[string]string{
		s.keys.Sidebar: strconv.FormatBool(collapsed),
	}

	if err := s.storage.Save(ctx, s.storageKey(scope), values, s.ttl); err != nil {
		return fmt.Errorf("write sidebar preference: %w", err)
	}

	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.storage.Ping(ctx)
}

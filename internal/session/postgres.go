// AngelaMos | 2026
// postgres.go

package session

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/agency-portal/internal/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS portal_session_values (
	scope_key  TEXT        NOT NULL,
	name       TEXT        NOT NULL,
	value      TEXT        NOT NULL,
	expires_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (scope_key, name)
);
CREATE INDEX IF NOT EXISTS idx_portal_session_values_expires_at
	ON portal_session_values (expires_at);`

type sessionValue struct {
	Name  string `db:"name"`
	Value string `db:"value"`
}

// PostgresStorage keeps one row per named value. Expired rows are invisible
// to Load and removed by Purge.
type PostgresStorage struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewPostgresStorage(db *sqlx.DB) *PostgresStorage {
	return &PostgresStorage{db: db, now: time.Now}
}

func (p *PostgresStorage) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create session schema: %w", err)
	}
	return nil
}

func (p *PostgresStorage) Load(
	ctx context.Context,
	key string,
) (map[string]string, error) {
	query := `
		SELECT name, value
		FROM portal_session_values
		WHERE scope_key = $1 AND expires_at > $2`

	var rows []sessionValue
	if err := p.db.SelectContext(ctx, &rows, query, key, p.now()); err != nil {
		return nil, fmt.Errorf("load session values: %w", err)
	}

	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.Name] = row.Value
	}

	return values, nil
}

func (p *PostgresStorage) Save(
	ctx context.Context,
	key string,
	values map[string]string,
	ttl time.Duration,
) error {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	now := p.now()
	expiresAt := now.Add(ttl)

	upsert := `
		INSERT INTO portal_session_values (scope_key, name, value, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (scope_key, name)
		DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at`

	return core.InTx(ctx, p.db, func(tx *sqlx.Tx) error {
		// a scope that already expired must not leak old values into the new one
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM portal_session_values WHERE scope_key = $1 AND expires_at <= $2`,
			key, now,
		); err != nil {
			return fmt.Errorf("drop expired session values: %w", err)
		}

		for _, name := range names {
			if _, err := tx.ExecContext(
				ctx, upsert, key, name, values[name], expiresAt,
			); err != nil {
				return fmt.Errorf("upsert session value %s: %w", name, err)
			}
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE portal_session_values SET expires_at = $2 WHERE scope_key = $1`,
			key, expiresAt,
		); err != nil {
			return fmt.Errorf("refresh session expiry: %w", err)
		}

		return nil
	})
}

func (p *PostgresStorage) Remove(
	ctx context.Context,
	key string,
	names ...string,
) error {
	if len(names) == 0 {
		return nil
	}

	query, args, err := sqlx.In(
		`DELETE FROM portal_session_values WHERE scope_key = ? AND name IN (?)`,
		key, names,
	)
	if err != nil {
		return fmt.Errorf("build session delete: %w", err)
	}

	if _, err := p.db.ExecContext(ctx, p.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("remove session values: %w", err)
	}

	return nil
}

// Purge deletes expired rows and returns how many were removed.
func (p *PostgresStorage) Purge(ctx context.Context) (int64, error) {
	result, err := p.db.ExecContext(ctx,
		`DELETE FROM portal_session_values WHERE expires_at <= $1`,
		p.now(),
	)
	if err != nil {
		return 0, fmt.Errorf("purge expired sessions: %w", err)
	}

	return result.RowsAffected()
}

// RunJanitor purges expired rows every interval until ctx is done.
func (p *PostgresStorage) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := p.Purge(ctx)
			if err != nil {
				core.Logger(ctx).Warn("session purge failed", "error", err)
				continue
			}
			if removed > 0 {
				core.Logger(ctx).Debug("purged expired sessions", "rows", removed)
			}
		}
	}
}

func (p *PostgresStorage) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := p.db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

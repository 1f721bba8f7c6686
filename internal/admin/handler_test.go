// AngelaMos | 2026
// handler_test.go

package admin

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type purgerFunc func(ctx context.Context) (int64, error)

func (f purgerFunc) Purge(ctx context.Context) (int64, error) { return f(ctx) }

func serve(h *Handler, method, path string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestSystemStats_RedisDriver(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	h := NewHandler(HandlerConfig{
		Driver: "redis",
		StoragePing: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
		BackendPing: func(context.Context) error { return errors.New("timeout") },
		RedisStats:  client.PoolStats,
	})

	rec := serve(h, http.MethodGet, "/supAdmin/system/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data SystemStatsResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))

	assert.Equal(t, "redis", body.Data.SessionStorage.Driver)
	assert.True(t, body.Data.SessionStorage.Healthy)
	assert.NotNil(t, body.Data.SessionStorage.Redis)
	assert.Nil(t, body.Data.SessionStorage.Database)
	assert.False(t, body.Data.Backend.Healthy)
	assert.NotEmpty(t, body.Data.Runtime.GoVersion)
}

func TestSystemStats_DatabaseStats(t *testing.T) {
	h := NewHandler(HandlerConfig{
		Driver:      "postgres",
		StoragePing: func(context.Context) error { return nil },
		DBStats: func() sql.DBStats {
			return sql.DBStats{MaxOpenConnections: 10, OpenConnections: 3, InUse: 1, Idle: 2}
		},
	})

	rec := serve(h, http.MethodGet, "/supAdmin/system/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data SystemStatsResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.NotNil(t, body.Data.SessionStorage.Database)
	assert.Equal(t, 10, body.Data.SessionStorage.Database.MaxOpenConnections)
	assert.Equal(t, 2, body.Data.SessionStorage.Database.Idle)
	assert.False(t, body.Data.Backend.Healthy, "unconfigured ping reports unhealthy")
}

func TestPurgeSessions(t *testing.T) {
	h := NewHandler(HandlerConfig{
		Purger: purgerFunc(func(context.Context) (int64, error) { return 4, nil }),
	})

	rec := serve(h, http.MethodPost, "/supAdmin/system/sessions/purge")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"removed":4`)
}

func TestPurgeSessions_NotMountedWithoutPurger(t *testing.T) {
	h := NewHandler(HandlerConfig{Driver: "redis"})

	rec := serve(h, http.MethodPost, "/supAdmin/system/sessions/purge")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// AngelaMos | 2026
// redis_test.go

package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewStore(NewRedisStorage(client), testSessionConfig()), mr
}

func TestRedisStorage_WriteReadClear(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "scope-1", "t1", executive()))

	key := store.storageKey("scope-1")
	assert.True(t, mr.Exists(key))
	assert.Equal(t, "t1", mr.HGet(key, "token"))
	assert.Equal(t, "true", mr.HGet(key, "isLoggedIn"))
	assert.Equal(t, SchemaVersion, mr.HGet(key, "sessionVersion"))

	sess, err := store.Read(ctx, "scope-1")
	require.NoError(t, err)
	assert.Equal(t, executive(), sess.User)

	require.NoError(t, store.Clear(ctx, "scope-1"))

	sess, err = store.Read(ctx, "scope-1")
	require.NoError(t, err)
	assert.False(t, sess.Present())
	assert.False(t, mr.Exists(key))
}

func TestRedisStorage_ScopeExpires(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "scope-1", "t1", executive()))
	assert.Equal(t, time.Hour, mr.TTL(store.storageKey("scope-1")))

	mr.FastForward(time.Hour + time.Second)

	sess, err := store.Read(ctx, "scope-1")
	require.NoError(t, err)
	assert.False(t, sess.Present())
}

func TestRedisStorage_SidebarSurvivesClear(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "scope-1", "t1", executive()))
	require.NoError(t, store.SetSidebarCollapsed(ctx, "scope-1", true))
	require.NoError(t, store.Clear(ctx, "scope-1"))

	assert.Equal(t, "true", mr.HGet(store.storageKey("scope-1"), "sidebarCollapsed"))

	collapsed, err := store.SidebarCollapsed(ctx, "scope-1")
	require.NoError(t, err)
	assert.True(t, collapsed)
}

func TestRedisStorage_ReadFailsWhenRedisDown(t *testing.T) {
	store, mr := newRedisStore(t)
	mr.Close()

	_, err := store.Read(context.Background(), "scope-1")
	assert.Error(t, err)
	assert.Error(t, store.Ping(context.Background()))
}

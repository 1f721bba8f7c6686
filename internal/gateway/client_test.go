// AngelaMos | 2026
// client_test.go

package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/agency-portal/internal/config"
	"github.com/carterperez-dev/agency-portal/internal/session"
	"github.com/carterperez-dev/agency-portal/internal/user"
)

type fakeAccessor struct {
	mu      sync.Mutex
	sess    session.Session
	cleared int
}

func loggedIn(token string) *fakeAccessor {
	return &fakeAccessor{sess: session.Session{
		Token:    token,
		User:     &user.User{ID: "u1", Role: user.RoleEditor},
		LoggedIn: true,
	}}
}

func (f *fakeAccessor) Read(context.Context) (session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sess, nil
}

func (f *fakeAccessor) Write(_ context.Context, token string, u *user.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sess = session.Session{Token: token, User: u, LoggedIn: true}
	return nil
}

func (f *fakeAccessor) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sess = session.Session{}
	f.cleared++
	return nil
}

func (f *fakeAccessor) UpdateUser(_ context.Context, u *user.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sess.User = u
	return nil
}

type capture struct {
	mu      sync.Mutex
	headers []http.Header
	paths   []string
}

func (c *capture) record(r *http.Request) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.headers = append(c.headers, r.Header.Clone())
	c.paths = append(c.paths, r.URL.Path)
}

func (c *capture) last() http.Header {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.headers[len(c.headers)-1]
}

func newBackend(t *testing.T, h http.HandlerFunc) (*Client, *capture) {
	t.Helper()

	seen := &capture{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen.record(r)
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := New(config.BackendConfig{
		BaseURL:         srv.URL + "/api",
		Timeout:         5 * time.Second,
		PublicEndpoints: []string{"/auth/login", "/auth/create-account", "/health"},
		LoginRoute:      "/login",
	})
	require.NoError(t, err)

	return client, seen
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestClient_AttachesBearerToPrivateCalls(t *testing.T) {
	client, seen := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"id": "p1", "name": "Acme"},
		})
	})

	ctx := session.WithAccessor(context.Background(), loggedIn("t1"))

	var out struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, client.Get(ctx, "/prospects/p1", nil, &out))

	assert.Equal(t, "Bearer t1", seen.last().Get("Authorization"))
	assert.NotEmpty(t, seen.last().Get("X-Request-ID"))
	assert.Equal(t, "/api/prospects/p1", seen.paths[0])
	assert.Equal(t, "Acme", out.Name)
}

func TestClient_PublicEndpointsNeverCarryToken(t *testing.T) {
	client, seen := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	})

	ctx := session.WithAccessor(context.Background(), loggedIn("t1"))

	for _, path := range []string{"/auth/login", "/auth/create-account", "/health"} {
		require.NoError(t, client.Post(ctx, path, map[string]string{"a": "b"}, nil))
		assert.Empty(t, seen.last().Get("Authorization"), path)
	}
}

func TestClient_NoTokenSendsUnauthenticated(t *testing.T) {
	client, seen := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": []int{}})
	})

	require.NoError(t, client.Get(context.Background(), "/leads", nil, nil))
	assert.Empty(t, seen.last().Get("Authorization"))
}

func TestClient_401ClearsSessionAndReturnsUnauthorized(t *testing.T) {
	client, _ := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"success": false,
			"message": "jwt expired",
		})
	})

	acc := loggedIn("t1")
	ctx := session.WithAccessor(context.Background(), acc)

	err := client.Get(ctx, "/users/me", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 1, acc.cleared)

	sess, _ := acc.Read(ctx)
	assert.False(t, sess.Present())
}

func TestClient_401OnLoginDoesNotClear(t *testing.T) {
	client, _ := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"success": false,
			"error":   "invalid credentials",
		})
	})

	acc := loggedIn("t1")
	ctx := session.WithAccessor(context.Background(), acc)

	err := client.Post(ctx, "/auth/login", map[string]string{}, nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 0, acc.cleared)
	assert.Equal(t, "invalid credentials", HandleError(err).Error)
}

func TestClient_SuccessFalseIsAnError(t *testing.T) {
	client, _ := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": false,
			"message": "quotation already approved",
		})
	})

	err := client.Post(context.Background(), "/quotations/q1/approve", nil, nil)
	require.Error(t, err)

	var gwErr *Error
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, KindResponse, gwErr.Kind)
	assert.Equal(t, "quotation already approved", HandleError(err).Error)
}

func TestHandleError_ResponseWithoutMessageUsesStatus(t *testing.T) {
	client, _ := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := client.Get(context.Background(), "/dashboard/admin", nil, nil)
	assert.Equal(t, "request failed with status code 500", HandleError(err).Error)
}

func TestHandleError_NoResponse(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	client, err := New(config.BackendConfig{BaseURL: "http://" + addr, Timeout: time.Second})
	require.NoError(t, err)

	err = client.Get(context.Background(), "/leads", nil, nil)

	var gwErr *Error
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, KindNoResponse, gwErr.Kind)
	assert.Equal(t, noResponseMessage, HandleError(err).Error)
}

func TestHandleError_Local(t *testing.T) {
	client, _ := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not be sent")
	})

	err := client.Post(context.Background(), "/leads", map[string]any{"bad": make(chan int)}, nil)

	var gwErr *Error
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, KindLocal, gwErr.Kind)
	assert.Contains(t, HandleError(err).Error, "encode request body")

	err = client.Get(context.Background(), "leads", nil, nil)
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, KindLocal, gwErr.Kind)
}

func TestClient_HonorsCancellation(t *testing.T) {
	release := make(chan struct{})
	client, _ := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- client.Get(ctx, "/leads", nil, nil) }()

	cancel()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(3 * time.Second):
		t.Fatal("call did not return after cancellation")
	}
}

func TestClient_NoRetries(t *testing.T) {
	calls := 0
	var mu sync.Mutex
	client, _ := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		mu.Unlock()
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	require.Error(t, client.Get(context.Background(), "/leads", nil, nil))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls)
}

func TestClient_WriteError(t *testing.T) {
	client, _ := newBackend(t, func(w http.ResponseWriter, r *http.Request) {})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/business/editor", nil)
	client.WriteError(rec, req, responseError(http.StatusUnauthorized, ""))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	client.WriteError(rec, req, responseError(http.StatusNotFound, "paper not found"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "paper not found")

	rec = httptest.NewRecorder()
	client.WriteError(rec, req, &Error{Kind: KindNoResponse, Err: errors.New("dial tcp")})
	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	assert.Contains(t, rec.Body.String(), noResponseMessage)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestClient_PropagatesChiRequestID(t *testing.T) {
	var got *http.Request
	base := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		got = r
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Body:       io.NopCloser(strings.NewReader(`{"success":true,"data":{}}`)),
			Request:    r,
		}, nil
	})

	client, err := New(config.BackendConfig{
		BaseURL:         "http://backend.internal",
		Timeout:         time.Second,
		PublicEndpoints: []string{"/health"},
	}, WithBaseTransport(base))
	require.NoError(t, err)

	ctx := context.WithValue(context.Background(), chimw.RequestIDKey, "req-123")
	ctx = session.WithAccessor(ctx, loggedIn("t9"))

	require.NoError(t, client.Get(ctx, "/users/me", nil, nil))

	require.NotNil(t, got)
	assert.Equal(t, "req-123", got.Header.Get("X-Request-ID"))
	assert.Equal(t, "Bearer t9", got.Header.Get("Authorization"))
	assert.Equal(t, "/login", client.LoginRoute())
}

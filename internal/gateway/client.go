// AngelaMos | 2026
// client.go

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel/trace"

	"github.com/carterperez-dev/agency-portal/internal/config"
	"github.com/carterperez-dev/agency-portal/internal/core"
)

const maxResponseBytes = 10 << 20

type Option func(*options)

type options struct {
	base   http.RoundTripper
	tracer trace.Tracer
}

func WithBaseTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.base = rt }
}

func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) { o.tracer = tracer }
}

// Client calls the backend at most once per invocation. It never retries.
type Client struct {
	baseURL    *url.URL
	http       *http.Client
	public     publicPaths
	loginRoute string
}

func New(cfg config.BackendConfig, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	loginRoute := cfg.LoginRoute
	if loginRoute == "" {
		loginRoute = "/login"
	}

	return &Client{
		baseURL: base,
		http: &http.Client{
			Transport: NewTransport(o.base, cfg.PublicEndpoints, o.tracer),
			Timeout:   cfg.Timeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		public:     publicPaths(cfg.PublicEndpoints),
		loginRoute: loginRoute,
	}, nil
}

func (c *Client) LoginRoute() string {
	return c.loginRoute
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, out)
}

// Do sends one request and decodes the envelope's data into out. A 401 on
// a non-public path yields an error wrapping ErrUnauthorized; the session
// has already been cleared by the transport at that point.
func (c *Client) Do(
	ctx context.Context,
	method, path string,
	query url.Values,
	body, out any,
) error {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return transportError(ctx, err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return transportError(ctx, err)
	}

	env, isEnvelope := decodeEnvelope(raw)

	if resp.StatusCode >= http.StatusBadRequest {
		gwErr := responseError(resp.StatusCode, env.Text())
		if resp.StatusCode == http.StatusUnauthorized && c.public.match(req.URL.Path) {
			gwErr.Err = nil
		}
		return gwErr
	}

	if isEnvelope && env.Failed() {
		return responseError(resp.StatusCode, env.Text())
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	payload := raw
	if isEnvelope && len(env.Data) > 0 {
		payload = env.Data
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return &Error{
			Kind:    KindResponse,
			Status:  resp.StatusCode,
			Message: "unexpected response from server",
			Err:     fmt.Errorf("decode response: %w", err),
		}
	}

	return nil
}

func (c *Client) newRequest(
	ctx context.Context,
	method, path string,
	query url.Values,
	body any,
) (*http.Request, error) {
	if !strings.HasPrefix(path, "/") {
		return nil, &Error{
			Kind: KindLocal,
			Err:  fmt.Errorf("backend path %q must start with '/'", path),
		}
	}

	target := *c.baseURL
	target.Path = c.baseURL.Path + path
	target.RawQuery = query.Encode()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, localError("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, localError("build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// Ping checks that the backend answers its health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	return c.Get(ctx, "/health", nil, nil)
}

// WriteError renders a failed call. An unauthorized session becomes a 303
// to the login route; every other failure is a JSON error envelope.
func (c *Client) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrUnauthorized) {
		http.Redirect(w, r, c.loginRoute, http.StatusSeeOther)
		return
	}

	if errors.Is(err, context.Canceled) {
		core.Logger(r.Context()).Debug("backend call canceled by client")
		return
	}

	core.Logger(r.Context()).Warn("backend call failed",
		"error", err,
		"status", upstreamStatus(err),
	)
	core.JSONError(w, upstreamAppError(err))
}

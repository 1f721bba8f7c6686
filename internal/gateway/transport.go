// AngelaMos | 2026
// transport.go

package gateway

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/carterperez-dev/agency-portal/internal/core"
	"github.com/carterperez-dev/agency-portal/internal/metrics"
	"github.com/carterperez-dev/agency-portal/internal/session"
)

const (
	tracerName      = "github.com/carterperez-dev/agency-portal/internal/gateway"
	requestIDHeader = "X-Request-ID"
)

type publicPaths []string

// match reports whether path contains one of the allow-listed substrings.
func (p publicPaths) match(path string) bool {
	for _, public := range p {
		if public != "" && strings.Contains(path, public) {
			return true
		}
	}
	return false
}

// Transport attaches the caller's bearer token and clears the caller's
// session when the backend answers 401. Allow-listed public paths are
// exempt from both: a 401 from the login endpoint means wrong credentials,
// not a dead session. Each request is traced and timed.
type Transport struct {
	base   http.RoundTripper
	public publicPaths
	tracer trace.Tracer
}

func NewTransport(
	base http.RoundTripper,
	public []string,
	tracer trace.Tracer,
) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}

	return &Transport{
		base:   base,
		public: publicPaths(public),
		tracer: tracer,
	}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx, span := t.tracer.Start(req.Context(), "backend "+req.Method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("url.path", req.URL.Path),
		),
	)
	defer span.End()

	out := req.Clone(ctx)
	acc := session.FromContext(ctx)
	public := t.public.match(out.URL.Path)

	out.Header.Del("Authorization")
	if !public {
		t.attachToken(out, acc)
	}

	reqID := chimw.GetReqID(ctx)
	if reqID == "" {
		reqID = uuid.NewString()
	}
	out.Header.Set(requestIDHeader, reqID)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(out.Header))

	start := time.Now()
	resp, err := t.base.RoundTrip(out)
	elapsed := time.Since(start)

	if err != nil {
		metrics.RecordGatewayRequest(req.Method, "error", elapsed)
		core.RecordSpanError(ctx, err)
		return nil, err
	}

	metrics.RecordGatewayRequest(req.Method, strconv.Itoa(resp.StatusCode), elapsed)
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode == http.StatusUnauthorized && !public {
		if clearErr := acc.Clear(ctx); clearErr != nil {
			core.Logger(ctx).Error("failed to clear session after 401",
				"error", clearErr,
			)
		} else {
			metrics.RecordForcedLogout()
			core.Logger(ctx).Info("session cleared after backend 401",
				"path", out.URL.Path,
				"trace_id", core.TraceIDFromContext(ctx),
			)
		}
	}

	return resp, nil
}

func (t *Transport) attachToken(req *http.Request, acc session.Accessor) {
	ctx := req.Context()

	sess, err := acc.Read(ctx)
	if err != nil {
		core.Logger(ctx).Warn("session read failed, sending unauthenticated",
			"error", err,
		)
		return
	}

	if sess.Token != "" {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}
}

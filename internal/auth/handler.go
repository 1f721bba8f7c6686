// AngelaMos | 2026
// handler.go

package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/agency-portal/internal/core"
	"github.com/carterperez-dev/agency-portal/internal/session"
	"github.com/carterperez-dev/agency-portal/internal/user"
)

type ErrorWriter interface {
	WriteError(w http.ResponseWriter, r *http.Request, err error)
}

type Handler struct {
	service   *Service
	errors    ErrorWriter
	validator *validator.Validate
}

func NewHandler(service *Service, errs ErrorWriter) *Handler {
	return &Handler{
		service:   service,
		errors:    errs,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterRoutes mounts the session endpoints. limiter wraps the
// credential endpoints only.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	limiter func(http.Handler) http.Handler,
) {
	r.Route("/api/session", func(r chi.Router) {
		r.Get("/", h.Current)
		r.Post("/logout", h.Logout)

		r.Group(func(r chi.Router) {
			r.Use(limiter)
			r.Post("/login", h.Login)
			r.Post("/register", h.Register)
		})
	})
}

// RegisterLoginPages mounts the three login pages. A visitor who already
// has a session is sent to their dashboard instead.
func (h *Handler) RegisterLoginPages(r chi.Router) {
	r.Get(LoginRoute(""), h.loginPage(""))
	r.Get(LoginRoute(user.RoleAdmin), h.loginPage(user.RoleAdmin))
	r.Get(LoginRoute(user.RoleSupAdmin), h.loginPage(user.RoleSupAdmin))
}

func (h *Handler) loginPage(portal user.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if IsLoggedIn(ctx, session.FromContext(ctx)) {
			role := UserRole(ctx, session.FromContext(ctx))
			NewHTTPNavigator(w, r).Navigate(DashboardRoute(role))
			return
		}

		core.OK(w, LoginPage{
			Portal: portal,
			Action: "/api/session/login",
		})
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, err)
		return
	}

	ctx := r.Context()
	resp, err := h.service.Login(ctx, session.FromContext(ctx), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrWrongPortal):
			core.Forbidden(w, "this account cannot sign in here")
		case errors.Is(err, ErrMalformedLogin):
			core.JSONError(w, core.UpstreamError("unexpected response from server", 0))
		case errors.Is(err, session.ErrIncompleteSession),
			errors.Is(err, session.ErrNoScope):
			core.InternalServerError(w, err)
		default:
			h.errors.WriteError(w, r, err)
		}
		return
	}

	core.OK(w, resp)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, err)
		return
	}

	created, err := h.service.Register(r.Context(), req)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	core.Created(w, created)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	redirect, err := h.service.Logout(ctx, session.FromContext(ctx))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, LogoutResponse{Redirect: redirect})
}

func (h *Handler) Current(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp, err := h.service.Current(ctx, session.FromContext(ctx))
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			core.Unauthorized(w, "no active session")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, resp)
}

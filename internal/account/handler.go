// AngelaMos | 2026
// handler.go

package account

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/agency-portal/internal/core"
	"github.com/carterperez-dev/agency-portal/internal/session"
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

// RegisterRoutes mounts the account and preference endpoints. limiter
// wraps the password change only.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	requireSession, limiter func(http.Handler) http.Handler,
) {
	r.Route("/api/account", func(r chi.Router) {
		r.Use(requireSession)

		r.Get("/me", h.GetMe)
		r.Put("/me", h.UpdateMe)
		r.With(limiter).Post("/password", h.ChangePassword)
	})

	r.Route("/api/preferences", func(r chi.Router) {
		r.Get("/sidebar", h.GetSidebar)
		r.Put("/sidebar", h.SetSidebar)
	})
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	u, err := h.service.Me(ctx, session.FromContext(ctx))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	core.OK(w, u)
}

func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, err)
		return
	}

	ctx := r.Context()
	u, err := h.service.UpdateProfile(ctx, session.FromContext(ctx), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	core.OK(w, u)
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, err)
		return
	}

	if err := h.service.ChangePassword(r.Context(), req); err != nil {
		h.writeError(w, r, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) GetSidebar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	collapsed, err := session.PreferencesFromContext(ctx).SidebarCollapsed(ctx)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, SidebarPreference{Collapsed: collapsed})
}

func (h *Handler) SetSidebar(w http.ResponseWriter, r *http.Request) {
	var req SidebarPreferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, err)
		return
	}

	ctx := r.Context()
	if err := session.PreferencesFromContext(ctx).SetSidebarCollapsed(ctx, *req.Collapsed); err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, SidebarPreference{Collapsed: *req.Collapsed})
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrProtectedAccount):
		core.Forbidden(w, "this account cannot be edited")
	case errors.Is(err, session.ErrNoSession):
		core.Unauthorized(w, "no active session")
	case core.IsAppError(err):
		core.JSONError(w, err)
	default:
		h.errors.WriteError(w, r, err)
	}
}

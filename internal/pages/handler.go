// AngelaMos | 2026
// handler.go

package pages

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/agency-portal/internal/auth"
	"github.com/carterperez-dev/agency-portal/internal/core"
	"github.com/carterperez-dev/agency-portal/internal/guard"
	"github.com/carterperez-dev/agency-portal/internal/session"
)

const maxBodyBytes = 1 << 20

type ErrorWriter interface {
	WriteError(w http.ResponseWriter, r *http.Request, err error)
}

type Handler struct {
	service *Service
	errors  ErrorWriter
	portals []Portal
}

func NewHandler(service *Service, errs ErrorWriter, portals []Portal) *Handler {
	return &Handler{
		service: service,
		errors:  errs,
		portals: portals,
	}
}

// RegisterRoutes mounts every portal's pages. Role checks come from the
// guard table in front of the router; only mutations add a permission
// guard here.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/business", h.Landing)

	for _, portal := range h.portals {
		prefix := portal.Prefix()
		r.Get(prefix, h.dashboard(portal))

		for _, res := range portal.Resources {
			base := prefix + "/" + res.Name
			item := base + "/{id}"

			r.Get(base, h.list(res))
			r.Get(item, h.detail(res))

			if res.Create != "" {
				r.With(guard.Permission(res.Create).Middleware).Post(base, h.create(res))
			}
			if res.Update != "" {
				r.With(guard.Permission(res.Update).Middleware).Put(item, h.update(res))
			}
			if res.Delete != "" {
				r.With(guard.Permission(res.Delete).Middleware).Delete(item, h.remove(res))
			}
		}
	}
}

func (h *Handler) Landing(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess, err := session.FromContext(ctx).Read(ctx)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	if !sess.Present() {
		auth.NewHTTPNavigator(w, r).Navigate(auth.DefaultLoginRoute)
		return
	}

	core.OK(w, Landing{
		User:      sess.User,
		Dashboard: auth.DashboardRoute(sess.Role()),
	})
}

func (h *Handler) dashboard(portal Portal) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		sess, err := session.FromContext(ctx).Read(ctx)
		if err != nil {
			core.InternalServerError(w, err)
			return
		}

		dash, err := h.service.Dashboard(ctx, portal, sess.User)
		if err != nil {
			h.errors.WriteError(w, r, err)
			return
		}

		core.OK(w, dash)
	}
}

func (h *Handler) list(res Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := ListParams{
			Page:     parseIntQuery(r, "page", defaultPage),
			PageSize: parseIntQuery(r, "page_size", defaultPageSize),
			Search:   r.URL.Query().Get("search"),
		}
		params.Normalize()

		items, total, err := h.service.List(r.Context(), res, params)
		if err != nil {
			h.errors.WriteError(w, r, err)
			return
		}

		core.Paginated(w, items, params.Page, params.PageSize, total)
	}
}

func (h *Handler) detail(res Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, err := h.service.Get(r.Context(), res, chi.URLParam(r, "id"))
		if err != nil {
			h.errors.WriteError(w, r, err)
			return
		}

		core.OK(w, item)
	}
}

func (h *Handler) create(res Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, ok := readJSONBody(w, r)
		if !ok {
			return
		}

		created, err := h.service.Create(r.Context(), res, body)
		if err != nil {
			h.errors.WriteError(w, r, err)
			return
		}

		core.Created(w, created)
	}
}

func (h *Handler) update(res Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, ok := readJSONBody(w, r)
		if !ok {
			return
		}

		updated, err := h.service.Update(r.Context(), res, chi.URLParam(r, "id"), body)
		if err != nil {
			h.errors.WriteError(w, r, err)
			return
		}

		core.OK(w, updated)
	}
}

func (h *Handler) remove(res Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.service.Delete(r.Context(), res, chi.URLParam(r, "id")); err != nil {
			h.errors.WriteError(w, r, err)
			return
		}

		core.NoContent(w)
	}
}

func readJSONBody(w http.ResponseWriter, r *http.Request) (json.RawMessage, bool) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			core.BadRequest(w, "request body too large")
			return nil, false
		}
		core.BadRequest(w, "invalid request body")
		return nil, false
	}

	if !json.Valid(raw) {
		core.BadRequest(w, "request body must be valid JSON")
		return nil, false
	}

	return json.RawMessage(raw), true
}

func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}

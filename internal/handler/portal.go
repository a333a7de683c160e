package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/policyhub/policy-server-go/internal/middleware"
	"github.com/policyhub/policy-server-go/internal/service"
)

type PortalHandler struct {
	portalService  *service.PortalService
	requireSession func(http.Handler) http.Handler
}

func NewPortalHandler(
	portalService *service.PortalService,
	requireSession func(http.Handler) http.Handler,
) *PortalHandler {
	return &PortalHandler{
		portalService:  portalService,
		requireSession: requireSession,
	}
}

func (h *PortalHandler) Routes() chi.Router {
	r := chi.NewRouter()

	// Public resolution, used by the embeddable widget.
	r.Get("/{orgSlug}/{portalSlug}", h.Resolve)

	r.Group(func(r chi.Router) {
		r.Use(h.requireSession)
		r.Use(middleware.RequireAdmin)
		r.Get("/", h.List)
	})

	return r
}

// GET /portals
func (h *PortalHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	portals, err := h.portalService.ListByOrganization(r.Context(), user.OrganizationID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"portals": portals})
}

// GET /portals/{orgSlug}/{portalSlug}
func (h *PortalHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	orgSlug := chi.URLParam(r, "orgSlug")
	portalSlug := chi.URLParam(r, "portalSlug")

	portal, err := h.portalService.Resolve(r.Context(), orgSlug, portalSlug)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"portal": portal})
}

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/policyhub/policy-server-go/internal/middleware"
	"github.com/policyhub/policy-server-go/internal/service"
)

type OrganizationHandler struct {
	orgService       *service.OrganizationService
	migrationService *service.MigrationService
	requireSession   func(http.Handler) http.Handler
}

func NewOrganizationHandler(
	orgService *service.OrganizationService,
	migrationService *service.MigrationService,
	requireSession func(http.Handler) http.Handler,
) *OrganizationHandler {
	return &OrganizationHandler{
		orgService:       orgService,
		migrationService: migrationService,
		requireSession:   requireSession,
	}
}

func (h *OrganizationHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/register", h.Register)

	r.Group(func(r chi.Router) {
		r.Use(h.requireSession)
		r.Use(middleware.RequireAdmin)
		r.Post("/create", h.Create)
		r.Post("/migrate-defaults", h.MigrateDefaults)
	})

	return r
}

// POST /organizations/create
func (h *OrganizationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateOrganizationInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	org, err := h.orgService.Create(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"organization": org})
}

// POST /organizations/register
func (h *OrganizationHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterOrganizationInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	org, err := h.orgService.Register(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"organizationSlug": org.Slug})
}

// POST /organizations/migrate-defaults
func (h *OrganizationHandler) MigrateDefaults(w http.ResponseWriter, r *http.Request) {
	summary, err := h.migrationService.MigrateDefaults(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

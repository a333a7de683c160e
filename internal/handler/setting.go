package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/policyhub/policy-server-go/internal/middleware"
	"github.com/policyhub/policy-server-go/internal/service"
)

type SettingHandler struct {
	settingService *service.SettingService
	requireSession func(http.Handler) http.Handler
}

func NewSettingHandler(
	settingService *service.SettingService,
	requireSession func(http.Handler) http.Handler,
) *SettingHandler {
	return &SettingHandler{
		settingService: settingService,
		requireSession: requireSession,
	}
}

func (h *SettingHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(h.requireSession)
	r.Use(middleware.RequireAdmin)
	r.Get("/", h.List)
	r.Post("/update", h.Update)

	return r
}

// POST /settings/update
func (h *SettingHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SettingKey   string          `json:"settingKey"`
		SettingValue json.RawMessage `json:"settingValue"`
		Description  *string         `json:"description,omitempty"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user := middleware.GetUser(r.Context())

	setting, err := h.settingService.Update(r.Context(), user.OrganizationID, req.SettingKey, req.SettingValue, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, setting)
}

// GET /settings
func (h *SettingHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	settings, err := h.settingService.List(r.Context(), user.OrganizationID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"settings": settings})
}

package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/policyhub/policy-server-go/internal/middleware"
	"github.com/policyhub/policy-server-go/internal/service"
)

type AuthHandler struct {
	sessionService *service.SessionService
	requireSession func(http.Handler) http.Handler
	sessionTTL     time.Duration
	cookieSecure   bool
}

func NewAuthHandler(
	sessionService *service.SessionService,
	requireSession func(http.Handler) http.Handler,
	sessionTTL time.Duration,
	cookieSecure bool,
) *AuthHandler {
	return &AuthHandler{
		sessionService: sessionService,
		requireSession: requireSession,
		sessionTTL:     sessionTTL,
		cookieSecure:   cookieSecure,
	}
}

func (h *AuthHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/login", h.Login)
	r.Post("/establish-session", h.EstablishSession)

	r.Group(func(r chi.Router) {
		r.Use(h.requireSession)
		r.Post("/logout", h.Logout)
		r.Get("/me", h.Me)
	})

	return r
}

// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	token, err := h.sessionService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, token)
}

// POST /auth/establish-session
func (h *AuthHandler) EstablishSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TempToken string `json:"tempToken"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.sessionService.Establish(r.Context(), req.TempToken)
	if err != nil {
		writeError(w, err)
		return
	}

	middleware.SetSessionCookie(w, result.SessionToken, h.sessionTTL, h.cookieSecure)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"user":         result.User,
		"isFirstLogin": result.IsFirstLogin,
	})
}

// POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.SessionCookie)
	if err == nil && cookie.Value != "" {
		if err := h.sessionService.Logout(r.Context(), cookie.Value); err != nil {
			log.Error().Err(err).Msg("logout failed")
		}
	}

	middleware.ClearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	profile, err := h.sessionService.Profile(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": profile})
}

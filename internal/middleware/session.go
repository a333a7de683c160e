package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/policyhub/policy-server-go/internal/model"
	"github.com/policyhub/policy-server-go/internal/repository"
	"github.com/policyhub/policy-server-go/internal/util"
)

const SessionCookie = "policyhub_session"

type contextKey string

const (
	UserContextKey    contextKey = "user"
	SessionContextKey contextKey = "session"
)

func GetUser(ctx context.Context) *model.User {
	if user, ok := ctx.Value(UserContextKey).(*model.User); ok {
		return user
	}
	return nil
}

func GetSession(ctx context.Context) *model.Session {
	if session, ok := ctx.Value(SessionContextKey).(*model.Session); ok {
		return session
	}
	return nil
}

// SessionMiddleware resolves the session cookie to a user and stores both on
// the request context. Requests without a valid session get 401.
type SessionMiddleware struct {
	sessionRepo   repository.SessionRepository
	userRepo      repository.UserRepository
	sessionSecret string
}

func NewSessionMiddleware(
	sessionRepo repository.SessionRepository,
	userRepo repository.UserRepository,
	sessionSecret string,
) *SessionMiddleware {
	return &SessionMiddleware{
		sessionRepo:   sessionRepo,
		userRepo:      userRepo,
		sessionSecret: sessionSecret,
	}
}

func (m *SessionMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookie)
		if err != nil || cookie.Value == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error": "Authentication required",
			})
			return
		}

		tokenHash := util.HashToken(m.sessionSecret, cookie.Value)
		session, err := m.sessionRepo.FindStandardByTokenHash(r.Context(), tokenHash)
		if err != nil {
			log.Error().Err(err).Msg("session middleware: database error")
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"error": "Session validation failed",
			})
			return
		}

		if session == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error": "Authentication required",
			})
			return
		}

		user, err := m.userRepo.FindByID(r.Context(), session.UserID)
		if err != nil || user == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error": "Authentication required",
			})
			return
		}

		// Sliding activity marker; failure here never blocks the request.
		if err := m.sessionRepo.TouchLastAccessed(r.Context(), session.ID); err != nil {
			log.Warn().Err(err).Str("sessionId", session.ID).Msg("failed to touch session")
		}

		ctx := r.Context()
		ctx = context.WithValue(ctx, SessionContextKey, session)
		ctx = context.WithValue(ctx, UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects authenticated non-admin users with 403. It must run
// after SessionMiddleware.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUser(r.Context())
		if user == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error": "Authentication required",
			})
			return
		}
		if !user.IsAdmin() {
			writeJSON(w, http.StatusForbidden, map[string]string{
				"error": "Admin role required",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func SetSessionCookie(w http.ResponseWriter, token string, maxAge time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:   SessionCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}

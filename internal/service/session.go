package service

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/policyhub/policy-server-go/internal/database"
	apperrors "github.com/policyhub/policy-server-go/internal/errors"
	"github.com/policyhub/policy-server-go/internal/model"
	"github.com/policyhub/policy-server-go/internal/repository"
	"github.com/policyhub/policy-server-go/internal/util"
)

type UserProfile struct {
	ID             string         `json:"id"`
	Email          string         `json:"email"`
	DisplayName    string         `json:"displayName"`
	AvatarURL      *string        `json:"avatarUrl,omitempty"`
	Role           model.UserRole `json:"role"`
	OrganizationID string         `json:"organizationId"`
	Provider       *string        `json:"provider,omitempty"`
}

type EstablishResult struct {
	User         UserProfile
	IsFirstLogin bool
	SessionToken string
	ExpiresAt    time.Time
}

type TemporaryToken struct {
	Token     string    `json:"tempToken"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type SessionService struct {
	db            database.TxRunner
	sessionRepo   repository.SessionRepository
	userRepo      repository.UserRepository
	sessionSecret string
	tempTTL       time.Duration
	sessionTTL    time.Duration
}

func NewSessionService(
	db database.TxRunner,
	sessionRepo repository.SessionRepository,
	userRepo repository.UserRepository,
	sessionSecret string,
	tempTTL, sessionTTL time.Duration,
) *SessionService {
	return &SessionService{
		db:            db,
		sessionRepo:   sessionRepo,
		userRepo:      userRepo,
		sessionSecret: sessionSecret,
		tempTTL:       tempTTL,
		sessionTTL:    sessionTTL,
	}
}

// Establish exchanges a single-use temporary token for a standard session.
// The consume and issue steps run in one transaction: the conditional
// DELETE ... RETURNING on the temporary row is the consumption guard, so
// concurrent replays of the same token produce at most one new session.
func (s *SessionService) Establish(ctx context.Context, tempToken string) (*EstablishResult, error) {
	if tempToken == "" {
		return nil, apperrors.MissingRequired("tempToken")
	}

	newToken, err := util.GenerateToken()
	if err != nil {
		return nil, apperrors.Internal("Failed to generate session token").WithCause(err)
	}

	tokenHash := util.HashToken(s.sessionSecret, tempToken)

	var (
		result  *EstablishResult
		expired bool
	)
	err = s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		sessions := s.sessionRepo.WithTx(tx)
		users := s.userRepo.WithTx(tx)

		consumed, err := sessions.ConsumeTemporary(ctx, tokenHash)
		if err != nil {
			return apperrors.Database(err)
		}
		if consumed == nil {
			return apperrors.InvalidToken("Invalid or expired token")
		}

		now := time.Now()
		if now.After(consumed.ExpiresAt) {
			// Returning nil commits the delete, so the stale row is cleaned
			// up even though the exchange fails.
			expired = true
			return nil
		}

		user, err := users.FindByIDWithProvider(ctx, consumed.UserID)
		if err != nil {
			return apperrors.Database(err)
		}
		if user == nil {
			// Rolls back the consume; the orphaned row is removed by the
			// cleanup job once it expires.
			return apperrors.InvalidToken("Invalid or expired token")
		}

		isFirstLogin := !user.HasLoggedIn
		if isFirstLogin {
			if err := users.MarkFirstLogin(ctx, user.ID, now); err != nil {
				return apperrors.Database(err)
			}
		}

		created, err := sessions.Create(ctx, model.CreateSessionParams{
			TokenHash: util.HashToken(s.sessionSecret, newToken),
			UserID:    user.ID,
			Kind:      model.SessionKindStandard,
			ExpiresAt: now.Add(s.sessionTTL),
		})
		if err != nil {
			return apperrors.Database(err)
		}

		result = &EstablishResult{
			User:         buildProfile(user),
			IsFirstLogin: isFirstLogin,
			SessionToken: newToken,
			ExpiresAt:    created.ExpiresAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if expired {
		return nil, apperrors.TokenExpired()
	}

	log.Info().
		Str("userId", result.User.ID).
		Bool("isFirstLogin", result.IsFirstLogin).
		Msg("session established")

	return result, nil
}

// IssueTemporaryToken mints a short-lived single-use token for the user,
// to be exchanged through Establish.
func (s *SessionService) IssueTemporaryToken(ctx context.Context, userID string) (*TemporaryToken, error) {
	token, err := util.GenerateToken()
	if err != nil {
		return nil, apperrors.Internal("Failed to generate token").WithCause(err)
	}

	expiresAt := time.Now().Add(s.tempTTL)
	_, err = s.sessionRepo.Create(ctx, model.CreateSessionParams{
		TokenHash: util.HashToken(s.sessionSecret, token),
		UserID:    userID,
		Kind:      model.SessionKindTemporary,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return nil, apperrors.Database(err)
	}

	return &TemporaryToken{Token: token, ExpiresAt: expiresAt}, nil
}

// Login verifies a password credential and issues a temporary token for the
// session exchange.
func (s *SessionService) Login(ctx context.Context, email, password string) (*TemporaryToken, error) {
	if email == "" || password == "" {
		return nil, apperrors.Unauthorized("Invalid email or password")
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if user == nil {
		return nil, apperrors.Unauthorized("Invalid email or password")
	}

	cred, err := s.userRepo.FindPasswordCredential(ctx, user.ID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if cred == nil || !util.CheckPasswordHash(password, cred.PasswordHash) {
		return nil, apperrors.Unauthorized("Invalid email or password")
	}

	return s.IssueTemporaryToken(ctx, user.ID)
}

// Logout deletes the standard session for the given token, if it exists.
func (s *SessionService) Logout(ctx context.Context, token string) error {
	session, err := s.sessionRepo.FindStandardByTokenHash(ctx, util.HashToken(s.sessionSecret, token))
	if err != nil {
		return apperrors.Database(err)
	}
	if session == nil {
		return nil
	}
	return s.sessionRepo.Delete(ctx, session.ID)
}

// Profile returns the user's profile joined with its OAuth provider, if any.
func (s *SessionService) Profile(ctx context.Context, userID string) (*UserProfile, error) {
	user, err := s.userRepo.FindByIDWithProvider(ctx, userID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if user == nil {
		return nil, apperrors.NotFound("User")
	}
	profile := buildProfile(user)
	return &profile, nil
}

func buildProfile(user *model.UserWithProvider) UserProfile {
	role := user.Role
	if role == "" {
		role = model.UserRoleUser
	}
	return UserProfile{
		ID:             user.ID,
		Email:          user.Email,
		DisplayName:    user.DisplayName,
		AvatarURL:      user.AvatarURL,
		Role:           role,
		OrganizationID: user.OrganizationID,
		Provider:       user.Provider,
	}
}

package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/policyhub/policy-server-go/internal/database"
	"github.com/policyhub/policy-server-go/internal/model"
)

type UserRepository interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// FindByIDWithProvider joins the user with its linked OAuth account, if any.
	FindByIDWithProvider(ctx context.Context, id string) (*model.UserWithProvider, error)
	Create(ctx context.Context, params model.CreateUserParams) (*model.User, error)
	// MarkFirstLogin flips has_logged_in exactly once; a second call is a no-op.
	MarkFirstLogin(ctx context.Context, id string, at time.Time) error
	CreatePasswordCredential(ctx context.Context, userID, passwordHash string) error
	FindPasswordCredential(ctx context.Context, userID string) (*model.PasswordCredential, error)
	WithTx(tx *sqlx.Tx) UserRepository
}

type userRepo struct {
	db database.DBTX
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) WithTx(tx *sqlx.Tx) UserRepository {
	return &userRepo{db: tx}
}

func (r *userRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE id = $1`, id)
	return HandleNotFound(&user, err)
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE email = $1`, email)
	return HandleNotFound(&user, err)
}

func (r *userRepo) FindByIDWithProvider(ctx context.Context, id string) (*model.UserWithProvider, error) {
	var user model.UserWithProvider
	err := r.db.GetContext(ctx, &user, `
		SELECT u.*, oa.provider
		FROM users u
		LEFT JOIN oauth_accounts oa ON oa.user_id = u.id
		WHERE u.id = $1
	`, id)
	return HandleNotFound(&user, err)
}

func (r *userRepo) Create(ctx context.Context, params model.CreateUserParams) (*model.User, error) {
	var user model.User
	err := r.db.GetContext(ctx, &user, `
		INSERT INTO users (email, display_name, avatar_url, role, organization_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *
	`, params.Email, params.DisplayName, params.AvatarURL, params.Role, params.OrganizationID)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) MarkFirstLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET
			has_logged_in = TRUE,
			first_login_at = $2,
			updated_at = $2
		WHERE id = $1 AND has_logged_in = FALSE
	`, id, at)
	return err
}

func (r *userRepo) CreatePasswordCredential(ctx context.Context, userID, passwordHash string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO password_credentials (user_id, password_hash)
		VALUES ($1, $2)
	`, userID, passwordHash)
	return err
}

func (r *userRepo) FindPasswordCredential(ctx context.Context, userID string) (*model.PasswordCredential, error) {
	var cred model.PasswordCredential
	err := r.db.GetContext(ctx, &cred, `
		SELECT * FROM password_credentials WHERE user_id = $1
	`, userID)
	return HandleNotFound(&cred, err)
}

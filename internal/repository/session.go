package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/policyhub/policy-server-go/internal/database"
	"github.com/policyhub/policy-server-go/internal/model"
)

type SessionRepository interface {
	// FindStandardByTokenHash resolves an unexpired standard session.
	FindStandardByTokenHash(ctx context.Context, tokenHash string) (*model.Session, error)
	Create(ctx context.Context, params model.CreateSessionParams) (*model.Session, error)
	// ConsumeTemporary atomically deletes the temporary session with the
	// given token hash and returns the deleted row, or nil if no such row
	// existed. The delete is the single point of truth for "did I consume
	// it": under concurrent replay at most one caller gets the row back.
	ConsumeTemporary(ctx context.Context, tokenHash string) (*model.Session, error)
	Delete(ctx context.Context, id string) error
	TouchLastAccessed(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context) (int64, error)
	WithTx(tx *sqlx.Tx) SessionRepository
}

type sessionRepo struct {
	db database.DBTX
}

func NewSessionRepository(db *sqlx.DB) SessionRepository {
	return &sessionRepo{db: db}
}

func (r *sessionRepo) WithTx(tx *sqlx.Tx) SessionRepository {
	return &sessionRepo{db: tx}
}

func (r *sessionRepo) FindStandardByTokenHash(ctx context.Context, tokenHash string) (*model.Session, error) {
	var session model.Session
	err := r.db.GetContext(ctx, &session, `
		SELECT * FROM sessions
		WHERE token_hash = $1 AND kind = 'standard' AND expires_at > NOW()
	`, tokenHash)
	return HandleNotFound(&session, err)
}

func (r *sessionRepo) Create(ctx context.Context, params model.CreateSessionParams) (*model.Session, error) {
	var session model.Session
	err := r.db.GetContext(ctx, &session, `
		INSERT INTO sessions (token_hash, user_id, kind, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING *
	`, params.TokenHash, params.UserID, params.Kind, params.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepo) ConsumeTemporary(ctx context.Context, tokenHash string) (*model.Session, error) {
	var session model.Session
	err := r.db.GetContext(ctx, &session, `
		DELETE FROM sessions
		WHERE token_hash = $1 AND kind = 'temporary'
		RETURNING *
	`, tokenHash)
	return HandleNotFound(&session, err)
}

func (r *sessionRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return err
}

func (r *sessionRepo) TouchLastAccessed(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE sessions SET last_accessed = $2 WHERE id = $1
	`, id, time.Now())
	return err
}

func (r *sessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < NOW()`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

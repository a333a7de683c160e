package model

import (
	"time"
)

// Session backs both short-lived temporary tokens and long-lived standard
// sessions; the kind column tells them apart. Only a keyed HMAC digest of the
// token is stored.
type Session struct {
	ID           string      `db:"id" json:"id"`
	TokenHash    string      `db:"token_hash" json:"-"`
	UserID       string      `db:"user_id" json:"userId"`
	Kind         SessionKind `db:"kind" json:"kind"`
	CreatedAt    time.Time   `db:"created_at" json:"createdAt"`
	LastAccessed time.Time   `db:"last_accessed" json:"lastAccessed"`
	ExpiresAt    time.Time   `db:"expires_at" json:"expiresAt"`
}

type CreateSessionParams struct {
	TokenHash string
	UserID    string
	Kind      SessionKind
	ExpiresAt time.Time
}

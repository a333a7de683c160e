package model

import (
	"time"
)

type User struct {
	ID             string     `db:"id" json:"id"`
	Email          string     `db:"email" json:"email"`
	DisplayName    string     `db:"display_name" json:"displayName"`
	AvatarURL      *string    `db:"avatar_url" json:"avatarUrl,omitempty"`
	Role           UserRole   `db:"role" json:"role"`
	OrganizationID string     `db:"organization_id" json:"organizationId"`
	HasLoggedIn    bool       `db:"has_logged_in" json:"hasLoggedIn"`
	FirstLoginAt   *time.Time `db:"first_login_at" json:"firstLoginAt,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

type CreateUserParams struct {
	Email          string
	DisplayName    string
	AvatarURL      *string
	Role           UserRole
	OrganizationID string
}

// UserWithProvider is a user joined with its OAuth account, if any.
type UserWithProvider struct {
	User
	Provider *string `db:"provider" json:"provider,omitempty"`
}

type PasswordCredential struct {
	UserID       string    `db:"user_id" json:"userId"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

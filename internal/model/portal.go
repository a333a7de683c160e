package model

import (
	"time"
)

type Portal struct {
	ID             string           `db:"id" json:"id"`
	OrganizationID string           `db:"organization_id" json:"organizationId"`
	Name           string           `db:"name" json:"name"`
	Slug           string           `db:"slug" json:"slug"`
	AccessType     PortalAccessType `db:"access_type" json:"accessType"`
	IsActive       bool             `db:"is_active" json:"isActive"`
	Description    string           `db:"description" json:"description"`
	CreatedAt      time.Time        `db:"created_at" json:"createdAt"`
}

type CreatePortalParams struct {
	OrganizationID string
	Name           string
	Slug           string
	AccessType     PortalAccessType
	Description    string
}

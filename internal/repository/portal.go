package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/policyhub/policy-server-go/internal/database"
	"github.com/policyhub/policy-server-go/internal/model"
)

type PortalRepository interface {
	Create(ctx context.Context, params model.CreatePortalParams) (*model.Portal, error)
	ListByOrganization(ctx context.Context, organizationID string) ([]model.Portal, error)
	// FindBySlugs resolves a portal through its owning organization's slug.
	FindBySlugs(ctx context.Context, orgSlug, portalSlug string) (*model.Portal, error)
	WithTx(tx *sqlx.Tx) PortalRepository
}

type portalRepo struct {
	db database.DBTX
}

func NewPortalRepository(db *sqlx.DB) PortalRepository {
	return &portalRepo{db: db}
}

func (r *portalRepo) WithTx(tx *sqlx.Tx) PortalRepository {
	return &portalRepo{db: tx}
}

func (r *portalRepo) Create(ctx context.Context, params model.CreatePortalParams) (*model.Portal, error) {
	var portal model.Portal
	err := r.db.GetContext(ctx, &portal, `
		INSERT INTO portals (organization_id, name, slug, access_type, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *
	`, params.OrganizationID, params.Name, params.Slug, params.AccessType, params.Description)
	if err != nil {
		return nil, err
	}
	return &portal, nil
}

func (r *portalRepo) ListByOrganization(ctx context.Context, organizationID string) ([]model.Portal, error) {
	var portals []model.Portal
	err := r.db.SelectContext(ctx, &portals, `
		SELECT * FROM portals
		WHERE organization_id = $1
		ORDER BY created_at ASC
	`, organizationID)
	if err != nil {
		return nil, err
	}
	return portals, nil
}

func (r *portalRepo) FindBySlugs(ctx context.Context, orgSlug, portalSlug string) (*model.Portal, error) {
	var portal model.Portal
	err := r.db.GetContext(ctx, &portal, `
		SELECT p.* FROM portals p
		JOIN organizations o ON o.id = p.organization_id
		WHERE o.slug = $1 AND p.slug = $2 AND o.is_active AND p.is_active
	`, orgSlug, portalSlug)
	return HandleNotFound(&portal, err)
}

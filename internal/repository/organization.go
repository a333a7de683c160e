package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/policyhub/policy-server-go/internal/database"
	"github.com/policyhub/policy-server-go/internal/model"
)

type OrganizationRepository interface {
	FindByID(ctx context.Context, id string) (*model.Organization, error)
	FindBySlug(ctx context.Context, slug string) (*model.Organization, error)
	FindAll(ctx context.Context) ([]model.Organization, error)
	Create(ctx context.Context, params model.CreateOrganizationParams) (*model.Organization, error)
	// WithTx returns a new repository that uses the given transaction
	WithTx(tx *sqlx.Tx) OrganizationRepository
}

type organizationRepo struct {
	db database.DBTX
}

func NewOrganizationRepository(db *sqlx.DB) OrganizationRepository {
	return &organizationRepo{db: db}
}

func (r *organizationRepo) WithTx(tx *sqlx.Tx) OrganizationRepository {
	return &organizationRepo{db: tx}
}

func (r *organizationRepo) FindByID(ctx context.Context, id string) (*model.Organization, error) {
	var org model.Organization
	err := r.db.GetContext(ctx, &org, `SELECT * FROM organizations WHERE id = $1`, id)
	return HandleNotFound(&org, err)
}

func (r *organizationRepo) FindBySlug(ctx context.Context, slug string) (*model.Organization, error) {
	var org model.Organization
	err := r.db.GetContext(ctx, &org, `SELECT * FROM organizations WHERE slug = $1`, slug)
	return HandleNotFound(&org, err)
}

func (r *organizationRepo) FindAll(ctx context.Context) ([]model.Organization, error) {
	var orgs []model.Organization
	err := r.db.SelectContext(ctx, &orgs, `SELECT * FROM organizations ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	return orgs, nil
}

func (r *organizationRepo) Create(ctx context.Context, params model.CreateOrganizationParams) (*model.Organization, error) {
	var org model.Organization
	err := r.db.GetContext(ctx, &org, `
		INSERT INTO organizations (name, slug, domain)
		VALUES ($1, $2, $3)
		RETURNING *
	`, params.Name, params.Slug, params.Domain)
	if err != nil {
		return nil, err
	}
	return &org, nil
}

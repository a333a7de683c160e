package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/policyhub/policy-server-go/internal/database"
	"github.com/policyhub/policy-server-go/internal/model"
)

type SettingRepository interface {
	// Upsert inserts the setting or, on (organization_id, setting_key)
	// conflict, overwrites the value, description and updated_at.
	Upsert(ctx context.Context, params model.UpsertSettingParams) (*model.Setting, error)
	ListByOrganization(ctx context.Context, organizationID string) ([]model.Setting, error)
	// ExistingKeys returns which of the given keys already exist for the organization.
	ExistingKeys(ctx context.Context, organizationID string, keys []string) ([]string, error)
	WithTx(tx *sqlx.Tx) SettingRepository
}

type settingRepo struct {
	db database.DBTX
}

func NewSettingRepository(db *sqlx.DB) SettingRepository {
	return &settingRepo{db: db}
}

func (r *settingRepo) WithTx(tx *sqlx.Tx) SettingRepository {
	return &settingRepo{db: tx}
}

func (r *settingRepo) Upsert(ctx context.Context, params model.UpsertSettingParams) (*model.Setting, error) {
	var setting model.Setting
	err := r.db.GetContext(ctx, &setting, `
		INSERT INTO settings (organization_id, setting_key, setting_value, description)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (organization_id, setting_key)
		DO UPDATE SET setting_value = EXCLUDED.setting_value,
			description = COALESCE(EXCLUDED.description, settings.description),
			updated_at = NOW()
		RETURNING *
	`, params.OrganizationID, params.SettingKey, params.SettingValue, params.Description)
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *settingRepo) ListByOrganization(ctx context.Context, organizationID string) ([]model.Setting, error) {
	var settings []model.Setting
	err := r.db.SelectContext(ctx, &settings, `
		SELECT * FROM settings
		WHERE organization_id = $1
		ORDER BY setting_key ASC
	`, organizationID)
	if err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *settingRepo) ExistingKeys(ctx context.Context, organizationID string, keys []string) ([]string, error) {
	var existing []string
	err := r.db.SelectContext(ctx, &existing, `
		SELECT setting_key FROM settings
		WHERE organization_id = $1 AND setting_key = ANY($2)
	`, organizationID, pq.Array(keys))
	if err != nil {
		return nil, err
	}
	return existing, nil
}

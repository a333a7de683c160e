package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/policyhub/policy-server-go/internal/database"
	apperrors "github.com/policyhub/policy-server-go/internal/errors"
	"github.com/policyhub/policy-server-go/internal/model"
	"github.com/policyhub/policy-server-go/internal/repository"
)

// Legacy underscore-spelled setting keys the migrator back-fills. Newly
// provisioned organizations receive the dotted policy.* keys instead; the
// two schemes coexist until the key naming is consolidated.
var migrationDefaults = []defaultSetting{
	{
		Key:         "policy_categories",
		Value:       json.RawMessage(`["HR","Finance","IT Security","Compliance","Operations","Health & Safety"]`),
		Description: "Policy categories available when classifying a policy",
	},
	{
		Key:         "policy_departments",
		Value:       json.RawMessage(`["Human Resources","Finance","Engineering","Sales","Marketing","Legal"]`),
		Description: "Departments a policy can be scoped to",
	},
	{
		Key:         "policy_tags",
		Value:       json.RawMessage(`["mandatory","annual-review","new-hire","gdpr","remote-work"]`),
		Description: "Free-form tags for policy discovery",
	},
}

type MigrationDetail struct {
	OrganizationID   string   `json:"organizationId"`
	OrganizationName string   `json:"organizationName"`
	AddedKeys        []string `json:"addedKeys"`
}

type MigrationSummary struct {
	Success                bool              `json:"success"`
	Message                string            `json:"message"`
	ProcessedOrganizations int               `json:"processedOrganizations"`
	UpdatedOrganizations   int               `json:"updatedOrganizations"`
	MigrationDetails       []MigrationDetail `json:"migrationDetails"`
}

type MigrationService struct {
	db          database.TxRunner
	orgRepo     repository.OrganizationRepository
	settingRepo repository.SettingRepository
}

func NewMigrationService(
	db database.TxRunner,
	orgRepo repository.OrganizationRepository,
	settingRepo repository.SettingRepository,
) *MigrationService {
	return &MigrationService{
		db:          db,
		orgRepo:     orgRepo,
		settingRepo: settingRepo,
	}
}

// MigrateDefaults back-fills the default setting keys for every organization
// that is missing them. Each organization gets its own transaction, so one
// failure does not roll back or block the others. Running it again after a
// successful pass adds nothing.
func (s *MigrationService) MigrateDefaults(ctx context.Context) (*MigrationSummary, error) {
	orgs, err := s.orgRepo.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	summary := &MigrationSummary{
		Success:          true,
		MigrationDetails: []MigrationDetail{},
	}

	for _, org := range orgs {
		summary.ProcessedOrganizations++

		added, err := s.migrateOrganization(ctx, org)
		if err != nil {
			log.Error().Err(err).
				Str("organizationId", org.ID).
				Str("name", org.Name).
				Msg("defaults migration failed for organization")
			continue
		}

		if len(added) > 0 {
			summary.UpdatedOrganizations++
			summary.MigrationDetails = append(summary.MigrationDetails, MigrationDetail{
				OrganizationID:   org.ID,
				OrganizationName: org.Name,
				AddedKeys:        added,
			})
		}
	}

	summary.Message = fmt.Sprintf(
		"Processed %d organizations, updated %d",
		summary.ProcessedOrganizations, summary.UpdatedOrganizations,
	)

	log.Info().
		Int("processed", summary.ProcessedOrganizations).
		Int("updated", summary.UpdatedOrganizations).
		Msg("defaults migration completed")

	return summary, nil
}

func (s *MigrationService) migrateOrganization(ctx context.Context, org model.Organization) ([]string, error) {
	var added []string

	err := s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		settings := s.settingRepo.WithTx(tx)

		keys := make([]string, len(migrationDefaults))
		for i, d := range migrationDefaults {
			keys[i] = d.Key
		}

		existing, err := settings.ExistingKeys(ctx, org.ID, keys)
		if err != nil {
			return err
		}

		present := make(map[string]bool, len(existing))
		for _, k := range existing {
			present[k] = true
		}

		for _, d := range migrationDefaults {
			if present[d.Key] {
				continue
			}
			desc := d.Description
			if _, err := settings.Upsert(ctx, model.UpsertSettingParams{
				OrganizationID: org.ID,
				SettingKey:     d.Key,
				SettingValue:   d.Value,
				Description:    &desc,
			}); err != nil {
				return err
			}
			added = append(added, d.Key)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return added, nil
}

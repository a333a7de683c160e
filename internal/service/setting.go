package service

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	apperrors "github.com/policyhub/policy-server-go/internal/errors"
	"github.com/policyhub/policy-server-go/internal/model"
	"github.com/policyhub/policy-server-go/internal/repository"
)

type SettingService struct {
	settingRepo repository.SettingRepository
}

func NewSettingService(settingRepo repository.SettingRepository) *SettingService {
	return &SettingService{settingRepo: settingRepo}
}

// Update upserts an organization-scoped setting. Writing the same key twice
// leaves a single row holding the latest value.
func (s *SettingService) Update(ctx context.Context, organizationID, key string, value json.RawMessage, description *string) (*model.Setting, error) {
	if key == "" {
		return nil, apperrors.MissingRequired("settingKey")
	}
	if len(value) == 0 || !json.Valid(value) {
		return nil, apperrors.InvalidInput("settingValue", "must be valid JSON")
	}

	setting, err := s.settingRepo.Upsert(ctx, model.UpsertSettingParams{
		OrganizationID: organizationID,
		SettingKey:     key,
		SettingValue:   value,
		Description:    description,
	})
	if err != nil {
		return nil, apperrors.Database(err)
	}

	log.Debug().
		Str("organizationId", organizationID).
		Str("settingKey", key).
		Msg("setting updated")

	return setting, nil
}

func (s *SettingService) List(ctx context.Context, organizationID string) ([]model.Setting, error) {
	settings, err := s.settingRepo.ListByOrganization(ctx, organizationID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return settings, nil
}

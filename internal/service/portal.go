package service

import (
	"context"

	apperrors "github.com/policyhub/policy-server-go/internal/errors"
	"github.com/policyhub/policy-server-go/internal/model"
	"github.com/policyhub/policy-server-go/internal/repository"
)

type PortalService struct {
	portalRepo repository.PortalRepository
}

func NewPortalService(portalRepo repository.PortalRepository) *PortalService {
	return &PortalService{portalRepo: portalRepo}
}

func (s *PortalService) ListByOrganization(ctx context.Context, organizationID string) ([]model.Portal, error) {
	portals, err := s.portalRepo.ListByOrganization(ctx, organizationID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return portals, nil
}

// Resolve looks up an active portal by organization and portal slug. Used by
// the public portal pages and the embeddable widget; inactive portals and
// organizations resolve as not found.
func (s *PortalService) Resolve(ctx context.Context, orgSlug, portalSlug string) (*model.Portal, error) {
	portal, err := s.portalRepo.FindBySlugs(ctx, orgSlug, portalSlug)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if portal == nil {
		return nil, apperrors.NotFound("Portal")
	}
	return portal, nil
}

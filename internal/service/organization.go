package service

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/policyhub/policy-server-go/internal/database"
	apperrors "github.com/policyhub/policy-server-go/internal/errors"
	"github.com/policyhub/policy-server-go/internal/model"
	"github.com/policyhub/policy-server-go/internal/repository"
	"github.com/policyhub/policy-server-go/internal/util"
)

const minPasswordLength = 8

type CreateOrganizationInput struct {
	Name   string  `json:"name"`
	Domain *string `json:"domain,omitempty"`
}

type RegisterOrganizationInput struct {
	OrganizationName string  `json:"organizationName"`
	OrganizationSlug string  `json:"organizationSlug"`
	Domain           *string `json:"domain,omitempty"`
	AdminDisplayName string  `json:"adminDisplayName"`
	AdminEmail       string  `json:"adminEmail"`
	AdminPassword    string  `json:"adminPassword"`
}

type OrganizationService struct {
	db          database.TxRunner
	orgRepo     repository.OrganizationRepository
	portalRepo  repository.PortalRepository
	settingRepo repository.SettingRepository
	userRepo    repository.UserRepository
}

func NewOrganizationService(
	db database.TxRunner,
	orgRepo repository.OrganizationRepository,
	portalRepo repository.PortalRepository,
	settingRepo repository.SettingRepository,
	userRepo repository.UserRepository,
) *OrganizationService {
	return &OrganizationService{
		db:          db,
		orgRepo:     orgRepo,
		portalRepo:  portalRepo,
		settingRepo: settingRepo,
		userRepo:    userRepo,
	}
}

// Create provisions an organization with its two default portals and the
// default taxonomy settings, all inside one transaction. A failure at any
// point leaves no partial rows behind.
func (s *OrganizationService) Create(ctx context.Context, input CreateOrganizationInput) (*model.Organization, error) {
	if input.Name == "" {
		return nil, apperrors.MissingRequired("name")
	}

	slug := util.GenerateSlug(input.Name)
	if slug == "" {
		return nil, apperrors.InvalidInput("name", "must contain at least one letter or digit")
	}

	var org *model.Organization
	err := s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		created, err := s.provision(ctx, tx, model.CreateOrganizationParams{
			Name:   input.Name,
			Slug:   slug,
			Domain: input.Domain,
		})
		if err != nil {
			return err
		}
		org = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("organizationId", org.ID).
		Str("name", org.Name).
		Str("slug", org.Slug).
		Msg("organization created")

	return org, nil
}

// Register provisions an organization together with its first admin user and
// password credential. It is the unauthenticated sign-up path; slug and email
// availability are checked inside the same transaction to avoid races with
// concurrent registrations.
func (s *OrganizationService) Register(ctx context.Context, input RegisterOrganizationInput) (*model.Organization, error) {
	if input.OrganizationName == "" {
		return nil, apperrors.MissingRequired("organizationName")
	}
	if input.AdminDisplayName == "" {
		return nil, apperrors.MissingRequired("adminDisplayName")
	}
	if !util.IsValidEmail(input.AdminEmail) {
		return nil, apperrors.InvalidInput("adminEmail", "must be a valid email address")
	}
	if len(input.AdminPassword) < minPasswordLength {
		return nil, apperrors.InvalidInput("adminPassword", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}

	slugSource := input.OrganizationSlug
	if slugSource == "" {
		slugSource = input.OrganizationName
	}
	slug := util.GenerateSlug(slugSource)
	if slug == "" {
		return nil, apperrors.InvalidInput("organizationSlug", "must contain at least one letter or digit")
	}

	// bcrypt is deliberately slow; hash before entering the transaction.
	passwordHash, err := util.HashPassword(input.AdminPassword)
	if err != nil {
		return nil, apperrors.Internal("Failed to process password").WithCause(err)
	}

	var org *model.Organization
	err = s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		users := s.userRepo.WithTx(tx)

		existingUser, err := users.FindByEmail(ctx, input.AdminEmail)
		if err != nil {
			return apperrors.Database(err)
		}
		if existingUser != nil {
			return apperrors.AlreadyExists("An account with this email")
		}

		created, err := s.provision(ctx, tx, model.CreateOrganizationParams{
			Name:   input.OrganizationName,
			Slug:   slug,
			Domain: input.Domain,
		})
		if err != nil {
			return err
		}

		admin, err := users.Create(ctx, model.CreateUserParams{
			Email:          input.AdminEmail,
			DisplayName:    input.AdminDisplayName,
			Role:           model.UserRoleAdmin,
			OrganizationID: created.ID,
		})
		if err != nil {
			return apperrors.Database(err)
		}

		if err := users.CreatePasswordCredential(ctx, admin.ID, passwordHash); err != nil {
			return apperrors.Database(err)
		}

		org = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("organizationId", org.ID).
		Str("name", org.Name).
		Str("slug", org.Slug).
		Str("adminEmail", input.AdminEmail).
		Msg("organization registered")

	return org, nil
}

// provision inserts the organization row and seeds its default portals and
// settings using the given transaction.
func (s *OrganizationService) provision(ctx context.Context, tx *sqlx.Tx, params model.CreateOrganizationParams) (*model.Organization, error) {
	orgs := s.orgRepo.WithTx(tx)
	portals := s.portalRepo.WithTx(tx)
	settings := s.settingRepo.WithTx(tx)

	existing, err := orgs.FindBySlug(ctx, params.Slug)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if existing != nil {
		return nil, apperrors.AlreadyExists("An organization with this slug")
	}

	org, err := orgs.Create(ctx, params)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	for _, p := range defaultPortals {
		if _, err := portals.Create(ctx, model.CreatePortalParams{
			OrganizationID: org.ID,
			Name:           p.Name,
			Slug:           p.Slug,
			AccessType:     model.PortalAccessType(p.AccessType),
			Description:    p.Description,
		}); err != nil {
			return nil, apperrors.Database(err)
		}
	}

	for _, d := range defaultTaxonomy {
		desc := d.Description
		if _, err := settings.Upsert(ctx, model.UpsertSettingParams{
			OrganizationID: org.ID,
			SettingKey:     d.Key,
			SettingValue:   d.Value,
			Description:    &desc,
		}); err != nil {
			return nil, apperrors.Database(err)
		}
	}

	return org, nil
}

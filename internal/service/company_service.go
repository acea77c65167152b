package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/auth"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// CompanyService manages customer companies.
type CompanyService struct {
	companies repository.CompanyRepository
	users     repository.UserRepository
	policy    *auth.Policy
	logger    *zap.Logger
}

// NewCompanyService constructs the service.
func NewCompanyService(companies repository.CompanyRepository, users repository.UserRepository, policy *auth.Policy, logger *zap.Logger) *CompanyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CompanyService{companies: companies, users: users, policy: policy, logger: logger}
}

// CompanyInput describes a new company.
type CompanyInput struct {
	Name    string
	Country string
}

// List returns every company.
func (s *CompanyService) List(ctx context.Context, identity domain.Identity) ([]domain.Company, error) {
	caller, err := resolveUser(ctx, s.users, s.logger, identity, msgRequestingUserNotFound)
	if err != nil {
		return nil, err
	}
	if !s.policy.Allows(caller.Role, auth.CapViewCompanies) {
		return nil, apperrors.NewForbidden("You are not authorized to view companies.")
	}
	companies, err := s.companies.List(ctx)
	if err != nil {
		return nil, s.failure("list", "Unable to get companies.", err)
	}
	return companies, nil
}

// Mine returns the caller's own company.
func (s *CompanyService) Mine(ctx context.Context, identity domain.Identity) (*domain.Company, error) {
	caller, err := resolveUser(ctx, s.users, s.logger, identity, msgRequestingUserNotFound)
	if err != nil {
		return nil, err
	}
	company, err := s.companies.GetByID(ctx, caller.CompanyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Company not found.", nil)
		}
		return nil, s.failure("mine", "Unable to get company.", err)
	}
	return company, nil
}

// Create adds an active company.
func (s *CompanyService) Create(ctx context.Context, identity domain.Identity, input CompanyInput) (*domain.Company, error) {
	if err := s.requireManager(ctx, identity); err != nil {
		return nil, err
	}
	company := &domain.Company{
		Name:     strings.TrimSpace(input.Name),
		Country:  strings.TrimSpace(input.Country),
		IsActive: true,
	}
	if err := s.companies.Create(ctx, company); err != nil {
		return nil, s.failure("create", "Unable to create company with given data.", err)
	}
	return company, nil
}

// ToggleActive flips the active flag and returns the refreshed list.
func (s *CompanyService) ToggleActive(ctx context.Context, identity domain.Identity, companyID string) ([]domain.Company, error) {
	if err := s.requireManager(ctx, identity); err != nil {
		return nil, err
	}
	if !validID(companyID) {
		return nil, apperrors.NewNotFound("Company not found.", nil)
	}
	company, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Company not found.", nil)
		}
		return nil, s.failure("toggle", "Unable to update company.", err)
	}
	company.IsActive = !company.IsActive
	if err := s.companies.Update(ctx, company); err != nil {
		return nil, s.failure("toggle", "Unable to update company.", err)
	}
	companies, err := s.companies.List(ctx)
	if err != nil {
		return nil, s.failure("toggle", "Unable to get companies.", err)
	}
	return companies, nil
}

func (s *CompanyService) requireManager(ctx context.Context, identity domain.Identity) error {
	caller, err := resolveUser(ctx, s.users, s.logger, identity, msgRequestingUserNotFound)
	if err != nil {
		return err
	}
	if !s.policy.CanManageCompanies(caller.Role) {
		return apperrors.NewForbidden("You are not authorized to manage companies.")
	}
	return nil
}

func (s *CompanyService) failure(operation, message string, err error) error {
	s.logger.Error("company operation failed", zap.String("operation", operation), zap.Error(err))
	return apperrors.NewPersistenceFailure(message, err)
}

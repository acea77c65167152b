package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/auth"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// UserService manages the people of a company.
type UserService struct {
	users  repository.UserRepository
	policy *auth.Policy
	logger *zap.Logger
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, policy *auth.Policy, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{users: users, policy: policy, logger: logger}
}

// ListCompanyUsers returns the users of a company. An empty companyID means
// the caller's own company; other companies need staff rights.
func (s *UserService) ListCompanyUsers(ctx context.Context, identity domain.Identity, companyID string) ([]domain.User, error) {
	caller, err := resolveUser(ctx, s.users, s.logger, identity, msgRequestingUserNotFound)
	if err != nil {
		return nil, err
	}
	if !s.policy.Allows(caller.Role, auth.CapViewUsers) {
		return nil, apperrors.NewForbidden("You are not authorized to view users.")
	}
	if companyID == "" {
		companyID = caller.CompanyID
	}
	if companyID != caller.CompanyID && !s.policy.CanSeeAllTickets(caller.Role) {
		return nil, apperrors.NewForbidden("You can only view users of your own company.")
	}
	if !validID(companyID) {
		return nil, apperrors.NewNotFound("Company not found.", nil)
	}

	users, err := s.users.ListByCompany(ctx, companyID)
	if err != nil {
		s.logger.Error("list users failed", zap.String("company_id", companyID), zap.Error(err))
		return nil, apperrors.NewPersistenceFailure("Unable to get users.", err)
	}
	return users, nil
}

// ToggleActive activates or deactivates a user. Inactive users cannot log in.
func (s *UserService) ToggleActive(ctx context.Context, identity domain.Identity, userID string) (*domain.User, error) {
	caller, err := resolveUser(ctx, s.users, s.logger, identity, msgRequestingUserNotFound)
	if err != nil {
		return nil, err
	}

	if !validID(userID) {
		return nil, apperrors.NewNotFound(msgUserNotFound, nil)
	}
	target, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound(msgUserNotFound, nil)
		}
		s.logger.Error("load user failed", zap.String("user_id", userID), zap.Error(err))
		return nil, apperrors.NewPersistenceFailure("Unable to update user.", err)
	}

	anyCompany, ownCompany := s.policy.CanRegisterUsers(caller.Role)
	switch {
	case anyCompany:
	case ownCompany && target.CompanyID == caller.CompanyID && !target.Role.IsViscon():
	default:
		return nil, apperrors.NewForbidden("You are not authorized to manage this user.")
	}
	if target.ID == caller.ID {
		return nil, apperrors.NewValidationError("You cannot deactivate yourself.", nil)
	}

	target.IsActive = !target.IsActive
	if err := s.users.Update(ctx, target); err != nil {
		s.logger.Error("update user failed", zap.String("user_id", userID), zap.Error(err))
		return nil, apperrors.NewPersistenceFailure("Unable to update user.", err)
	}
	return target, nil
}

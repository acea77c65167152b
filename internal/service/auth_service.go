package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/auth"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	users     repository.UserRepository
	companies repository.CompanyRepository
	denylist  repository.TokenDenylist
	tokenMgr  *auth.TokenManager
	policy    *auth.Policy
	logger    *zap.Logger
	now       func() time.Time
}

// AuthDependencies encapsulates requirements for auth service.
type AuthDependencies struct {
	UserRepo     repository.UserRepository
	CompanyRepo  repository.CompanyRepository
	Denylist     repository.TokenDenylist
	TokenManager *auth.TokenManager
	Policy       *auth.Policy
	Logger       *zap.Logger
}

// RegisterInput describes a new user account.
type RegisterInput struct {
	FirstName   string
	Prefix      *string
	LastName    string
	Email       string
	Password    string
	PhoneNumber string
	Role        domain.Role
	CompanyID   string
}

// Session is the result of a successful login.
type Session struct {
	User        *domain.User
	Company     *domain.Company
	AccessToken string
	ExpiresAt   time.Time
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:     deps.UserRepo,
		companies: deps.CompanyRepo,
		denylist:  deps.Denylist,
		tokenMgr:  deps.TokenManager,
		policy:    deps.Policy,
		logger:    logger,
		now:       time.Now,
	}
}

// Login verifies credentials and issues a bearer token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("User not found.")
		}
		return nil, s.internal("login", err)
	}
	if !auth.VerifyPassword(password, user.PasswordHash, user.PasswordSalt) {
		return nil, apperrors.NewUnauthorized("Password is incorrect.")
	}
	if !user.IsActive {
		return nil, apperrors.NewUnauthorized("User is not active.")
	}

	company, err := s.companies.GetByID(ctx, user.CompanyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("UserCompany not found.", nil)
		}
		return nil, s.internal("login", err)
	}

	token, exp, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, s.internal("login", err)
	}
	return &Session{User: user, Company: company, AccessToken: token, ExpiresAt: exp}, nil
}

// Register creates a user account. Staff admins may register into any
// company; customer admins only into their own and only customer roles.
func (s *AuthService) Register(ctx context.Context, identity domain.Identity, input RegisterInput) (*domain.User, error) {
	caller, err := resolveUser(ctx, s.users, s.logger, identity, msgRequestingUserNotFound)
	if err != nil {
		return nil, err
	}

	anyCompany, ownCompany := s.policy.CanRegisterUsers(caller.Role)
	switch {
	case anyCompany:
	case ownCompany:
		if input.CompanyID != caller.CompanyID {
			return nil, apperrors.NewForbidden("You can only register users for your own company.")
		}
		if input.Role.IsViscon() {
			return nil, apperrors.NewForbidden("You are not allowed to assign this role.")
		}
	default:
		return nil, apperrors.NewForbidden("You are not allowed to register users.")
	}

	return s.createUser(ctx, input)
}

// Bootstrap creates a user without an authenticated caller. Used by the
// bootstrap command to seed the first staff administrator.
func (s *AuthService) Bootstrap(ctx context.Context, input RegisterInput) (*domain.User, error) {
	return s.createUser(ctx, input)
}

func (s *AuthService) createUser(ctx context.Context, input RegisterInput) (*domain.User, error) {
	email := strings.TrimSpace(input.Email)
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("User with this email already exists.", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, s.internal("register", err)
	}

	if _, err := s.companies.GetByID(ctx, input.CompanyID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Company does not exist.", nil)
		}
		return nil, s.internal("register", err)
	}

	hash, salt, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, s.internal("register", err)
	}

	user := &domain.User{
		FirstName:    strings.TrimSpace(input.FirstName),
		Prefix:       input.Prefix,
		LastName:     strings.TrimSpace(input.LastName),
		Email:        email,
		PasswordHash: hash,
		PasswordSalt: salt,
		PhoneNumber:  strings.TrimSpace(input.PhoneNumber),
		Role:         input.Role,
		IsActive:     true,
		CompanyID:    input.CompanyID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, s.internal("register", err)
	}
	return user, nil
}

// Me returns the caller and their company.
func (s *AuthService) Me(ctx context.Context, identity domain.Identity) (*domain.User, *domain.Company, error) {
	user, err := resolveUser(ctx, s.users, s.logger, identity, msgUserNotFound)
	if err != nil {
		return nil, nil, err
	}
	company, err := s.companies.GetByID(ctx, user.CompanyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFound("UserCompany not found.", nil)
		}
		return nil, nil, s.internal("me", err)
	}
	return user, company, nil
}

// Logout revokes the caller's token until it would have expired.
func (s *AuthService) Logout(ctx context.Context, identity domain.Identity) error {
	if identity.TokenID == "" {
		return nil
	}
	ttl := identity.ExpiresAt.Sub(s.now())
	if err := s.denylist.Revoke(ctx, identity.TokenID, ttl); err != nil {
		return s.internal("logout", err)
	}
	return nil
}

// ChangePassword verifies current password before storing a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, identity domain.Identity, currentPassword, newPassword string) error {
	user, err := resolveUser(ctx, s.users, s.logger, identity, msgUserNotFound)
	if err != nil {
		return err
	}
	if !auth.VerifyPassword(currentPassword, user.PasswordHash, user.PasswordSalt) {
		return apperrors.NewUnauthorized("Password is incorrect.")
	}

	hash, salt, err := auth.HashPassword(newPassword)
	if err != nil {
		return s.internal("change_password", err)
	}
	user.PasswordHash = hash
	user.PasswordSalt = salt
	if err := s.users.Update(ctx, user); err != nil {
		return s.internal("change_password", err)
	}
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) internal(operation string, err error) error {
	s.logger.Error("auth operation failed", zap.String("operation", operation), zap.Error(err))
	return apperrors.NewInternalError(err)
}

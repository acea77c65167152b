package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/api/dto"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/service"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// AuthHandler exposes login, registration and session endpoints.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates the handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	session, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	resp := dto.AuthenticatedUserResponse{
		UserResponse: userResponse(session.User),
		Company:      companyResponse(session.Company),
		AccessToken:  session.AccessToken,
		ExpiresAt:    &session.ExpiresAt,
	}
	return ok(c, resp)
}

// Register POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	var req dto.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return apperrors.NewValidationError("invalid role", map[string]any{"role": req.Role})
	}

	user, err := h.authService.Register(c.UserContext(), identity, service.RegisterInput{
		FirstName:   req.FirstName,
		Prefix:      req.Prefix,
		LastName:    req.LastName,
		Email:       req.Email,
		Password:    req.Password,
		PhoneNumber: req.PhoneNumber,
		Role:        role,
		CompanyID:   req.CompanyID,
	})
	if err != nil {
		return err
	}
	return created(c, userResponse(user))
}

// Logout POST /api/auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	if err := h.authService.Logout(c.UserContext(), identity); err != nil {
		return err
	}
	return ok(c, nil)
}

// Me GET /api/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	user, company, err := h.authService.Me(c.UserContext(), identity)
	if err != nil {
		return err
	}
	return ok(c, dto.AuthenticatedUserResponse{
		UserResponse: userResponse(user),
		Company:      companyResponse(company),
	})
}

// ChangePassword POST /api/auth/password.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	var req dto.ChangePasswordRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.authService.ChangePassword(c.UserContext(), identity, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return ok(c, nil)
}

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/api/dto"
	"github.com/spec-kit/support-desk/internal/service"
)

// UsersHandler exposes company user management.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler creates the handler.
func NewUsersHandler(users *service.UserService) *UsersHandler {
	return &UsersHandler{users: users}
}

// List GET /api/user and GET /api/user/company/:companyId.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	users, err := h.users.ListCompanyUsers(c.UserContext(), identity, c.Params("companyId"))
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, userResponse(&users[i]))
	}
	return ok(c, items)
}

// Toggle POST /api/user/:id/toggle.
func (h *UsersHandler) Toggle(c *fiber.Ctx) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	user, err := h.users.ToggleActive(c.UserContext(), identity, c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, userResponse(user))
}

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/api/dto"
	"github.com/spec-kit/support-desk/internal/service"
)

// NotificationsHandler serves the caller's inbox.
type NotificationsHandler struct {
	notifications *service.NotificationService
}

// NewNotificationsHandler creates the handler.
func NewNotificationsHandler(notifications *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{notifications: notifications}
}

// List GET /api/notification.
func (h *NotificationsHandler) List(c *fiber.Ctx) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	items, err := h.notifications.ListMine(c.UserContext(), identity)
	if err != nil {
		return err
	}
	resp := make([]dto.NotificationResponse, 0, len(items))
	for i := range items {
		resp = append(resp, notificationResponse(&items[i]))
	}
	return ok(c, resp)
}

// Unread GET /api/notification/unread.
func (h *NotificationsHandler) Unread(c *fiber.Ctx) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	count, err := h.notifications.CountUnread(c.UserContext(), identity)
	if err != nil {
		return err
	}
	return ok(c, count)
}

// MarkRead POST /api/notification/:id/read.
func (h *NotificationsHandler) MarkRead(c *fiber.Ctx) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	item, err := h.notifications.MarkRead(c.UserContext(), identity, c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, notificationResponse(item))
}

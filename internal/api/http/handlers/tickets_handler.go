package handlers

import (
	"context"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/api/dto"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/service"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// TicketsHandler exposes the ticket lifecycle.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /api/ticket/CreateTicket.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	detail, err := h.service.CreateTicket(c.UserContext(), identity, service.TicketCreateInput{
		MachineID:       req.MachineID,
		Issue:           req.Issue,
		ActionExpected:  req.ActionExpected,
		ActionPerformed: req.ActionPerformed,
		ExtraInfo:       req.ExtraInfo,
		PhoneNumber:     req.PhoneNumber,
	})
	if err != nil {
		return err
	}
	return created(c, ticketResponse(detail))
}

// GetTicket GET /api/ticket/GetTicket/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	detail, err := h.service.GetTicket(c.UserContext(), identity, c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, ticketResponse(detail))
}

// ListTickets GET /api/ticket?page=&status=.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	page := 1
	if raw := c.Query("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil {
			return apperrors.NewValidationError("page must be a number", nil)
		}
	}
	status, err := parseStatus(c)
	if err != nil {
		return err
	}

	tickets, err := h.service.ListTickets(c.UserContext(), identity, page, status)
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketResponse(&tickets[i]))
	}
	return ok(c, items)
}

// Total GET /api/ticket/total?status=.
func (h *TicketsHandler) Total(c *fiber.Ctx) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	status, err := parseStatus(c)
	if err != nil {
		return err
	}
	total, err := h.service.TotalTickets(c.UserContext(), identity, status)
	if err != nil {
		return err
	}
	return ok(c, total)
}

// TotalByUser GET /api/ticket/total/user.
func (h *TicketsHandler) TotalByUser(c *fiber.Ctx) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	total, err := h.service.TotalTicketsByUser(c.UserContext(), identity)
	if err != nil {
		return err
	}
	return ok(c, total)
}

// TotalThisWeek GET /api/ticket/total/week.
func (h *TicketsHandler) TotalThisWeek(c *fiber.Ctx) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	total, err := h.service.TotalTicketsThisWeek(c.UserContext(), identity)
	if err != nil {
		return err
	}
	return ok(c, total)
}

// Claim POST /api/ticket/claim.
func (h *TicketsHandler) Claim(c *fiber.Ctx) error {
	return h.transition(c, h.service.ClaimTicket)
}

// Unclaim POST /api/ticket/unclaim.
func (h *TicketsHandler) Unclaim(c *fiber.Ctx) error {
	return h.transition(c, h.service.UnclaimTicket)
}

// Resolve POST /api/ticket/resolve.
func (h *TicketsHandler) Resolve(c *fiber.Ctx) error {
	return h.transition(c, h.service.ResolveTicket)
}

// Reopen POST /api/ticket/reopen.
func (h *TicketsHandler) Reopen(c *fiber.Ctx) error {
	return h.transition(c, h.service.ReopenTicket)
}

// Cancel POST /api/ticket/cancel.
func (h *TicketsHandler) Cancel(c *fiber.Ctx) error {
	return h.transition(c, h.service.CancelTicket)
}

// AddSolution POST /api/ticket/solution.
func (h *TicketsHandler) AddSolution(c *fiber.Ctx) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	var req dto.AddSolutionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	detail, err := h.service.AddSolution(c.UserContext(), identity, req.TicketID, req.Solution)
	if err != nil {
		return err
	}
	return ok(c, ticketResponse(detail))
}

type transitionFunc func(ctx context.Context, identity domain.Identity, ticketID string) (*domain.TicketDetail, error)

func (h *TicketsHandler) transition(c *fiber.Ctx, fn transitionFunc) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	var req dto.TicketIDRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	detail, err := fn(c.UserContext(), identity, req.TicketID)
	if err != nil {
		if detail != nil {
			return dto.WithData(err, ticketResponse(detail))
		}
		return err
	}
	return ok(c, ticketResponse(detail))
}

func parseStatus(c *fiber.Ctx) (*domain.TicketStatus, error) {
	raw := strings.TrimSpace(c.Query("status"))
	if raw == "" {
		return nil, nil
	}
	status, err := domain.ParseTicketStatus(raw)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": raw})
	}
	return &status, nil
}

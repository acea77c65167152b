package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/api/dto"
	"github.com/spec-kit/support-desk/internal/service"
)

// MachinesHandler exposes machines and their knowledge base.
type MachinesHandler struct {
	machines *service.MachineService
}

// NewMachinesHandler creates the handler.
func NewMachinesHandler(machines *service.MachineService) *MachinesHandler {
	return &MachinesHandler{machines: machines}
}

// List GET /api/machine.
func (h *MachinesHandler) List(c *fiber.Ctx) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	machines, err := h.machines.List(c.UserContext(), identity)
	if err != nil {
		return err
	}
	return ok(c, machineList(machines))
}

// Create POST /api/machine.
func (h *MachinesHandler) Create(c *fiber.Ctx) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	var req dto.CreateMachineRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	machine, err := h.machines.Create(c.UserContext(), identity, service.MachineInput{
		Name:            req.Name,
		BlueprintNumber: req.BlueprintNumber,
		Type:            req.Type,
	})
	if err != nil {
		return err
	}
	return created(c, dto.MachineResponse{
		ID:              machine.ID,
		Name:            machine.Name,
		BlueprintNumber: machine.BlueprintNumber,
		Type:            machine.Type,
	})
}

// Mine GET /api/machine/company.
func (h *MachinesHandler) Mine(c *fiber.Ctx) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	machines, err := h.machines.ListMine(c.UserContext(), identity)
	if err != nil {
		return err
	}
	return ok(c, machineList(machines))
}

// ByCompany GET /api/machine/company/:companyId.
func (h *MachinesHandler) ByCompany(c *fiber.Ctx) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	machines, err := h.machines.ListByCompany(c.UserContext(), identity, c.Params("companyId"))
	if err != nil {
		return err
	}
	return ok(c, machineList(machines))
}

// Link POST /api/machine/company.
func (h *MachinesHandler) Link(c *fiber.Ctx) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	var req dto.LinkMachineRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	machines, err := h.machines.LinkCompany(c.UserContext(), identity, req.CompanyID, req.MachineID)
	if err != nil {
		return err
	}
	return ok(c, machineList(machines))
}

// Solutions GET /api/machine/:id/solutions?language=.
func (h *MachinesHandler) Solutions(c *fiber.Ctx) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	views, err := h.machines.ListSolutions(c.UserContext(), identity, c.Params("id"), c.Query("language"))
	if err != nil {
		return err
	}
	items := make([]dto.SolutionResponse, 0, len(views))
	for i := range views {
		items = append(items, solutionResponse(&views[i]))
	}
	return ok(c, items)
}

// CreateSolution POST /api/solution.
func (h *MachinesHandler) CreateSolution(c *fiber.Ctx) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	var req dto.CreateSolutionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	view, err := h.machines.CreateSolution(c.UserContext(), identity, service.SolutionInput{
		MachineID:   req.MachineID,
		Language:    req.Language,
		Issue:       req.Issue,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return created(c, solutionResponse(view))
}

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/api/dto"
	"github.com/spec-kit/support-desk/internal/service"
)

// CompaniesHandler exposes company management.
type CompaniesHandler struct {
	companies *service.CompanyService
}

// NewCompaniesHandler creates the handler.
func NewCompaniesHandler(companies *service.CompanyService) *CompaniesHandler {
	return &CompaniesHandler{companies: companies}
}

// List GET /api/company.
func (h *CompaniesHandler) List(c *fiber.Ctx) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	companies, err := h.companies.List(c.UserContext(), identity)
	if err != nil {
		return err
	}
	return ok(c, companyList(companies))
}

// Mine GET /api/company/mine.
func (h *CompaniesHandler) Mine(c *fiber.Ctx) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	company, err := h.companies.Mine(c.UserContext(), identity)
	if err != nil {
		return err
	}
	return ok(c, companyResponse(company))
}

// Create POST /api/company.
func (h *CompaniesHandler) Create(c *fiber.Ctx) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	var req dto.CreateCompanyRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	company, err := h.companies.Create(c.UserContext(), identity, service.CompanyInput{Name: req.Name, Country: req.Country})
	if err != nil {
		return err
	}
	return created(c, companyResponse(company))
}

// Toggle POST /api/company/:id/toggle.
func (h *CompaniesHandler) Toggle(c *fiber.Ctx) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	companies, err := h.companies.ToggleActive(c.UserContext(), identity, c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, companyList(companies))
}

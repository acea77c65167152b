package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/api/dto"
	"github.com/spec-kit/support-desk/internal/auth"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/service"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

func identityFrom(c *fiber.Ctx) (domain.Identity, error) {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return domain.Identity{}, apperrors.NewUnauthorized("authentication required")
	}
	return identity, nil
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return dto.Validate(out)
}

func ok(c *fiber.Ctx, data any) error {
	return c.JSON(dto.OK(data))
}

func created(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(dto.OK(data))
}

func ticketResponse(detail *domain.TicketDetail) dto.TicketResponse {
	resp := dto.TicketResponse{
		ID:              detail.ID,
		TicketNumber:    detail.TicketNumber,
		Status:          detail.Status.String(),
		Priority:        detail.Priority.String(),
		Issue:           detail.Issue,
		ActionExpected:  detail.ActionExpected,
		ActionPerformed: detail.ActionPerformed,
		ExtraInfo:       detail.ExtraInfo,
		Solution:        detail.Solution,
		PhoneNumber:     detail.PhoneNumber,
		CreationDate:    detail.CreatedAt,
		Creator:         dto.UserRef{ID: detail.CreatorID, Name: detail.CreatorName},
		Company:         dto.NamedRef{ID: detail.CompanyID, Name: detail.CompanyName},
		Machine:         dto.NamedRef{ID: detail.MachineID, Name: detail.MachineName},
	}
	if detail.AssigneeID != nil {
		ref := dto.UserRef{ID: *detail.AssigneeID}
		if detail.AssigneeName != nil {
			ref.Name = *detail.AssigneeName
		}
		resp.Assignee = &ref
	}
	return resp
}

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:          user.ID,
		FirstName:   user.FirstName,
		Prefix:      user.Prefix,
		LastName:    user.LastName,
		Email:       user.Email,
		PhoneNumber: user.PhoneNumber,
		Role:        string(user.Role),
		IsActive:    user.IsActive,
		CompanyID:   user.CompanyID,
	}
}

func companyResponse(company *domain.Company) dto.CompanyResponse {
	return dto.CompanyResponse{
		ID:       company.ID,
		Name:     company.Name,
		Country:  company.Country,
		IsActive: company.IsActive,
	}
}

func companyList(companies []domain.Company) []dto.CompanyResponse {
	items := make([]dto.CompanyResponse, 0, len(companies))
	for i := range companies {
		items = append(items, companyResponse(&companies[i]))
	}
	return items
}

func machineList(machines []domain.Machine) []dto.MachineResponse {
	items := make([]dto.MachineResponse, 0, len(machines))
	for _, m := range machines {
		items = append(items, dto.MachineResponse{
			ID:              m.ID,
			Name:            m.Name,
			BlueprintNumber: m.BlueprintNumber,
			Type:            m.Type,
		})
	}
	return items
}

func solutionResponse(view *service.SolutionView) dto.SolutionResponse {
	return dto.SolutionResponse{
		ID:              view.ID,
		Language:        view.Language,
		Issue:           view.Issue,
		Description:     view.Description,
		DescriptionHTML: view.DescriptionHTML,
		MachineID:       view.MachineID,
	}
}

func notificationResponse(n *domain.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:           n.ID,
		Message:      n.Message,
		IsRead:       n.IsRead,
		CreationDate: n.CreatedAt,
	}
}

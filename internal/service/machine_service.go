package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/spec-kit/support-desk/internal/auth"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/render"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// MachineService manages machines, their company links and the knowledge
// base of solutions attached to them.
type MachineService struct {
	machines  repository.MachineRepository
	companies repository.CompanyRepository
	solutions repository.SolutionRepository
	users     repository.UserRepository
	policy    *auth.Policy
	renderer  *render.Renderer
	logger    *zap.Logger
}

// MachineDependencies bundles collaborators for the machine service.
type MachineDependencies struct {
	MachineRepo  repository.MachineRepository
	CompanyRepo  repository.CompanyRepository
	SolutionRepo repository.SolutionRepository
	UserRepo     repository.UserRepository
	Policy       *auth.Policy
	Renderer     *render.Renderer
	Logger       *zap.Logger
}

// MachineInput describes a new machine.
type MachineInput struct {
	Name            string
	BlueprintNumber string
	Type            string
}

// SolutionInput describes a new knowledge base entry.
type SolutionInput struct {
	MachineID   string
	Language    string
	Issue       string
	Description string
}

// SolutionView is a solution with its description rendered to HTML.
type SolutionView struct {
	domain.Solution
	DescriptionHTML string
}

// NewMachineService constructs the service.
func NewMachineService(deps MachineDependencies) *MachineService {
	s := &MachineService{
		machines:  deps.MachineRepo,
		companies: deps.CompanyRepo,
		solutions: deps.SolutionRepo,
		users:     deps.UserRepo,
		policy:    deps.Policy,
		renderer:  deps.Renderer,
		logger:    deps.Logger,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.renderer == nil {
		s.renderer = render.NewRenderer()
	}
	return s
}

// List returns every machine.
func (s *MachineService) List(ctx context.Context, identity domain.Identity) ([]domain.Machine, error) {
	if _, err := s.require(ctx, identity, auth.CapViewMachines); err != nil {
		return nil, err
	}
	machines, err := s.machines.List(ctx)
	if err != nil {
		return nil, s.failure("list", "Unable to get machines.", err)
	}
	return machines, nil
}

// Create adds a machine.
func (s *MachineService) Create(ctx context.Context, identity domain.Identity, input MachineInput) (*domain.Machine, error) {
	if _, err := s.require(ctx, identity, auth.CapManageMachines); err != nil {
		return nil, err
	}
	machine := &domain.Machine{
		Name:            strings.TrimSpace(input.Name),
		BlueprintNumber: strings.TrimSpace(input.BlueprintNumber),
		Type:            strings.TrimSpace(input.Type),
	}
	if err := s.machines.Create(ctx, machine); err != nil {
		return nil, s.failure("create", "Unable to create machine with given data.", err)
	}
	return machine, nil
}

// ListMine returns the machines owned by the caller's company.
func (s *MachineService) ListMine(ctx context.Context, identity domain.Identity) ([]domain.Machine, error) {
	caller, err := resolveUser(ctx, s.users, s.logger, identity, msgRequestingUserNotFound)
	if err != nil {
		return nil, err
	}
	machines, err := s.machines.ListByCompany(ctx, caller.CompanyID)
	if err != nil {
		return nil, s.failure("list_mine", "Unable to get machines.", err)
	}
	return machines, nil
}

// ListByCompany returns the machines owned by a company.
func (s *MachineService) ListByCompany(ctx context.Context, identity domain.Identity, companyID string) ([]domain.Machine, error) {
	if _, err := s.require(ctx, identity, auth.CapViewMachines); err != nil {
		return nil, err
	}
	if !validID(companyID) {
		return nil, apperrors.NewNotFound("Company does not exist.", nil)
	}
	machines, err := s.machines.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, s.failure("list_company", "Unable to get machines.", err)
	}
	return machines, nil
}

// LinkCompany records that a company owns a machine.
func (s *MachineService) LinkCompany(ctx context.Context, identity domain.Identity, companyID, machineID string) ([]domain.Machine, error) {
	if _, err := s.require(ctx, identity, auth.CapManageMachines); err != nil {
		return nil, err
	}
	if !validID(companyID) {
		return nil, apperrors.NewNotFound("Company does not exist.", nil)
	}
	if !validID(machineID) {
		return nil, apperrors.NewNotFound("Machine not found.", nil)
	}
	if _, err := s.companies.GetByID(ctx, companyID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Company does not exist.", nil)
		}
		return nil, s.failure("link", "Unable to link machine.", err)
	}
	if _, err := s.machines.GetByID(ctx, machineID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Machine not found.", nil)
		}
		return nil, s.failure("link", "Unable to link machine.", err)
	}

	link := domain.CompanyMachine{CompanyID: companyID, MachineID: machineID}
	if err := s.machines.LinkCompany(ctx, link); err != nil {
		return nil, s.failure("link", "Unable to link machine.", err)
	}
	machines, err := s.machines.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, s.failure("link", "Unable to get machines.", err)
	}
	return machines, nil
}

// ListSolutions returns the knowledge base of a machine, optionally
// restricted to one language.
func (s *MachineService) ListSolutions(ctx context.Context, identity domain.Identity, machineID, lang string) ([]SolutionView, error) {
	caller, err := resolveUser(ctx, s.users, s.logger, identity, msgRequestingUserNotFound)
	if err != nil {
		return nil, err
	}

	if !validID(machineID) {
		return nil, apperrors.NewNotFound("Machine not found.", nil)
	}
	if !s.policy.Allows(caller.Role, auth.CapViewMachines) {
		linked, err := s.machines.IsLinked(ctx, caller.CompanyID, machineID)
		if err != nil {
			return nil, s.failure("list_solutions", "Unable to get solutions.", err)
		}
		if !linked {
			return nil, apperrors.NewForbidden("Machine does not belong to your company.")
		}
	}

	tag := ""
	if strings.TrimSpace(lang) != "" {
		tag, err = NormalizeLanguage(lang)
		if err != nil {
			return nil, err
		}
	}

	solutions, err := s.solutions.ListByMachine(ctx, machineID, tag)
	if err != nil {
		return nil, s.failure("list_solutions", "Unable to get solutions.", err)
	}

	views := make([]SolutionView, 0, len(solutions))
	for _, solution := range solutions {
		view, err := s.view(solution)
		if err != nil {
			return nil, s.failure("list_solutions", "Unable to get solutions.", err)
		}
		views = append(views, view)
	}
	return views, nil
}

// CreateSolution adds a knowledge base entry to a machine.
func (s *MachineService) CreateSolution(ctx context.Context, identity domain.Identity, input SolutionInput) (*SolutionView, error) {
	if _, err := s.require(ctx, identity, auth.CapManageSolutions); err != nil {
		return nil, err
	}
	if !validID(input.MachineID) {
		return nil, apperrors.NewNotFound("Machine not found.", nil)
	}
	if _, err := s.machines.GetByID(ctx, input.MachineID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Machine not found.", nil)
		}
		return nil, s.failure("create_solution", "Unable to create solution with given data.", err)
	}

	tag, err := NormalizeLanguage(input.Language)
	if err != nil {
		return nil, err
	}

	solution := domain.Solution{
		Language:    tag,
		Issue:       strings.TrimSpace(input.Issue),
		Description: input.Description,
		MachineID:   input.MachineID,
	}
	if err := s.solutions.Create(ctx, &solution); err != nil {
		return nil, s.failure("create_solution", "Unable to create solution with given data.", err)
	}
	view, err := s.view(solution)
	if err != nil {
		return nil, s.failure("create_solution", "Unable to create solution with given data.", err)
	}
	return &view, nil
}

// NormalizeLanguage canonicalizes a BCP 47 tag, e.g. "EN-us" to "en-US".
func NormalizeLanguage(raw string) (string, error) {
	tag, err := language.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", apperrors.NewValidationError("Invalid language tag.", map[string]any{"language": raw})
	}
	return tag.String(), nil
}

func (s *MachineService) view(solution domain.Solution) (SolutionView, error) {
	html, err := s.renderer.Markdown(solution.Description)
	if err != nil {
		return SolutionView{}, err
	}
	return SolutionView{Solution: solution, DescriptionHTML: html}, nil
}

func (s *MachineService) require(ctx context.Context, identity domain.Identity, capability auth.Capability) (*domain.User, error) {
	caller, err := resolveUser(ctx, s.users, s.logger, identity, msgRequestingUserNotFound)
	if err != nil {
		return nil, err
	}
	if !s.policy.Allows(caller.Role, capability) {
		return nil, apperrors.NewForbidden("You are not authorized to perform this action.")
	}
	return caller, nil
}

func (s *MachineService) failure(operation, message string, err error) error {
	s.logger.Error("machine operation failed", zap.String("operation", operation), zap.Error(err))
	return apperrors.NewPersistenceFailure(message, err)
}

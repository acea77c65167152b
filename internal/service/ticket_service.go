package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/auth"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

const (
	msgRequestingUserNotFound = "Requesting user not found."
	msgUserNotFound           = "User not found."
	msgTicketNotFound         = "Ticket not found."
	msgNotAuthorizedToView    = "You are not authorized to view this ticket."
	msgNotAuthorizedToWork    = "You are not authorized to work on tickets."
	msgNotAuthorizedToReopen  = "You are not authorized to re-open this ticket."
	msgMachineNotOwned        = "Machine does not belong to your company."
)

// persistence failure messages per ticket operation
var ticketFailureMessages = map[domain.TicketAction]string{
	domain.ActionClaim:   "Unable to claim ticket with given id.",
	domain.ActionUnclaim: "Unable to unclaim ticket with given id.",
	domain.ActionResolve: "Unable to resolve ticket with given id.",
	domain.ActionReopen:  "Unable to re-open ticket with given id.",
	domain.ActionCancel:  "Unable to cancel ticket with given id.",
}

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	users      repository.UserRepository
	machines   repository.MachineRepository
	policy     *auth.Policy
	dispatcher events.Dispatcher
	logger     *zap.Logger
	pageSize   int
	now        func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	UserRepo    repository.UserRepository
	MachineRepo repository.MachineRepository
	Policy      *auth.Policy
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
	PageSize    int
	Now         func() time.Time
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	MachineID       string
	Issue           string
	ActionExpected  string
	ActionPerformed string
	ExtraInfo       string
	PhoneNumber     string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	s := &TicketService{
		tickets:    deps.TicketRepo,
		users:      deps.UserRepo,
		machines:   deps.MachineRepo,
		policy:     deps.Policy,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		pageSize:   deps.PageSize,
		now:        deps.Now,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.pageSize <= 0 {
		s.pageSize = 10
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// PageSize returns the number of tickets per listing page.
func (s *TicketService) PageSize() int {
	return s.pageSize
}

// CreateTicket files a new ticket for the caller's company.
func (s *TicketService) CreateTicket(ctx context.Context, identity domain.Identity, input TicketCreateInput) (*domain.TicketDetail, error) {
	const failure = "Unable to create ticket with given data."

	caller, err := s.resolveCaller(ctx, identity, msgRequestingUserNotFound)
	if err != nil {
		return nil, err
	}

	if !validID(input.MachineID) {
		return nil, apperrors.NewValidationError(msgMachineNotOwned, map[string]any{"machineId": input.MachineID})
	}
	linked, err := s.machines.IsLinked(ctx, caller.CompanyID, input.MachineID)
	if err != nil {
		return nil, s.failure("create", "", failure, err)
	}
	if !linked {
		return nil, apperrors.NewValidationError(msgMachineNotOwned, map[string]any{"machineId": input.MachineID})
	}

	ticket := &domain.Ticket{
		Status:          domain.TicketStatusOpen,
		Priority:        domain.TicketPriorityMedium,
		Issue:           strings.TrimSpace(input.Issue),
		ActionExpected:  strings.TrimSpace(input.ActionExpected),
		ActionPerformed: strings.TrimSpace(input.ActionPerformed),
		ExtraInfo:       strings.TrimSpace(input.ExtraInfo),
		PhoneNumber:     strings.TrimSpace(input.PhoneNumber),
		CreatedAt:       s.now().UTC(),
		CreatorID:       caller.ID,
		CompanyID:       caller.CompanyID,
		MachineID:       input.MachineID,
	}
	if ticket.Issue == "" {
		return nil, apperrors.NewValidationError(failure, map[string]any{"issue": "required"})
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, s.failure("create", "", failure, err)
	}

	detail, err := s.tickets.GetDetail(ctx, ticket.ID)
	if err != nil {
		return nil, s.failure("create", ticket.ID, "Unable to return the ticket that was just created.", err)
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventTicketCreated,
		TicketID:    ticket.ID,
		ActorUserID: caller.ID,
		Payload: events.TicketCreatedPayload{
			TicketNumber: detail.TicketNumber,
			CompanyID:    detail.CompanyID,
			CompanyName:  detail.CompanyName,
			MachineName:  detail.MachineName,
			Priority:     detail.Priority,
			Issue:        detail.Issue,
		},
	})
	return detail, nil
}

// GetTicket returns a ticket visible to the caller.
func (s *TicketService) GetTicket(ctx context.Context, identity domain.Identity, ticketID string) (*domain.TicketDetail, error) {
	const failure = "Unable to get ticket with given id."

	caller, err := s.resolveCaller(ctx, identity, msgRequestingUserNotFound)
	if err != nil {
		return nil, err
	}

	if !validID(ticketID) {
		return nil, apperrors.NewNotFound(msgTicketNotFound, nil)
	}
	detail, err := s.tickets.GetDetail(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound(msgTicketNotFound, nil)
		}
		return nil, s.failure("get", ticketID, failure, err)
	}

	if !s.canView(caller, &detail.Ticket) {
		return nil, apperrors.NewForbidden(msgNotAuthorizedToView)
	}
	return detail, nil
}

// ListTickets returns one page of tickets visible to the caller. Pages are
// 1-indexed; lower values are treated as the first page.
func (s *TicketService) ListTickets(ctx context.Context, identity domain.Identity, page int, status *domain.TicketStatus) ([]domain.TicketDetail, error) {
	caller, err := s.resolveCaller(ctx, identity, msgRequestingUserNotFound)
	if err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}

	filter := s.visibilityFilter(caller)
	filter.Status = status
	filter.Limit = s.pageSize
	filter.Offset = (page - 1) * s.pageSize

	tickets, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, s.failure("list", "", "Unable to get all tickets.", err)
	}
	return tickets, nil
}

// TotalTickets counts tickets visible to the caller, optionally by status.
func (s *TicketService) TotalTickets(ctx context.Context, identity domain.Identity, status *domain.TicketStatus) (int, error) {
	caller, err := s.resolveCaller(ctx, identity, msgRequestingUserNotFound)
	if err != nil {
		return 0, err
	}

	filter := s.visibilityFilter(caller)
	filter.Status = status
	total, err := s.tickets.Count(ctx, filter)
	if err != nil {
		return 0, s.failure("total", "", "Unable to get total tickets.", err)
	}
	return total, nil
}

// TotalTicketsThisWeek counts visible tickets created in the last 7 days.
func (s *TicketService) TotalTicketsThisWeek(ctx context.Context, identity domain.Identity) (int, error) {
	caller, err := s.resolveCaller(ctx, identity, msgUserNotFound)
	if err != nil {
		return 0, err
	}

	since := s.now().UTC().AddDate(0, 0, -7)
	filter := s.visibilityFilter(caller)
	filter.CreatedAfter = &since
	total, err := s.tickets.Count(ctx, filter)
	if err != nil {
		return 0, s.failure("total_week", "", "Unable to get total tickets this week.", err)
	}
	return total, nil
}

// TotalTicketsByUser counts tickets assigned to staff callers and tickets
// created by everybody else.
func (s *TicketService) TotalTicketsByUser(ctx context.Context, identity domain.Identity) (int, error) {
	caller, err := s.resolveCaller(ctx, identity, msgUserNotFound)
	if err != nil {
		return 0, err
	}

	filter := repository.TicketFilter{}
	if s.policy.CanWorkTickets(caller.Role) {
		filter.AssigneeID = &caller.ID
	} else {
		filter.CreatorID = &caller.ID
	}
	total, err := s.tickets.Count(ctx, filter)
	if err != nil {
		return 0, s.failure("total_user", "", "Unable to get total tickets by user.", err)
	}
	return total, nil
}

// ClaimTicket assigns the ticket to the caller.
func (s *TicketService) ClaimTicket(ctx context.Context, identity domain.Identity, ticketID string) (*domain.TicketDetail, error) {
	return s.transition(ctx, identity, ticketID, domain.ActionClaim)
}

// UnclaimTicket releases the ticket back to the queue.
func (s *TicketService) UnclaimTicket(ctx context.Context, identity domain.Identity, ticketID string) (*domain.TicketDetail, error) {
	return s.transition(ctx, identity, ticketID, domain.ActionUnclaim)
}

// ResolveTicket marks a claimed ticket as resolved.
func (s *TicketService) ResolveTicket(ctx context.Context, identity domain.Identity, ticketID string) (*domain.TicketDetail, error) {
	return s.transition(ctx, identity, ticketID, domain.ActionResolve)
}

// ReopenTicket moves a resolved ticket back to in progress.
func (s *TicketService) ReopenTicket(ctx context.Context, identity domain.Identity, ticketID string) (*domain.TicketDetail, error) {
	return s.transition(ctx, identity, ticketID, domain.ActionReopen)
}

// CancelTicket cancels an unresolved ticket of the caller's company.
func (s *TicketService) CancelTicket(ctx context.Context, identity domain.Identity, ticketID string) (*domain.TicketDetail, error) {
	return s.transition(ctx, identity, ticketID, domain.ActionCancel)
}

// AddSolution records the resolution text on a ticket.
func (s *TicketService) AddSolution(ctx context.Context, identity domain.Identity, ticketID, solution string) (*domain.TicketDetail, error) {
	const failure = "Unable to add solution to ticket with given id."

	caller, err := s.resolveCaller(ctx, identity, msgRequestingUserNotFound)
	if err != nil {
		return nil, err
	}
	ticket, err := s.loadTicket(ctx, ticketID, failure)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanWorkTickets(caller.Role) {
		return nil, apperrors.NewForbidden(msgNotAuthorizedToWork)
	}

	text := strings.TrimSpace(solution)
	if err := s.tickets.UpdateSolution(ctx, ticket.ID, text); err != nil {
		return nil, s.failure("solution", ticket.ID, failure, err)
	}

	detail, err := s.tickets.GetDetail(ctx, ticket.ID)
	if err != nil {
		return nil, s.failure("solution", ticket.ID, failure, err)
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventTicketSolutionAdded,
		TicketID:    ticket.ID,
		ActorUserID: caller.ID,
		Payload: events.TicketSolutionAddedPayload{
			TicketNumber: detail.TicketNumber,
			CreatorID:    detail.CreatorID,
		},
	})
	return detail, nil
}

// transition runs the shared claim/unclaim/resolve/reopen/cancel flow:
// resolve caller, load ticket, authorize, check the guard, then apply the
// change as a conditional update. Guard rejections carry the current ticket.
func (s *TicketService) transition(ctx context.Context, identity domain.Identity, ticketID string, action domain.TicketAction) (*domain.TicketDetail, error) {
	failure := ticketFailureMessages[action]

	caller, err := s.resolveCaller(ctx, identity, msgUserNotFound)
	if err != nil {
		return nil, err
	}
	ticket, err := s.loadTicket(ctx, ticketID, failure)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeTransition(caller, ticket, action); err != nil {
		return nil, err
	}

	if guardErr := domain.CheckTransition(action, ticket); guardErr != nil {
		return s.rejected(ctx, ticket.ID, action, guardErr)
	}

	oldStatus := ticket.Status
	updated, err := s.tickets.Transition(ctx, repository.TicketTransitionUpdate{
		TicketID:   ticket.ID,
		Transition: domain.Transitions[action],
		CallerID:   caller.ID,
	})
	if errors.Is(err, repository.ErrTransitionRejected) {
		// Lost a race: report the guard for the state that won.
		current, loadErr := s.loadTicket(ctx, ticket.ID, failure)
		if loadErr != nil {
			return nil, loadErr
		}
		guardErr := domain.CheckTransition(action, current)
		if guardErr == nil {
			guardErr = errors.New(failure)
		}
		return s.rejected(ctx, current.ID, action, guardErr)
	}
	if err != nil {
		return nil, s.failure(string(action), ticket.ID, failure, err)
	}

	detail, err := s.tickets.GetDetail(ctx, updated.ID)
	if err != nil {
		return nil, s.failure(string(action), ticket.ID, failure, err)
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventTicketStatusChanged,
		TicketID:    detail.ID,
		ActorUserID: caller.ID,
		Payload: events.TicketStatusChangedPayload{
			TicketNumber: detail.TicketNumber,
			CreatorID:    detail.CreatorID,
			Action:       action,
			OldStatus:    oldStatus,
			NewStatus:    detail.Status,
		},
	})
	return detail, nil
}

func (s *TicketService) authorizeTransition(caller *domain.User, ticket *domain.Ticket, action domain.TicketAction) error {
	switch action {
	case domain.ActionClaim, domain.ActionUnclaim, domain.ActionResolve:
		if !s.policy.CanWorkTickets(caller.Role) {
			return apperrors.NewForbidden(msgNotAuthorizedToWork)
		}
	case domain.ActionReopen:
		if !s.canView(caller, ticket) {
			return apperrors.NewForbidden(msgNotAuthorizedToReopen)
		}
	case domain.ActionCancel:
		if ticket.CompanyID != caller.CompanyID {
			return apperrors.NewForbidden(domain.ErrTicketWrongCompany.Error())
		}
	}
	return nil
}

// rejected returns the guard error together with the refreshed ticket.
func (s *TicketService) rejected(ctx context.Context, ticketID string, action domain.TicketAction, guardErr error) (*domain.TicketDetail, error) {
	detail, err := s.tickets.GetDetail(ctx, ticketID)
	if err != nil {
		return nil, s.failure(string(action), ticketID, ticketFailureMessages[action], err)
	}
	return detail, apperrors.NewInvalidState(guardErr)
}

func (s *TicketService) canView(caller *domain.User, ticket *domain.Ticket) bool {
	return caller.CompanyID == ticket.CompanyID || s.policy.CanSeeAllTickets(caller.Role)
}

func (s *TicketService) visibilityFilter(caller *domain.User) repository.TicketFilter {
	filter := repository.TicketFilter{}
	if !s.policy.CanSeeAllTickets(caller.Role) {
		companyID := caller.CompanyID
		filter.CompanyID = &companyID
	}
	return filter
}

func (s *TicketService) resolveCaller(ctx context.Context, identity domain.Identity, notFound string) (*domain.User, error) {
	return resolveUser(ctx, s.users, s.logger, identity, notFound)
}

func (s *TicketService) loadTicket(ctx context.Context, ticketID, failure string) (*domain.Ticket, error) {
	if !validID(ticketID) {
		return nil, apperrors.NewNotFound(msgTicketNotFound, nil)
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound(msgTicketNotFound, nil)
		}
		return nil, s.failure("load", ticketID, failure, err)
	}
	return ticket, nil
}

func (s *TicketService) failure(operation, ticketID, message string, err error) error {
	s.logger.Error("ticket operation failed",
		zap.String("operation", operation),
		zap.String("ticket_id", ticketID),
		zap.Error(err))
	return apperrors.NewPersistenceFailure(message, err)
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now().UTC()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

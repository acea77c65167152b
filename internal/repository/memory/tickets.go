package memory

import (
	"context"
	"sort"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/repository"
)

type ticketRepository struct {
	s *Store
}

func (r *ticketRepository) Create(_ context.Context, ticket *domain.Ticket) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	next := 1
	for _, existing := range r.s.tickets {
		if existing.TicketNumber >= next {
			next = existing.TicketNumber + 1
		}
	}
	ticket.ID = newID()
	ticket.TicketNumber = next
	r.s.tickets[ticket.ID] = cloneTicket(*ticket)
	return nil
}

func (r *ticketRepository) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ticket, ok := r.s.tickets[id]
	if !ok {
		return nil, errNotFound
	}
	out := cloneTicket(ticket)
	return &out, nil
}

func (r *ticketRepository) GetDetail(_ context.Context, id string) (*domain.TicketDetail, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ticket, ok := r.s.tickets[id]
	if !ok {
		return nil, errNotFound
	}
	detail := r.s.hydrate(ticket)
	return &detail, nil
}

func (r *ticketRepository) List(_ context.Context, filter repository.TicketFilter) ([]domain.TicketDetail, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := r.s.filterTickets(filter)
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if a.Status != b.Status {
			return a.Status < b.Status
		}
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.TicketNumber > b.TicketNumber
	})

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	result := []domain.TicketDetail{}
	for i := offset; i < len(matched) && len(result) < limit; i++ {
		result = append(result, r.s.hydrate(matched[i]))
	}
	return result, nil
}

func (r *ticketRepository) Count(_ context.Context, filter repository.TicketFilter) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.filterTickets(filter)), nil
}

func (r *ticketRepository) Transition(_ context.Context, update repository.TicketTransitionUpdate) (*domain.Ticket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ticket, ok := r.s.tickets[update.TicketID]
	if !ok || !matchesGuard(update.Transition, ticket) {
		return nil, repository.ErrTransitionRejected
	}
	domain.Apply(update.Transition.Action, &ticket, update.CallerID)
	r.s.tickets[ticket.ID] = ticket
	out := cloneTicket(ticket)
	return &out, nil
}

func (r *ticketRepository) UpdateSolution(_ context.Context, id, solution string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ticket, ok := r.s.tickets[id]
	if !ok {
		return errNotFound
	}
	ticket.Solution = solution
	r.s.tickets[id] = ticket
	return nil
}

func matchesGuard(tr domain.Transition, ticket domain.Ticket) bool {
	if tr.Claimed != nil && *tr.Claimed != ticket.IsClaimed() {
		return false
	}
	for _, status := range tr.From {
		if ticket.Status == status {
			return true
		}
	}
	return false
}

func (s *Store) filterTickets(filter repository.TicketFilter) []domain.Ticket {
	result := []domain.Ticket{}
	for _, ticket := range s.tickets {
		if filter.CompanyID != nil && ticket.CompanyID != *filter.CompanyID {
			continue
		}
		if filter.CreatorID != nil && ticket.CreatorID != *filter.CreatorID {
			continue
		}
		if filter.AssigneeID != nil && (ticket.AssigneeID == nil || *ticket.AssigneeID != *filter.AssigneeID) {
			continue
		}
		if filter.Status != nil && ticket.Status != *filter.Status {
			continue
		}
		if filter.CreatedAfter != nil && !ticket.CreatedAt.After(*filter.CreatedAfter) {
			continue
		}
		result = append(result, ticket)
	}
	return result
}

func (s *Store) hydrate(ticket domain.Ticket) domain.TicketDetail {
	detail := domain.TicketDetail{Ticket: cloneTicket(ticket)}
	if creator, ok := s.users[ticket.CreatorID]; ok {
		detail.CreatorName = creator.FullName()
	}
	if ticket.AssigneeID != nil {
		if assignee, ok := s.users[*ticket.AssigneeID]; ok {
			name := assignee.FullName()
			detail.AssigneeName = &name
		}
	}
	detail.CompanyName = s.companies[ticket.CompanyID].Name
	detail.MachineName = s.machines[ticket.MachineID].Name
	return detail
}

func cloneTicket(ticket domain.Ticket) domain.Ticket {
	if ticket.AssigneeID != nil {
		id := *ticket.AssigneeID
		ticket.AssigneeID = &id
	}
	return ticket
}

package events

import (
	"time"

	"github.com/spec-kit/support-desk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketSolutionAdded EventType = "ticket_solution_added"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	TicketID    string      `json:"ticket_id"`
	ActorUserID string      `json:"actor_user_id"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	TicketNumber int                   `json:"ticket_number"`
	CompanyID    string                `json:"company_id"`
	CompanyName  string                `json:"company_name"`
	MachineName  string                `json:"machine_name"`
	Priority     domain.TicketPriority `json:"priority"`
	Issue        string                `json:"issue"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	TicketNumber int                 `json:"ticket_number"`
	CreatorID    string              `json:"creator_id"`
	Action       domain.TicketAction `json:"action"`
	OldStatus    domain.TicketStatus `json:"old_status"`
	NewStatus    domain.TicketStatus `json:"new_status"`
}

// TicketSolutionAddedPayload payload.
type TicketSolutionAddedPayload struct {
	TicketNumber int    `json:"ticket_number"`
	CreatorID    string `json:"creator_id"`
}

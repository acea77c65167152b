package domain

import "errors"

// Guard rejections. The messages are shown to callers verbatim.
var (
	ErrTicketAlreadyClaimed   = errors.New("Ticket already claimed.")
	ErrTicketIsCancelled      = errors.New("Ticket is cancelled.")
	ErrTicketNotClaimed       = errors.New("Ticket has not been claimed yet.")
	ErrTicketAlreadyResolved  = errors.New("Ticket has already been resolved.")
	ErrTicketCancelled        = errors.New("Ticket has been cancelled.")
	ErrTicketNotResolved      = errors.New("Ticket has not been resolved yet.")
	ErrTicketAlreadyCancelled = errors.New("Ticket has already been cancelled.")
	ErrTicketWrongCompany     = errors.New("Ticket does not belong to your company.")
)

// TicketAction names a lifecycle transition.
type TicketAction string

const (
	ActionClaim   TicketAction = "claim"
	ActionUnclaim TicketAction = "unclaim"
	ActionResolve TicketAction = "resolve"
	ActionReopen  TicketAction = "reopen"
	ActionCancel  TicketAction = "cancel"
)

// Transition describes the guarded state change of one action: the statuses it
// may start from, the required assignment, and the resulting status.
type Transition struct {
	Action   TicketAction
	From     []TicketStatus
	Claimed  *bool
	To       TicketStatus
	Assignee AssigneeChange
}

// AssigneeChange says what a transition does to the assignee.
type AssigneeChange int

const (
	AssigneeKeep AssigneeChange = iota
	AssigneeSetCaller
	AssigneeClear
)

var (
	claimed   = true
	unclaimed = false
)

// Transitions is the ticket state machine.
var Transitions = map[TicketAction]Transition{
	ActionClaim: {
		Action:   ActionClaim,
		From:     []TicketStatus{TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved},
		Claimed:  &unclaimed,
		To:       TicketStatusInProgress,
		Assignee: AssigneeSetCaller,
	},
	ActionUnclaim: {
		Action:   ActionUnclaim,
		From:     []TicketStatus{TicketStatusOpen, TicketStatusInProgress},
		Claimed:  &claimed,
		To:       TicketStatusOpen,
		Assignee: AssigneeClear,
	},
	ActionResolve: {
		Action:  ActionResolve,
		From:    []TicketStatus{TicketStatusOpen, TicketStatusInProgress},
		Claimed: &claimed,
		To:      TicketStatusResolved,
	},
	ActionReopen: {
		Action:  ActionReopen,
		From:    []TicketStatus{TicketStatusResolved},
		Claimed: &claimed,
		To:      TicketStatusInProgress,
	},
	ActionCancel: {
		Action: ActionCancel,
		From:   []TicketStatus{TicketStatusOpen, TicketStatusInProgress},
		To:     TicketStatusCancelled,
	},
}

// CheckTransition returns the guard rejection for applying action to ticket,
// or nil when the transition is allowed. Company ownership for cancel is an
// authorization concern and is checked by the caller.
func CheckTransition(action TicketAction, ticket *Ticket) error {
	switch action {
	case ActionClaim:
		if ticket.IsClaimed() {
			return ErrTicketAlreadyClaimed
		}
		if ticket.Status == TicketStatusCancelled {
			return ErrTicketIsCancelled
		}
	case ActionUnclaim, ActionResolve:
		if !ticket.IsClaimed() {
			return ErrTicketNotClaimed
		}
		if ticket.Status == TicketStatusResolved {
			return ErrTicketAlreadyResolved
		}
		if ticket.Status == TicketStatusCancelled {
			return ErrTicketCancelled
		}
	case ActionReopen:
		if ticket.Status == TicketStatusCancelled {
			return ErrTicketCancelled
		}
		if !ticket.IsClaimed() {
			return ErrTicketNotClaimed
		}
		if ticket.Status != TicketStatusResolved {
			return ErrTicketNotResolved
		}
	case ActionCancel:
		if ticket.Status == TicketStatusCancelled {
			return ErrTicketAlreadyCancelled
		}
		if ticket.Status == TicketStatusResolved {
			return ErrTicketAlreadyResolved
		}
	default:
		return errors.New("unknown ticket action")
	}
	return nil
}

// Apply mutates ticket according to the transition for action.
func Apply(action TicketAction, ticket *Ticket, callerID string) {
	tr := Transitions[action]
	ticket.Status = tr.To
	switch tr.Assignee {
	case AssigneeSetCaller:
		id := callerID
		ticket.AssigneeID = &id
	case AssigneeClear:
		ticket.AssigneeID = nil
	}
}

package domain

import (
	"fmt"
	"strings"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets. The numeric order is
// the listing sort order.
type TicketStatus int16

const (
	TicketStatusOpen TicketStatus = iota
	TicketStatusInProgress
	TicketStatusResolved
	TicketStatusCancelled
)

var ticketStatusNames = map[TicketStatus]string{
	TicketStatusOpen:       "Open",
	TicketStatusInProgress: "InProgress",
	TicketStatusResolved:   "Resolved",
	TicketStatusCancelled:  "Cancelled",
}

func (s TicketStatus) String() string {
	if name, ok := ticketStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("TicketStatus(%d)", int16(s))
}

// ParseTicketStatus accepts the status name (case-insensitive) or its ordinal.
func ParseTicketStatus(val string) (TicketStatus, error) {
	val = strings.TrimSpace(val)
	for status, name := range ticketStatusNames {
		if strings.EqualFold(name, val) || fmt.Sprint(int16(status)) == val {
			return status, nil
		}
	}
	return 0, fmt.Errorf("unknown ticket status %q", val)
}

// TicketPriority enumerates urgency.
type TicketPriority int16

const (
	TicketPriorityLow TicketPriority = iota
	TicketPriorityMedium
	TicketPriorityHigh
)

var ticketPriorityNames = map[TicketPriority]string{
	TicketPriorityLow:    "Low",
	TicketPriorityMedium: "Medium",
	TicketPriorityHigh:   "High",
}

func (p TicketPriority) String() string {
	if name, ok := ticketPriorityNames[p]; ok {
		return name
	}
	return fmt.Sprintf("TicketPriority(%d)", int16(p))
}

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID              string
	TicketNumber    int
	Status          TicketStatus
	Priority        TicketPriority
	Issue           string
	ActionExpected  string
	ActionPerformed string
	ExtraInfo       string
	Solution        string
	PhoneNumber     string
	CreatedAt       time.Time
	CreatorID       string
	AssigneeID      *string
	CompanyID       string
	MachineID       string
}

// IsClaimed reports whether somebody is assigned to the ticket.
func (t *Ticket) IsClaimed() bool {
	return t.AssigneeID != nil
}

// TicketDetail is a ticket hydrated with the display names of its references.
type TicketDetail struct {
	Ticket
	CreatorName  string
	AssigneeName *string
	CompanyName  string
	MachineName  string
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ticketIn(status TicketStatus, assignee string) *Ticket {
	t := &Ticket{ID: "t1", Status: status, CreatorID: "creator"}
	if assignee != "" {
		t.AssigneeID = &assignee
	}
	return t
}

func TestCheckTransition(t *testing.T) {
	tests := []struct {
		name    string
		action  TicketAction
		ticket  *Ticket
		wantErr error
	}{
		{"claim open", ActionClaim, ticketIn(TicketStatusOpen, ""), nil},
		{"claim resolved unclaimed", ActionClaim, ticketIn(TicketStatusResolved, ""), nil},
		{"claim already claimed", ActionClaim, ticketIn(TicketStatusInProgress, "u1"), ErrTicketAlreadyClaimed},
		{"claim cancelled", ActionClaim, ticketIn(TicketStatusCancelled, ""), ErrTicketIsCancelled},
		{"claim claimed and cancelled reports claim first", ActionClaim, ticketIn(TicketStatusCancelled, "u1"), ErrTicketAlreadyClaimed},

		{"unclaim claimed", ActionUnclaim, ticketIn(TicketStatusInProgress, "u1"), nil},
		{"unclaim unclaimed", ActionUnclaim, ticketIn(TicketStatusOpen, ""), ErrTicketNotClaimed},
		{"unclaim resolved", ActionUnclaim, ticketIn(TicketStatusResolved, "u1"), ErrTicketAlreadyResolved},
		{"unclaim cancelled", ActionUnclaim, ticketIn(TicketStatusCancelled, "u1"), ErrTicketCancelled},

		{"resolve in progress", ActionResolve, ticketIn(TicketStatusInProgress, "u1"), nil},
		{"resolve unclaimed", ActionResolve, ticketIn(TicketStatusOpen, ""), ErrTicketNotClaimed},
		{"resolve twice", ActionResolve, ticketIn(TicketStatusResolved, "u1"), ErrTicketAlreadyResolved},

		{"reopen resolved", ActionReopen, ticketIn(TicketStatusResolved, "u1"), nil},
		{"reopen cancelled", ActionReopen, ticketIn(TicketStatusCancelled, "u1"), ErrTicketCancelled},
		{"reopen unclaimed", ActionReopen, ticketIn(TicketStatusResolved, ""), ErrTicketNotClaimed},
		{"reopen in progress", ActionReopen, ticketIn(TicketStatusInProgress, "u1"), ErrTicketNotResolved},

		{"cancel open", ActionCancel, ticketIn(TicketStatusOpen, ""), nil},
		{"cancel in progress", ActionCancel, ticketIn(TicketStatusInProgress, "u1"), nil},
		{"cancel twice", ActionCancel, ticketIn(TicketStatusCancelled, ""), ErrTicketAlreadyCancelled},
		{"cancel resolved", ActionCancel, ticketIn(TicketStatusResolved, "u1"), ErrTicketAlreadyResolved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckTransition(tt.action, tt.ticket)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCheckTransitionUnknownAction(t *testing.T) {
	assert.Error(t, CheckTransition(TicketAction("escalate"), ticketIn(TicketStatusOpen, "")))
}

func TestApply(t *testing.T) {
	ticket := ticketIn(TicketStatusOpen, "")

	Apply(ActionClaim, ticket, "agent")
	require.NotNil(t, ticket.AssigneeID)
	assert.Equal(t, "agent", *ticket.AssigneeID)
	assert.Equal(t, TicketStatusInProgress, ticket.Status)

	Apply(ActionResolve, ticket, "other")
	assert.Equal(t, TicketStatusResolved, ticket.Status)
	assert.Equal(t, "agent", *ticket.AssigneeID)

	Apply(ActionReopen, ticket, "other")
	assert.Equal(t, TicketStatusInProgress, ticket.Status)
	assert.Equal(t, "agent", *ticket.AssigneeID)

	Apply(ActionUnclaim, ticket, "agent")
	assert.Nil(t, ticket.AssigneeID)
	assert.Equal(t, TicketStatusOpen, ticket.Status)

	Apply(ActionCancel, ticket, "creator")
	assert.Equal(t, TicketStatusCancelled, ticket.Status)
}

func TestTransitionsAgreeWithGuards(t *testing.T) {
	statuses := []TicketStatus{TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusCancelled}
	for action, tr := range Transitions {
		for _, status := range statuses {
			for _, assignee := range []string{"", "u1"} {
				ticket := ticketIn(status, assignee)
				allowed := CheckTransition(action, ticket) == nil

				fromOK := false
				for _, from := range tr.From {
					if from == status {
						fromOK = true
					}
				}
				claimOK := tr.Claimed == nil || *tr.Claimed == ticket.IsClaimed()
				assert.Equal(t, fromOK && claimOK, allowed, "%s from %s claimed=%v", action, status, ticket.IsClaimed())
			}
		}
	}
}

func TestParseTicketStatus(t *testing.T) {
	status, err := ParseTicketStatus("inprogress")
	require.NoError(t, err)
	assert.Equal(t, TicketStatusInProgress, status)

	status, err = ParseTicketStatus("3")
	require.NoError(t, err)
	assert.Equal(t, TicketStatusCancelled, status)

	_, err = ParseTicketStatus("closed")
	assert.Error(t, err)
}

func TestUserFullName(t *testing.T) {
	prefix := "van"
	u := &User{FirstName: "Jan", Prefix: &prefix, LastName: "Dijk"}
	assert.Equal(t, "Jan van Dijk", u.FullName())

	blank := " "
	u.Prefix = &blank
	assert.Equal(t, "Jan Dijk", u.FullName())
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("visconadmin")
	require.NoError(t, err)
	assert.Equal(t, RoleVisconAdmin, role)
	assert.True(t, role.IsViscon())
	assert.False(t, RoleCustomerAdmin.IsViscon())

	_, err = ParseRole("root")
	assert.Error(t, err)
}

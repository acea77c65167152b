package repository

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/support-desk/internal/domain"
)

func TestTransitionQueryClaim(t *testing.T) {
	query, args := transitionQuery(TicketTransitionUpdate{
		TicketID:   "t-1",
		Transition: domain.Transitions[domain.ActionClaim],
		CallerID:   "agent",
	})

	assert.Contains(t, query, "SET status=$1, assignee_id=$3")
	assert.Contains(t, query, "t.id=$2")
	assert.Contains(t, query, "t.status = ANY($4)")
	assert.Contains(t, query, "t.assignee_id IS NULL")
	assert.Equal(t, []any{
		domain.TicketStatusInProgress,
		"t-1",
		"agent",
		[]int16{0, 1, 2},
	}, args)
}

func TestTransitionQueryUnclaim(t *testing.T) {
	query, args := transitionQuery(TicketTransitionUpdate{
		TicketID:   "t-1",
		Transition: domain.Transitions[domain.ActionUnclaim],
		CallerID:   "agent",
	})

	assert.Contains(t, query, "assignee_id=NULL")
	assert.Contains(t, query, "t.assignee_id IS NOT NULL")
	assert.Contains(t, query, "t.status = ANY($3)")
	assert.Len(t, args, 3)
}

func TestTransitionQueryCancelHasNoClaimGuard(t *testing.T) {
	query, args := transitionQuery(TicketTransitionUpdate{
		TicketID:   "t-1",
		Transition: domain.Transitions[domain.ActionCancel],
	})

	assert.False(t, strings.Contains(query, "assignee_id"))
	assert.Equal(t, []int16{0, 1}, args[2])
}

func TestTicketWhere(t *testing.T) {
	company := "c-1"
	status := domain.TicketStatusResolved
	since := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	where, args := ticketWhere(TicketFilter{CompanyID: &company, Status: &status, CreatedAfter: &since})
	assert.Equal(t, "1=1 AND t.company_id=$1 AND t.status=$2 AND t.created_at > $3", where)
	assert.Equal(t, []any{company, status, since}, args)

	where, args = ticketWhere(TicketFilter{})
	assert.Equal(t, "1=1", where)
	assert.Empty(t, args)
}

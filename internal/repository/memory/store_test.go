package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/repository"
)

func TestTicketNumbersAreSequential(t *testing.T) {
	repos := NewStore().Repositories()
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		ticket := &domain.Ticket{CompanyID: "c", CreatedAt: time.Now()}
		require.NoError(t, repos.Tickets.Create(ctx, ticket))
		assert.Equal(t, i, ticket.TicketNumber)
		assert.NotEmpty(t, ticket.ID)
	}
}

func TestTicketNumbersUniqueUnderConcurrency(t *testing.T) {
	repos := NewStore().Repositories()
	ctx := context.Background()

	const n = 50
	numbers := make(chan int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ticket := &domain.Ticket{}
			if err := repos.Tickets.Create(ctx, ticket); err == nil {
				numbers <- ticket.TicketNumber
			}
		}()
	}
	wg.Wait()
	close(numbers)

	seen := map[int]bool{}
	for number := range numbers {
		assert.False(t, seen[number], "duplicate ticket number %d", number)
		seen[number] = true
	}
	assert.Len(t, seen, n)
}

func TestTransitionIsCompareAndSwap(t *testing.T) {
	repos := NewStore().Repositories()
	ctx := context.Background()

	ticket := &domain.Ticket{Status: domain.TicketStatusOpen}
	require.NoError(t, repos.Tickets.Create(ctx, ticket))

	claim := repository.TicketTransitionUpdate{
		TicketID:   ticket.ID,
		Transition: domain.Transitions[domain.ActionClaim],
		CallerID:   "first",
	}
	updated, err := repos.Tickets.Transition(ctx, claim)
	require.NoError(t, err)
	assert.Equal(t, "first", *updated.AssigneeID)

	claim.CallerID = "second"
	_, err = repos.Tickets.Transition(ctx, claim)
	assert.ErrorIs(t, err, repository.ErrTransitionRejected)

	stored, err := repos.Tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", *stored.AssigneeID)
	assert.Equal(t, domain.TicketStatusInProgress, stored.Status)
}

func TestListFiltersAndHydrates(t *testing.T) {
	store := NewStore()
	repos := store.Repositories()
	ctx := context.Background()

	company := &domain.Company{Name: "Acme"}
	require.NoError(t, repos.Companies.Create(ctx, company))
	machine := &domain.Machine{Name: "Sorter"}
	require.NoError(t, repos.Machines.Create(ctx, machine))
	user := &domain.User{FirstName: "Ann", LastName: "Smit", CompanyID: company.ID}
	require.NoError(t, repos.Users.Create(ctx, user))

	for _, companyID := range []string{company.ID, company.ID, "other"} {
		require.NoError(t, repos.Tickets.Create(ctx, &domain.Ticket{
			CompanyID: companyID, MachineID: machine.ID, CreatorID: user.ID, CreatedAt: time.Now(),
		}))
	}

	list, err := repos.Tickets.List(ctx, repository.TicketFilter{CompanyID: &company.ID})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Acme", list[0].CompanyName)
	assert.Equal(t, "Sorter", list[0].MachineName)
	assert.Equal(t, "Ann Smit", list[0].CreatorName)
	assert.Nil(t, list[0].AssigneeName)

	count, err := repos.Tickets.Count(ctx, repository.TicketFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestGetByIDNotFound(t *testing.T) {
	repos := NewStore().Repositories()
	_, err := repos.Tickets.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestMachineLinks(t *testing.T) {
	repos := NewStore().Repositories()
	ctx := context.Background()

	company := &domain.Company{Name: "Acme"}
	require.NoError(t, repos.Companies.Create(ctx, company))
	machine := &domain.Machine{Name: "Sorter"}
	require.NoError(t, repos.Machines.Create(ctx, machine))

	link := domain.CompanyMachine{CompanyID: company.ID, MachineID: machine.ID}
	require.NoError(t, repos.Machines.LinkCompany(ctx, link))
	require.NoError(t, repos.Machines.LinkCompany(ctx, link))

	linked, err := repos.Machines.IsLinked(ctx, company.ID, machine.ID)
	require.NoError(t, err)
	assert.True(t, linked)

	machines, err := repos.Machines.ListByCompany(ctx, company.ID)
	require.NoError(t, err)
	assert.Len(t, machines, 1)

	assert.Error(t, repos.Machines.LinkCompany(ctx, domain.CompanyMachine{CompanyID: "nope", MachineID: machine.ID}))
}

func TestTokenDenylistExpires(t *testing.T) {
	store := NewStore()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	denylist := store.Repositories().Denylist
	ctx := context.Background()

	require.NoError(t, denylist.Revoke(ctx, "jti", time.Minute))
	revoked, err := denylist.IsRevoked(ctx, "jti")
	require.NoError(t, err)
	assert.True(t, revoked)

	now = now.Add(2 * time.Minute)
	revoked, err = denylist.IsRevoked(ctx, "jti")
	require.NoError(t, err)
	assert.False(t, revoked)
}

// Package memory keeps every repository in process memory. It backs local
// runs without Postgres and the service tests.
package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/repository"
)

// Store holds all entities behind one lock.
type Store struct {
	mu            sync.RWMutex
	companies     map[string]domain.Company
	machines      map[string]domain.Machine
	links         map[domain.CompanyMachine]struct{}
	users         map[string]domain.User
	tickets       map[string]domain.Ticket
	solutions     map[string]domain.Solution
	notifications map[string]domain.Notification
	revoked       map[string]time.Time
	now           func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		companies:     map[string]domain.Company{},
		machines:      map[string]domain.Machine{},
		links:         map[domain.CompanyMachine]struct{}{},
		users:         map[string]domain.User{},
		tickets:       map[string]domain.Ticket{},
		solutions:     map[string]domain.Solution{},
		notifications: map[string]domain.Notification{},
		revoked:       map[string]time.Time{},
		now:           time.Now,
	}
}

// Repositories exposes the store through every repository interface.
func (s *Store) Repositories() repository.Set {
	return repository.Set{
		Tickets:       &ticketRepository{s},
		Users:         &userRepository{s},
		Companies:     &companyRepository{s},
		Machines:      &machineRepository{s},
		Solutions:     &solutionRepository{s},
		Notifications: &notificationRepository{s},
		Denylist:      &tokenDenylist{s},
	}
}

func newID() string {
	return uuid.NewString()
}

var errNotFound = pgx.ErrNoRows

// NewTokenDenylist returns a standalone in-process denylist.
func NewTokenDenylist() repository.TokenDenylist {
	return &tokenDenylist{NewStore()}
}

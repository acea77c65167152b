package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/auth"
	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/mail"
	"github.com/spec-kit/support-desk/internal/repository"
	"github.com/spec-kit/support-desk/internal/repository/memory"
)

const testPassword = "hunter22"

type fakeMailer struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (m *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMailer) messages() []mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mail.Message{}, m.sent...)
}

// stepClock advances one second on every call so creation order is visible
// in timestamps.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func (c *stepClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	ctx           context.Context
	repos         repository.Set
	clock         *stepClock
	mailer        *fakeMailer
	tokens        *auth.TokenManager
	tickets       *TicketService
	auth          *AuthService
	companies     *CompanyService
	machines      *MachineService
	users         *UserService
	notifications *NotificationService

	viscon  *domain.Company
	acme    *domain.Company
	globex  *domain.Company
	machine *domain.Machine

	admin     *domain.User
	agent     *domain.User
	agent2    *domain.User
	customer  *domain.User
	colleague *domain.User
	outsider  *domain.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := zap.NewNop()
	policy := auth.MustNewPolicy()
	repos := withUUIDColumns(memory.NewStore().Repositories())
	dispatcher := events.NewInMemoryDispatcher(logger)

	f := &fixture{
		ctx:    context.Background(),
		repos:  repos,
		clock:  &stepClock{now: time.Date(2026, 4, 6, 9, 0, 0, 0, time.UTC)},
		mailer: &fakeMailer{},
		tokens: auth.NewTokenManager("test-secret", time.Hour),
	}

	f.tickets = NewTicketService(TicketDependencies{
		TicketRepo:  repos.Tickets,
		UserRepo:    repos.Users,
		MachineRepo: repos.Machines,
		Policy:      policy,
		Dispatcher:  dispatcher,
		Logger:      logger,
		Now:         f.clock.Now,
	})
	f.auth = NewAuthService(AuthDependencies{
		UserRepo:     repos.Users,
		CompanyRepo:  repos.Companies,
		Denylist:     repos.Denylist,
		TokenManager: f.tokens,
		Policy:       policy,
		Logger:       logger,
	})
	f.companies = NewCompanyService(repos.Companies, repos.Users, policy, logger)
	f.machines = NewMachineService(MachineDependencies{
		MachineRepo:  repos.Machines,
		CompanyRepo:  repos.Companies,
		SolutionRepo: repos.Solutions,
		UserRepo:     repos.Users,
		Policy:       policy,
		Logger:       logger,
	})
	f.users = NewUserService(repos.Users, policy, logger)
	f.notifications = NewNotificationService(NotificationDependencies{
		Dispatcher:       dispatcher,
		NotificationRepo: repos.Notifications,
		UserRepo:         repos.Users,
		Mailer:           f.mailer,
		Logger:           logger,
		Config:           config.NotificationConfig{SMTPHost: "smtp.test", EmailFrom: "desk@test", AppBaseURL: "https://desk.test"},
	})
	f.notifications.RegisterHandlers()

	f.viscon = f.company(t, "Viscon")
	f.acme = f.company(t, "Acme")
	f.globex = f.company(t, "Globex")

	f.machine = &domain.Machine{Name: "Egg Sorter", BlueprintNumber: "BP-1", Type: "Sorter"}
	require.NoError(t, repos.Machines.Create(f.ctx, f.machine))
	require.NoError(t, repos.Machines.LinkCompany(f.ctx, domain.CompanyMachine{CompanyID: f.acme.ID, MachineID: f.machine.ID}))

	f.admin = f.user(t, "Vera", "Admin", "vera@viscon.test", domain.RoleVisconAdmin, f.viscon)
	f.agent = f.user(t, "Alex", "Agent", "alex@viscon.test", domain.RoleVisconEmployee, f.viscon)
	f.agent2 = f.user(t, "Sam", "Second", "sam@viscon.test", domain.RoleVisconEmployee, f.viscon)
	f.customer = f.user(t, "Carla", "Customer", "carla@acme.test", domain.RoleCustomerAdmin, f.acme)
	f.colleague = f.user(t, "Chris", "Colleague", "chris@acme.test", domain.RoleCustomerEmployee, f.acme)
	f.outsider = f.user(t, "Olga", "Outsider", "olga@globex.test", domain.RoleCustomerEmployee, f.globex)
	return f
}

func (f *fixture) company(t *testing.T, name string) *domain.Company {
	t.Helper()
	company := &domain.Company{Name: name, Country: "NL", IsActive: true}
	require.NoError(t, f.repos.Companies.Create(f.ctx, company))
	return company
}

func (f *fixture) user(t *testing.T, first, last, email string, role domain.Role, company *domain.Company) *domain.User {
	t.Helper()
	hash, salt, err := auth.HashPassword(testPassword)
	require.NoError(t, err)
	user := &domain.User{
		FirstName:    first,
		LastName:     last,
		Email:        email,
		PasswordHash: hash,
		PasswordSalt: salt,
		Role:         role,
		IsActive:     true,
		CompanyID:    company.ID,
	}
	require.NoError(t, f.repos.Users.Create(f.ctx, user))
	return user
}

func identityOf(user *domain.User) domain.Identity {
	return domain.Identity{Email: user.Email, Role: user.Role}
}

func (f *fixture) newTicket(t *testing.T, creator *domain.User, issue string) *domain.TicketDetail {
	t.Helper()
	detail, err := f.tickets.CreateTicket(f.ctx, identityOf(creator), TicketCreateInput{
		MachineID:      f.machine.ID,
		Issue:          issue,
		ActionExpected: "Keep sorting",
		PhoneNumber:    "+31 6 1234 5678",
	})
	require.NoError(t, err)
	return detail
}

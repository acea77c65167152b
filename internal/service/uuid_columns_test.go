package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/repository"
)

// The memory store accepts any string as a key. Postgres rejects ids that
// are not UUIDs before the lookup runs, so the fixture wraps the store to
// fail the same way.

func uuidColumn(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return &pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "` + id + `"`}
	}
	return nil
}

func withUUIDColumns(set repository.Set) repository.Set {
	set.Users = uuidUsers{set.Users}
	set.Companies = uuidCompanies{set.Companies}
	set.Machines = uuidMachines{set.Machines}
	set.Solutions = uuidSolutions{set.Solutions}
	set.Notifications = uuidNotifications{set.Notifications}
	set.Tickets = uuidTickets{set.Tickets}
	return set
}

type uuidUsers struct{ repository.UserRepository }

func (r uuidUsers) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if err := uuidColumn(id); err != nil {
		return nil, err
	}
	return r.UserRepository.GetByID(ctx, id)
}

func (r uuidUsers) ListByCompany(ctx context.Context, companyID string) ([]domain.User, error) {
	if err := uuidColumn(companyID); err != nil {
		return nil, err
	}
	return r.UserRepository.ListByCompany(ctx, companyID)
}

type uuidCompanies struct{ repository.CompanyRepository }

func (r uuidCompanies) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	if err := uuidColumn(id); err != nil {
		return nil, err
	}
	return r.CompanyRepository.GetByID(ctx, id)
}

type uuidMachines struct{ repository.MachineRepository }

func (r uuidMachines) GetByID(ctx context.Context, id string) (*domain.Machine, error) {
	if err := uuidColumn(id); err != nil {
		return nil, err
	}
	return r.MachineRepository.GetByID(ctx, id)
}

func (r uuidMachines) ListByCompany(ctx context.Context, companyID string) ([]domain.Machine, error) {
	if err := uuidColumn(companyID); err != nil {
		return nil, err
	}
	return r.MachineRepository.ListByCompany(ctx, companyID)
}

func (r uuidMachines) IsLinked(ctx context.Context, companyID, machineID string) (bool, error) {
	if err := uuidColumn(companyID); err != nil {
		return false, err
	}
	if err := uuidColumn(machineID); err != nil {
		return false, err
	}
	return r.MachineRepository.IsLinked(ctx, companyID, machineID)
}

type uuidSolutions struct{ repository.SolutionRepository }

func (r uuidSolutions) ListByMachine(ctx context.Context, machineID, language string) ([]domain.Solution, error) {
	if err := uuidColumn(machineID); err != nil {
		return nil, err
	}
	return r.SolutionRepository.ListByMachine(ctx, machineID, language)
}

type uuidNotifications struct{ repository.NotificationRepository }

func (r uuidNotifications) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	if err := uuidColumn(id); err != nil {
		return nil, err
	}
	return r.NotificationRepository.GetByID(ctx, id)
}

type uuidTickets struct{ repository.TicketRepository }

func (r uuidTickets) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	if err := uuidColumn(id); err != nil {
		return nil, err
	}
	return r.TicketRepository.GetByID(ctx, id)
}

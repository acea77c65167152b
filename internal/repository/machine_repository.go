package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-desk/internal/domain"
)

// MachineRepository manages machines and their company links.
type MachineRepository interface {
	Create(ctx context.Context, machine *domain.Machine) error
	GetByID(ctx context.Context, id string) (*domain.Machine, error)
	List(ctx context.Context) ([]domain.Machine, error)
	ListByCompany(ctx context.Context, companyID string) ([]domain.Machine, error)
	LinkCompany(ctx context.Context, link domain.CompanyMachine) error
	IsLinked(ctx context.Context, companyID, machineID string) (bool, error)
}

type machineRepository struct {
	pool *pgxpool.Pool
}

// NewMachineRepository builds repository.
func NewMachineRepository(pool *pgxpool.Pool) MachineRepository {
	return &machineRepository{pool: pool}
}

func (r *machineRepository) Create(ctx context.Context, machine *domain.Machine) error {
	const query = `INSERT INTO machines (name, blueprint_number, type) VALUES ($1,$2,$3) RETURNING id`
	return r.pool.QueryRow(ctx, query, machine.Name, machine.BlueprintNumber, machine.Type).Scan(&machine.ID)
}

func (r *machineRepository) GetByID(ctx context.Context, id string) (*domain.Machine, error) {
	const query = `SELECT id, name, blueprint_number, type FROM machines WHERE id=$1`
	var machine domain.Machine
	if err := r.pool.QueryRow(ctx, query, id).Scan(&machine.ID, &machine.Name, &machine.BlueprintNumber, &machine.Type); err != nil {
		return nil, err
	}
	return &machine, nil
}

func (r *machineRepository) List(ctx context.Context) ([]domain.Machine, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, blueprint_number, type FROM machines ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMachines(rows)
}

func (r *machineRepository) ListByCompany(ctx context.Context, companyID string) ([]domain.Machine, error) {
	const query = `
        SELECT m.id, m.name, m.blueprint_number, m.type
        FROM machines m JOIN company_machines cm ON cm.machine_id = m.id
        WHERE cm.company_id=$1 ORDER BY m.name ASC`
	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMachines(rows)
}

func (r *machineRepository) LinkCompany(ctx context.Context, link domain.CompanyMachine) error {
	const query = `INSERT INTO company_machines (company_id, machine_id) VALUES ($1,$2) ON CONFLICT DO NOTHING`
	_, err := r.pool.Exec(ctx, query, link.CompanyID, link.MachineID)
	return err
}

func (r *machineRepository) IsLinked(ctx context.Context, companyID, machineID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM company_machines WHERE company_id=$1 AND machine_id=$2)`
	var linked bool
	err := r.pool.QueryRow(ctx, query, companyID, machineID).Scan(&linked)
	return linked, err
}

func scanMachines(rows pgx.Rows) ([]domain.Machine, error) {
	result := []domain.Machine{}
	for rows.Next() {
		var machine domain.Machine
		if err := rows.Scan(&machine.ID, &machine.Name, &machine.BlueprintNumber, &machine.Type); err != nil {
			return nil, err
		}
		result = append(result, machine)
	}
	return result, rows.Err()
}

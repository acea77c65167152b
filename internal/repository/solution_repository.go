package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-desk/internal/domain"
)

// SolutionRepository stores knowledge base entries.
type SolutionRepository interface {
	Create(ctx context.Context, solution *domain.Solution) error
	// ListByMachine returns every language when language is empty.
	ListByMachine(ctx context.Context, machineID, language string) ([]domain.Solution, error)
}

type solutionRepository struct {
	pool *pgxpool.Pool
}

// NewSolutionRepository builds repository.
func NewSolutionRepository(pool *pgxpool.Pool) SolutionRepository {
	return &solutionRepository{pool: pool}
}

func (r *solutionRepository) Create(ctx context.Context, solution *domain.Solution) error {
	const query = `INSERT INTO solutions (language, issue, description, machine_id) VALUES ($1,$2,$3,$4) RETURNING id`
	return r.pool.QueryRow(ctx, query, solution.Language, solution.Issue, solution.Description, solution.MachineID).Scan(&solution.ID)
}

func (r *solutionRepository) ListByMachine(ctx context.Context, machineID, language string) ([]domain.Solution, error) {
	const query = `
        SELECT id, language, issue, description, machine_id FROM solutions
        WHERE machine_id=$1 AND ($2 = '' OR language=$2)
        ORDER BY issue ASC`
	rows, err := r.pool.Query(ctx, query, machineID, language)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Solution{}
	for rows.Next() {
		var solution domain.Solution
		if err := rows.Scan(&solution.ID, &solution.Language, &solution.Issue, &solution.Description, &solution.MachineID); err != nil {
			return nil, err
		}
		result = append(result, solution)
	}
	return result, rows.Err()
}

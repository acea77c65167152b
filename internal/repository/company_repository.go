package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-desk/internal/domain"
)

// CompanyRepository manages companies.
type CompanyRepository interface {
	Create(ctx context.Context, company *domain.Company) error
	Update(ctx context.Context, company *domain.Company) error
	GetByID(ctx context.Context, id string) (*domain.Company, error)
	List(ctx context.Context) ([]domain.Company, error)
}

type companyRepository struct {
	pool *pgxpool.Pool
}

// NewCompanyRepository builds repository.
func NewCompanyRepository(pool *pgxpool.Pool) CompanyRepository {
	return &companyRepository{pool: pool}
}

func (r *companyRepository) Create(ctx context.Context, company *domain.Company) error {
	const query = `INSERT INTO companies (name, country, is_active) VALUES ($1,$2,$3) RETURNING id`
	return r.pool.QueryRow(ctx, query, company.Name, company.Country, company.IsActive).Scan(&company.ID)
}

func (r *companyRepository) Update(ctx context.Context, company *domain.Company) error {
	const query = `UPDATE companies SET name=$1, country=$2, is_active=$3 WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query, company.Name, company.Country, company.IsActive, company.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *companyRepository) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	const query = `SELECT id, name, country, is_active FROM companies WHERE id=$1`
	var company domain.Company
	if err := r.pool.QueryRow(ctx, query, id).Scan(&company.ID, &company.Name, &company.Country, &company.IsActive); err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *companyRepository) List(ctx context.Context) ([]domain.Company, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, country, is_active FROM companies ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Company{}
	for rows.Next() {
		var company domain.Company
		if err := rows.Scan(&company.ID, &company.Name, &company.Country, &company.IsActive); err != nil {
			return nil, err
		}
		result = append(result, company)
	}
	return result, rows.Err()
}

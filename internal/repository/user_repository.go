package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-desk/internal/domain"
)

// UserRepository defines persistence access for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// GetByEmail matches case-insensitively.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ListByCompany(ctx context.Context, companyID string) ([]domain.User, error)
	ListByRoles(ctx context.Context, roles []domain.Role, activeOnly bool) ([]domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, first_name, prefix, last_name, email, password_hash, password_salt, phone_number, role, is_active, company_id`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (first_name, prefix, last_name, email, password_hash, password_salt, phone_number, role, is_active, company_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id`

	return r.pool.QueryRow(ctx, query,
		user.FirstName,
		user.Prefix,
		user.LastName,
		user.Email,
		user.PasswordHash,
		user.PasswordSalt,
		user.PhoneNumber,
		user.Role,
		user.IsActive,
		user.CompanyID,
	).Scan(&user.ID)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET first_name=$1, prefix=$2, last_name=$3, email=$4, password_hash=$5, password_salt=$6,
            phone_number=$7, role=$8, is_active=$9, company_id=$10
        WHERE id=$11`

	cmd, err := r.pool.Exec(ctx, query,
		user.FirstName,
		user.Prefix,
		user.LastName,
		user.Email,
		user.PasswordHash,
		user.PasswordSalt,
		user.PhoneNumber,
		user.Role,
		user.IsActive,
		user.CompanyID,
		user.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.fetchSingle(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.fetchSingle(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(email)=LOWER($1)`, email)
}

func (r *userRepository) ListByCompany(ctx context.Context, companyID string) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users WHERE company_id=$1 ORDER BY last_name, first_name`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func (r *userRepository) ListByRoles(ctx context.Context, roles []domain.Role, activeOnly bool) ([]domain.User, error) {
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, string(role))
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE role = ANY($1)`
	if activeOnly {
		query += ` AND is_active`
	}
	rows, err := r.pool.Query(ctx, query, names)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	if err := r.pool.QueryRow(ctx, query, arg).Scan(userScanTargets(&user)...); err != nil {
		return nil, err
	}
	return &user, nil
}

func scanUsers(rows pgx.Rows) ([]domain.User, error) {
	result := []domain.User{}
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(userScanTargets(&user)...); err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	return result, rows.Err()
}

func userScanTargets(user *domain.User) []any {
	return []any{
		&user.ID,
		&user.FirstName,
		&user.Prefix,
		&user.LastName,
		&user.Email,
		&user.PasswordHash,
		&user.PasswordSalt,
		&user.PhoneNumber,
		&user.Role,
		&user.IsActive,
		&user.CompanyID,
	}
}

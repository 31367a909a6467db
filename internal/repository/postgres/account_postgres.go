package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"payrollportal/internal/model"
	"payrollportal/internal/repository"
)

// pgUniqueViolation is the PostgreSQL error code for unique_violation.
const pgUniqueViolation = "23505"

// AccountPostgres is a PostgreSQL implementation of repository.AccountRepository.
type AccountPostgres struct {
	db *sql.DB
}

// NewAccountPostgres creates a new AccountPostgres repository.
func NewAccountPostgres(db *sql.DB) *AccountPostgres {
	return &AccountPostgres{db: db}
}

var _ repository.AccountRepository = (*AccountPostgres)(nil)

// Create inserts a new account row, translating a primary-key collision into
// repository.ErrDuplicate.
func (r *AccountPostgres) Create(ctx context.Context, acc *model.Account) error {
	const q = `
		INSERT INTO users (owner_id, password_hash, display_name, role)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, q, acc.OwnerID, acc.PasswordHash, acc.DisplayName, acc.Role)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

// FindByOwnerID fetches a single account by owner id.
func (r *AccountPostgres) FindByOwnerID(ctx context.Context, ownerID string) (*model.Account, error) {
	const q = `
		SELECT owner_id, password_hash, display_name, role
		FROM users
		WHERE owner_id = $1
	`
	row := r.db.QueryRowContext(ctx, q, ownerID)
	var a model.Account
	if err := row.Scan(&a.OwnerID, &a.PasswordHash, &a.DisplayName, &a.Role); err != nil {
		return nil, err
	}
	return &a, nil
}

// ListEmployees returns every non-admin account ordered by owner id.
func (r *AccountPostgres) ListEmployees(ctx context.Context) ([]model.Account, error) {
	const q = `
		SELECT owner_id, password_hash, display_name, role
		FROM users
		WHERE role <> 'admin'
		ORDER BY owner_id
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := make([]model.Account, 0)
	for rows.Next() {
		var a model.Account
		if err := rows.Scan(&a.OwnerID, &a.PasswordHash, &a.DisplayName, &a.Role); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return accounts, nil
}

// Delete removes an account row. A missing row is not an error.
func (r *AccountPostgres) Delete(ctx context.Context, ownerID string) error {
	const q = `DELETE FROM users WHERE owner_id = $1`
	res, err := r.db.ExecContext(ctx, q, ownerID)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}

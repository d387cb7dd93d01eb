package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/complaint-service/internal/domain"
)

const uniqueViolation = "23505"

// AccountRepository defines persistence access for accounts. Email is
// the unique lookup key; uniqueness is enforced by the store.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	UpdateStatusByEmail(ctx context.Context, email string, status domain.Status) (*domain.Account, error)
	UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) (*domain.Account, error)
	UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.Account, error)
}

type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository returns a Postgres-backed implementation.
func NewAccountRepository(pool *pgxpool.Pool) AccountRepository {
	return &accountRepository{pool: pool}
}

const accountColumns = `id, first_name, last_name, middle_name, email, password_hash, role, status, phone, picture, created_at, updated_at`

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var account domain.Account
	err := row.Scan(
		&account.ID,
		&account.FirstName,
		&account.LastName,
		&account.MiddleName,
		&account.Email,
		&account.PasswordHash,
		&account.Role,
		&account.Status,
		&account.Phone,
		&account.Picture,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	const query = `
        INSERT INTO accounts (first_name, last_name, middle_name, email, password_hash, role, status, phone, picture)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		account.FirstName,
		account.LastName,
		account.MiddleName,
		account.Email,
		account.PasswordHash,
		account.Role,
		account.Status,
		account.Phone,
		account.Picture,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicate
	}
	return err
}

func (r *accountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE id=$1`
	return scanAccount(r.pool.QueryRow(ctx, query, id))
}

func (r *accountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE email=$1`
	return scanAccount(r.pool.QueryRow(ctx, query, email))
}

func (r *accountRepository) UpdateStatusByEmail(ctx context.Context, email string, status domain.Status) (*domain.Account, error) {
	const query = `
        UPDATE accounts SET status=$1, updated_at=NOW()
        WHERE email=$2
        RETURNING ` + accountColumns
	return scanAccount(r.pool.QueryRow(ctx, query, status, email))
}

func (r *accountRepository) UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) (*domain.Account, error) {
	const query = `
        UPDATE accounts SET password_hash=$1, updated_at=NOW()
        WHERE email=$2
        RETURNING ` + accountColumns
	return scanAccount(r.pool.QueryRow(ctx, query, passwordHash, email))
}

func (r *accountRepository) UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.Account, error) {
	const query = `
        UPDATE accounts SET role=$1, updated_at=NOW()
        WHERE id=$2
        RETURNING ` + accountColumns
	return scanAccount(r.pool.QueryRow(ctx, query, role, id))
}

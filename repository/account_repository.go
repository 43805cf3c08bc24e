package repository

import (
	"context"
	"fmt"

	"raffler/domain/entities"

	"github.com/jackc/pgx/v5"
)

// AccountRepository implements ledger account data access
type AccountRepository struct {
	q Queryable
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(q Queryable) *AccountRepository {
	return &AccountRepository{q: q}
}

// GetByAddress retrieves an account by address
func (r *AccountRepository) GetByAddress(ctx context.Context, address string) (*entities.Account, error) {
	query := `
		SELECT address, balance, created_at
		FROM accounts
		WHERE address = $1
	`

	var account entities.Account
	err := r.q.QueryRow(ctx, query, address).Scan(
		&account.Address,
		&account.Balance,
		&account.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", address, err)
	}
	return &account, nil
}

// GetOrCreate retrieves an account, creating it with a zero balance when
// it does not exist
func (r *AccountRepository) GetOrCreate(ctx context.Context, address string) (*entities.Account, error) {
	query := `
		INSERT INTO accounts (address, balance)
		VALUES ($1, 0)
		ON CONFLICT (address) DO UPDATE SET address = EXCLUDED.address
		RETURNING address, balance, created_at
	`

	var account entities.Account
	err := r.q.QueryRow(ctx, query, address).Scan(
		&account.Address,
		&account.Balance,
		&account.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create account %s: %w", address, err)
	}
	return &account, nil
}

// UpdateBalance sets an account's balance
func (r *AccountRepository) UpdateBalance(ctx context.Context, address string, newBalance int64) error {
	query := `
		UPDATE accounts
		SET balance = $2
		WHERE address = $1
	`

	result, err := r.q.Exec(ctx, query, address, newBalance)
	if err != nil {
		return fmt.Errorf("failed to update balance for account %s: %w", address, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("account %s not found", address)
	}
	return nil
}

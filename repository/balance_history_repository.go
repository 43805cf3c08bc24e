package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"raffler/domain/entities"
)

// BalanceHistoryRepository implements balance change tracking
type BalanceHistoryRepository struct {
	q Queryable
}

// NewBalanceHistoryRepository creates a new balance history repository
func NewBalanceHistoryRepository(q Queryable) *BalanceHistoryRepository {
	return &BalanceHistoryRepository{q: q}
}

// Record saves a balance change entry
func (r *BalanceHistoryRepository) Record(ctx context.Context, history *entities.BalanceHistory) error {
	var metadata []byte
	if history.TransactionMetadata != nil {
		var err error
		metadata, err = json.Marshal(history.TransactionMetadata)
		if err != nil {
			return fmt.Errorf("failed to marshal transaction metadata: %w", err)
		}
	}

	query := `
		INSERT INTO balance_history (account_address, balance_before, balance_after,
		                             change_amount, transaction_type, transaction_metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		history.AccountAddress,
		history.BalanceBefore,
		history.BalanceAfter,
		history.ChangeAmount,
		history.TransactionType,
		metadata,
	).Scan(&history.ID, &history.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record balance history: %w", err)
	}
	return nil
}

// GetByAccount returns recent balance changes for an account, newest first
func (r *BalanceHistoryRepository) GetByAccount(ctx context.Context, address string, limit int) ([]*entities.BalanceHistory, error) {
	query := `
		SELECT id, account_address, balance_before, balance_after,
		       change_amount, transaction_type, transaction_metadata, created_at
		FROM balance_history
		WHERE account_address = $1
		ORDER BY id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, address, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance history for %s: %w", address, err)
	}
	defer rows.Close()

	var histories []*entities.BalanceHistory
	for rows.Next() {
		var history entities.BalanceHistory
		var metadata []byte
		err := rows.Scan(
			&history.ID,
			&history.AccountAddress,
			&history.BalanceBefore,
			&history.BalanceAfter,
			&history.ChangeAmount,
			&history.TransactionType,
			&metadata,
			&history.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan balance history: %w", err)
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &history.TransactionMetadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal transaction metadata: %w", err)
			}
		}
		histories = append(histories, &history)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate balance history: %w", err)
	}

	return histories, nil
}

package repository

import (
	"context"
	"fmt"

	"raffler/domain/entities"

	"github.com/jackc/pgx/v5"
)

// EntryRepository implements raffle entry data access
type EntryRepository struct {
	q Queryable
}

// NewEntryRepository creates a new entry repository
func NewEntryRepository(q Queryable) *EntryRepository {
	return &EntryRepository{q: q}
}

// Create inserts a new entry
func (r *EntryRepository) Create(ctx context.Context, entry *entities.Entry) error {
	query := `
		INSERT INTO entries (round_id, player_address, amount_paid)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		entry.RoundID,
		entry.PlayerAddress,
		entry.AmountPaid,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create entry: %w", err)
	}
	return nil
}

// CountForRound returns the number of entries in a round
func (r *EntryRepository) CountForRound(ctx context.Context, roundID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM entries WHERE round_id = $1`

	var count int64
	if err := r.q.QueryRow(ctx, query, roundID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count entries for round %d: %w", roundID, err)
	}
	return count, nil
}

// PoolBalanceForRound returns the sum of payments recorded for a round
func (r *EntryRepository) PoolBalanceForRound(ctx context.Context, roundID int64) (int64, error) {
	query := `SELECT COALESCE(SUM(amount_paid), 0) FROM entries WHERE round_id = $1`

	var pool int64
	if err := r.q.QueryRow(ctx, query, roundID).Scan(&pool); err != nil {
		return 0, fmt.Errorf("failed to get pool balance for round %d: %w", roundID, err)
	}
	return pool, nil
}

// GetByRoundOrdered returns a round's entries in insertion order
func (r *EntryRepository) GetByRoundOrdered(ctx context.Context, roundID int64) ([]*entities.Entry, error) {
	query := `
		SELECT id, round_id, player_address, amount_paid, created_at
		FROM entries
		WHERE round_id = $1
		ORDER BY id ASC
	`

	rows, err := r.q.Query(ctx, query, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to get entries for round %d: %w", roundID, err)
	}
	defer rows.Close()

	var entries []*entities.Entry
	for rows.Next() {
		var entry entities.Entry
		err := rows.Scan(
			&entry.ID,
			&entry.RoundID,
			&entry.PlayerAddress,
			&entry.AmountPaid,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entries: %w", err)
	}

	return entries, nil
}

// GetByRoundAndIndex returns the entry at a zero-based position in
// insertion order
func (r *EntryRepository) GetByRoundAndIndex(ctx context.Context, roundID, index int64) (*entities.Entry, error) {
	query := `
		SELECT id, round_id, player_address, amount_paid, created_at
		FROM entries
		WHERE round_id = $1
		ORDER BY id ASC
		OFFSET $2
		LIMIT 1
	`

	var entry entities.Entry
	err := r.q.QueryRow(ctx, query, roundID, index).Scan(
		&entry.ID,
		&entry.RoundID,
		&entry.PlayerAddress,
		&entry.AmountPaid,
		&entry.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entry %d of round %d: %w", index, roundID, err)
	}
	return &entry, nil
}

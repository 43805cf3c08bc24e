package repository

import (
	"context"
	"fmt"

	"raffler/domain/entities"

	"github.com/jackc/pgx/v5"
)

// WinnerRepository implements winner record data access
type WinnerRepository struct {
	q Queryable
}

// NewWinnerRepository creates a new winner repository
func NewWinnerRepository(q Queryable) *WinnerRepository {
	return &WinnerRepository{q: q}
}

// Create inserts a winner record
func (r *WinnerRepository) Create(ctx context.Context, winner *entities.Winner) error {
	query := `
		INSERT INTO winners (round_id, player_address, payout_amount, winning_entry_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		winner.RoundID,
		winner.PlayerAddress,
		winner.PayoutAmount,
		winner.WinningEntryID,
	).Scan(&winner.ID, &winner.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create winner record: %w", err)
	}
	return nil
}

// GetMostRecent returns the latest winner if any round has been finalized
func (r *WinnerRepository) GetMostRecent(ctx context.Context) (*entities.Winner, error) {
	query := `
		SELECT id, round_id, player_address, payout_amount, winning_entry_id, created_at
		FROM winners
		ORDER BY id DESC
		LIMIT 1
	`

	return r.scanWinner(r.q.QueryRow(ctx, query))
}

// GetByRound returns the winner of a round if it has been finalized
func (r *WinnerRepository) GetByRound(ctx context.Context, roundID int64) (*entities.Winner, error) {
	query := `
		SELECT id, round_id, player_address, payout_amount, winning_entry_id, created_at
		FROM winners
		WHERE round_id = $1
	`

	return r.scanWinner(r.q.QueryRow(ctx, query, roundID))
}

func (r *WinnerRepository) scanWinner(row pgx.Row) (*entities.Winner, error) {
	var winner entities.Winner
	err := row.Scan(
		&winner.ID,
		&winner.RoundID,
		&winner.PlayerAddress,
		&winner.PayoutAmount,
		&winner.WinningEntryID,
		&winner.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get winner: %w", err)
	}
	return &winner, nil
}

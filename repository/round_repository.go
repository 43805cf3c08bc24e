package repository

import (
	"context"
	"fmt"

	"raffler/domain/entities"

	"github.com/jackc/pgx/v5"
)

const roundColumns = `id, state, entrance_fee, interval_seconds, opened_at,
	       pending_request_id, random_word, completed_at, created_at`

// RoundRepository implements raffle round data access
type RoundRepository struct {
	q Queryable
}

// NewRoundRepository creates a new round repository
func NewRoundRepository(q Queryable) *RoundRepository {
	return &RoundRepository{q: q}
}

func scanRound(row pgx.Row) (*entities.Round, error) {
	var round entities.Round
	err := row.Scan(
		&round.ID,
		&round.State,
		&round.EntranceFee,
		&round.IntervalSeconds,
		&round.OpenedAt,
		&round.PendingRequestID,
		&round.RandomWord,
		&round.CompletedAt,
		&round.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &round, nil
}

// GetOrCreateCurrentRound gets the active round or opens a new one
func (r *RoundRepository) GetOrCreateCurrentRound(ctx context.Context, entranceFee, intervalSeconds int64) (*entities.Round, error) {
	round, err := r.GetCurrentRound(ctx)
	if err != nil {
		return nil, err
	}
	if round != nil {
		return round, nil
	}

	query := `
		INSERT INTO rounds (state, entrance_fee, interval_seconds, opened_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING ` + roundColumns

	round, err = scanRound(r.q.QueryRow(ctx, query, entities.RoundStateOpen, entranceFee, intervalSeconds))
	if err != nil {
		return nil, fmt.Errorf("failed to create round: %w", err)
	}
	return round, nil
}

// GetOrCreateCurrentRoundForUpdate gets the active round under a row lock,
// opening a new one when none exists. The insert path holds the new row's
// lock for the rest of the transaction too, so either way the caller is
// serialized against concurrent draw and fulfillment transactions.
func (r *RoundRepository) GetOrCreateCurrentRoundForUpdate(ctx context.Context, entranceFee, intervalSeconds int64) (*entities.Round, error) {
	round, err := r.GetCurrentRoundForUpdate(ctx)
	if err != nil {
		return nil, err
	}
	if round != nil {
		return round, nil
	}

	// A concurrent opener loses on the single-active-round unique index
	query := `
		INSERT INTO rounds (state, entrance_fee, interval_seconds, opened_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING ` + roundColumns

	round, err = scanRound(r.q.QueryRow(ctx, query, entities.RoundStateOpen, entranceFee, intervalSeconds))
	if err != nil {
		return nil, fmt.Errorf("failed to create round: %w", err)
	}
	return round, nil
}

// GetCurrentRound returns the active round if one exists
func (r *RoundRepository) GetCurrentRound(ctx context.Context) (*entities.Round, error) {
	query := `
		SELECT ` + roundColumns + `
		FROM rounds
		WHERE completed_at IS NULL
		ORDER BY id DESC
		LIMIT 1
	`

	round, err := scanRound(r.q.QueryRow(ctx, query))
	if err != nil {
		return nil, fmt.Errorf("failed to get current round: %w", err)
	}
	return round, nil
}

// GetCurrentRoundForUpdate returns the active round with a row lock
func (r *RoundRepository) GetCurrentRoundForUpdate(ctx context.Context) (*entities.Round, error) {
	query := `
		SELECT ` + roundColumns + `
		FROM rounds
		WHERE completed_at IS NULL
		ORDER BY id DESC
		LIMIT 1
		FOR UPDATE
	`

	round, err := scanRound(r.q.QueryRow(ctx, query))
	if err != nil {
		return nil, fmt.Errorf("failed to get current round for update: %w", err)
	}
	return round, nil
}

// GetByPendingRequestIDForUpdate returns the round awaiting the given
// randomness request with a row lock
func (r *RoundRepository) GetByPendingRequestIDForUpdate(ctx context.Context, requestID string) (*entities.Round, error) {
	query := `
		SELECT ` + roundColumns + `
		FROM rounds
		WHERE pending_request_id = $1
		  AND completed_at IS NULL
		FOR UPDATE
	`

	round, err := scanRound(r.q.QueryRow(ctx, query, requestID))
	if err != nil {
		return nil, fmt.Errorf("failed to get round by pending request %s: %w", requestID, err)
	}
	return round, nil
}

// Create inserts a new round
func (r *RoundRepository) Create(ctx context.Context, round *entities.Round) error {
	query := `
		INSERT INTO rounds (state, entrance_fee, interval_seconds, opened_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		round.State,
		round.EntranceFee,
		round.IntervalSeconds,
		round.OpenedAt,
	).Scan(&round.ID, &round.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create round: %w", err)
	}
	return nil
}

// Update persists round state changes
func (r *RoundRepository) Update(ctx context.Context, round *entities.Round) error {
	query := `
		UPDATE rounds
		SET state = $2,
		    pending_request_id = $3,
		    random_word = $4,
		    completed_at = $5
		WHERE id = $1
	`

	result, err := r.q.Exec(ctx, query,
		round.ID,
		round.State,
		round.PendingRequestID,
		round.RandomWord,
		round.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update round %d: %w", round.ID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("round with ID %d not found", round.ID)
	}
	return nil
}

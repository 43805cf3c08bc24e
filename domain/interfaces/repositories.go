package interfaces

import (
	"context"

	"raffler/domain/entities"
	"raffler/domain/events"
)

// RoundRepository defines the interface for round data access
type RoundRepository interface {
	// GetOrCreateCurrentRound returns the active round, opening a fresh one
	// with the given parameters when none exists
	GetOrCreateCurrentRound(ctx context.Context, entranceFee, intervalSeconds int64) (*entities.Round, error)

	// GetOrCreateCurrentRoundForUpdate is GetOrCreateCurrentRound with a row
	// lock on the returned round, serializing the caller against draw and
	// fulfillment transactions
	GetOrCreateCurrentRoundForUpdate(ctx context.Context, entranceFee, intervalSeconds int64) (*entities.Round, error)

	// GetCurrentRound returns the active round, or nil when none exists
	GetCurrentRound(ctx context.Context) (*entities.Round, error)

	// GetCurrentRoundForUpdate returns the active round with a row lock
	GetCurrentRoundForUpdate(ctx context.Context) (*entities.Round, error)

	// GetByPendingRequestIDForUpdate returns the round awaiting the given
	// randomness request, with a row lock, or nil when no round matches
	GetByPendingRequestIDForUpdate(ctx context.Context, requestID string) (*entities.Round, error)

	// Create inserts a new round and populates its generated fields
	Create(ctx context.Context, round *entities.Round) error

	// Update persists round state changes
	Update(ctx context.Context, round *entities.Round) error
}

// EntryRepository defines the interface for entry data access
type EntryRepository interface {
	// Create inserts a new entry and populates its generated fields
	Create(ctx context.Context, entry *entities.Entry) error

	// CountForRound returns the number of entries in a round
	CountForRound(ctx context.Context, roundID int64) (int64, error)

	// PoolBalanceForRound returns the sum of payments recorded for a round
	PoolBalanceForRound(ctx context.Context, roundID int64) (int64, error)

	// GetByRoundOrdered returns a round's entries in insertion order
	GetByRoundOrdered(ctx context.Context, roundID int64) ([]*entities.Entry, error)

	// GetByRoundAndIndex returns the entry at a zero-based position in
	// insertion order, or nil when the index is out of range
	GetByRoundAndIndex(ctx context.Context, roundID, index int64) (*entities.Entry, error)
}

// AccountRepository defines the interface for ledger account data access
type AccountRepository interface {
	// GetByAddress retrieves an account, or nil when it does not exist
	GetByAddress(ctx context.Context, address string) (*entities.Account, error)

	// GetOrCreate retrieves an account, creating it with a zero balance
	// when it does not exist
	GetOrCreate(ctx context.Context, address string) (*entities.Account, error)

	// UpdateBalance sets an account's balance
	UpdateBalance(ctx context.Context, address string, newBalance int64) error
}

// WinnerRepository defines the interface for winner record data access
type WinnerRepository interface {
	// Create inserts a winner record and populates its generated fields
	Create(ctx context.Context, winner *entities.Winner) error

	// GetMostRecent returns the latest winner, or nil before the first payout
	GetMostRecent(ctx context.Context) (*entities.Winner, error)

	// GetByRound returns the winner of a round, or nil when not finalized
	GetByRound(ctx context.Context, roundID int64) (*entities.Winner, error)
}

// BalanceHistoryRepository defines the interface for balance history tracking
type BalanceHistoryRepository interface {
	// Record saves a balance change entry
	Record(ctx context.Context, history *entities.BalanceHistory) error

	// GetByAccount returns recent balance changes for an account
	GetByAccount(ctx context.Context, address string, limit int) ([]*entities.BalanceHistory, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event) error
}

// TransactionalEventPublisher buffers events during a transaction. Flush
// delivers the buffer after commit; Discard drops it on rollback.
type TransactionalEventPublisher interface {
	EventPublisher
	Flush(ctx context.Context) error
	Discard()
}

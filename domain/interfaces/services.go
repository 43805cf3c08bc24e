package interfaces

import (
	"context"
	"math/big"

	"raffler/domain/entities"
)

// RaffleParams holds the raffle's immutable parameters, fixed at startup
type RaffleParams struct {
	EntranceFee            int64
	IntervalSeconds        int64
	OracleConfirmations    uint32
	OracleCallbackGasLimit uint32
	OracleNumWords         uint32
}

// RandomnessRequest carries the fixed parameters forwarded to the oracle
// with each request
type RandomnessRequest struct {
	Confirmations    uint32
	CallbackGasLimit uint32
	NumWords         uint32
}

// RandomnessOracle is the external provider of verifiable random values.
// It is trusted to deliver an authenticated fulfillment at most once per
// request id, and only for requests this service actually issued.
type RandomnessOracle interface {
	// RequestRandomWords issues a randomness request and returns the id the
	// fulfillment will carry
	RequestRandomWords(ctx context.Context, req RandomnessRequest) (string, error)
}

// PayoutSender transfers an amount to an address, reporting failure when
// the recipient cannot accept the credit
type PayoutSender interface {
	Send(ctx context.Context, toAddress string, amount int64) error
}

// EntryResult describes a successful round entry
type EntryResult struct {
	Entry       *entities.Entry
	NewBalance  int64
	PoolBalance int64
	EntryCount  int64
}

// DrawEligibility is a snapshot of the eligibility predicate and the state
// it was evaluated against
type DrawEligibility struct {
	Ready       bool
	State       entities.RoundState
	PoolBalance int64
	EntryCount  int64
}

// DrawRequest describes a successfully issued randomness request
type DrawRequest struct {
	Round     *entities.Round
	RequestID string
}

// DrawResult describes a finalized round
type DrawResult struct {
	Round        *entities.Round
	Winner       *entities.Winner
	WinningIndex int64
	NextRound    *entities.Round
}

// RaffleStatus is the read-only view of the raffle exposed to callers
type RaffleStatus struct {
	Round        *entities.Round
	PoolBalance  int64
	EntryCount   int64
	RecentWinner *entities.Winner
}

// RaffleService defines the interface for raffle operations
type RaffleService interface {
	// Enter buys one slot in the current round for the given payment
	Enter(ctx context.Context, playerAddress string, payment int64) (*EntryResult, error)

	// CheckDrawEligibility evaluates the draw predicate without mutating state
	CheckDrawEligibility(ctx context.Context) (*DrawEligibility, error)

	// RequestDraw closes entries and issues the randomness request
	RequestDraw(ctx context.Context) (*DrawRequest, error)

	// FulfillRandomness consumes an oracle fulfillment, picks the winner,
	// pays out the pool and reopens the raffle
	FulfillRandomness(ctx context.Context, requestID string, randomWords []*big.Int) (*DrawResult, error)

	// GetStatus returns the current raffle state, pool, entry count and
	// most recent winner
	GetStatus(ctx context.Context) (*RaffleStatus, error)

	// GetEntry returns the entry at a zero-based position in the current round
	GetEntry(ctx context.Context, index int64) (*entities.Entry, error)
}

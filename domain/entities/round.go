package entities

import (
	"time"
)

// RoundState represents the lifecycle state of a raffle round
type RoundState string

const (
	// RoundStateOpen accepts entries
	RoundStateOpen RoundState = "open"
	// RoundStateCalculating means a randomness request is in flight and
	// entries are rejected until the fulfillment arrives
	RoundStateCalculating RoundState = "calculating"
	// RoundStateClosed is a reserved terminal state. No transition currently
	// produces it; it exists so a permanently retired raffle can be
	// represented without a schema change.
	RoundStateClosed RoundState = "closed"
)

// Round represents a single raffle round from open through payout.
// Exactly one round is active (CompletedAt == nil) at any time.
type Round struct {
	ID               int64      `db:"id"`
	State            RoundState `db:"state"`
	EntranceFee      int64      `db:"entrance_fee"`      // Captured from raffle parameters at creation
	IntervalSeconds  int64      `db:"interval_seconds"`  // Captured from raffle parameters at creation
	OpenedAt         time.Time  `db:"opened_at"`         // When this round's clock started
	PendingRequestID *string    `db:"pending_request_id"` // NULL unless a randomness request is in flight
	RandomWord       *string    `db:"random_word"`        // Decimal string of the fulfilled random value, NULL until finalized
	CompletedAt      *time.Time `db:"completed_at"`       // NULL while this is the active round
	CreatedAt        time.Time  `db:"created_at"`
}

// NewRound returns a fresh open round with the given immutable parameters.
func NewRound(entranceFee int64, interval time.Duration, openedAt time.Time) *Round {
	return &Round{
		State:           RoundStateOpen,
		EntranceFee:     entranceFee,
		IntervalSeconds: int64(interval / time.Second),
		OpenedAt:        openedAt,
	}
}

// Interval returns the configured minimum open duration for this round
func (r *Round) Interval() time.Duration {
	return time.Duration(r.IntervalSeconds) * time.Second
}

// IsOpen returns true if the round accepts entries
func (r *Round) IsOpen() bool {
	return r.State == RoundStateOpen && !r.IsCompleted()
}

// IsCalculating returns true if a randomness request is in flight
func (r *Round) IsCalculating() bool {
	return r.State == RoundStateCalculating && !r.IsCompleted()
}

// IsCompleted returns true once the round has been finalized
func (r *Round) IsCompleted() bool {
	return r.CompletedAt != nil
}

// DrawEligible reports whether the round is ready to be drawn. All of:
// the interval has strictly elapsed since the round opened, the round is
// open, the pool holds funds, and at least one entry exists. Pure: safe to
// call at any time, mutates nothing.
func (r *Round) DrawEligible(poolBalance, entryCount int64, now time.Time) bool {
	intervalElapsed := now.Sub(r.OpenedAt) > r.Interval()
	return intervalElapsed && r.IsOpen() && poolBalance > 0 && entryCount > 0
}

// BeginDraw transitions the round into calculating with the issued
// randomness request id. Caller must have verified eligibility.
func (r *Round) BeginDraw(requestID string) {
	r.State = RoundStateCalculating
	r.PendingRequestID = &requestID
}

// Complete finalizes the round with the random word that decided it.
// The pending request id is kept on the row as a historical record of the
// fulfillment that closed the round.
func (r *Round) Complete(randomWord string, completedAt time.Time) {
	r.RandomWord = &randomWord
	r.CompletedAt = &completedAt
}

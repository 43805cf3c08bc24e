package events

import "raffler/domain/entities"

// EventType represents different types of events in the system
type EventType string

const (
	EventTypePlayerEntered EventType = "player_entered"
	EventTypeDrawRequested EventType = "draw_requested"
	EventTypeWinnerPicked  EventType = "winner_picked"
	EventTypeBalanceChange EventType = "balance_change"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// PlayerEnteredEvent represents a successful round entry
type PlayerEnteredEvent struct {
	RoundID       int64
	PlayerAddress string
	AmountPaid    int64
}

func (e PlayerEnteredEvent) Type() EventType {
	return EventTypePlayerEntered
}

// DrawRequestedEvent represents a round moving to calculating with a
// randomness request in flight
type DrawRequestedEvent struct {
	RoundID   int64
	RequestID string
}

func (e DrawRequestedEvent) Type() EventType {
	return EventTypeDrawRequested
}

// WinnerPickedEvent represents a finalized round and its payout
type WinnerPickedEvent struct {
	RoundID       int64
	WinnerAddress string
	PayoutAmount  int64
}

func (e WinnerPickedEvent) Type() EventType {
	return EventTypeWinnerPicked
}

// BalanceChangeEvent represents a ledger balance change that occurred
type BalanceChangeEvent struct {
	AccountAddress  string
	OldBalance      int64
	NewBalance      int64
	TransactionType entities.TransactionType
	ChangeAmount    int64
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

package services

import (
	"errors"
	"fmt"

	"raffler/domain/entities"
)

var (
	// ErrEntryFeeTooLow is returned when an entry payment is below the
	// round's entrance fee
	ErrEntryFeeTooLow = errors.New("payment below entrance fee")

	// ErrRoundNotOpen is returned when an entry is attempted while the
	// round is not accepting entries
	ErrRoundNotOpen = errors.New("round is not open for entries")

	// ErrInsufficientFunds is returned when the payer's account cannot
	// cover the payment
	ErrInsufficientFunds = errors.New("account balance cannot cover payment")

	// ErrUnknownRequest is returned when a fulfillment arrives for a
	// request this service did not issue or has already consumed
	ErrUnknownRequest = errors.New("no round awaiting this randomness request")
)

// DrawNotReadyError is returned when a draw is requested before the
// eligibility conditions are met. It carries a diagnostic snapshot of the
// state the predicate was evaluated against.
type DrawNotReadyError struct {
	State       entities.RoundState
	PoolBalance int64
	EntryCount  int64
}

func (e *DrawNotReadyError) Error() string {
	return fmt.Sprintf("draw not ready: state=%s pool=%d entries=%d", e.State, e.PoolBalance, e.EntryCount)
}

// PayoutFailedError is returned when the winner credit is rejected. The
// caller must roll back the enclosing transaction so the round stays
// calculating and the fulfillment can be retried.
type PayoutFailedError struct {
	WinnerAddress string
	Amount        int64
	Cause         error
}

func (e *PayoutFailedError) Error() string {
	return fmt.Sprintf("payout of %d to %s failed: %v", e.Amount, e.WinnerAddress, e.Cause)
}

func (e *PayoutFailedError) Unwrap() error {
	return e.Cause
}

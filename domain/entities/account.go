package entities

import (
	"errors"
	"time"
)

// Account represents a player's ledger account. Entrance fees are debited
// from it and winnings are credited to it.
type Account struct {
	Address   string    `db:"address"`
	Balance   int64     `db:"balance"`
	CreatedAt time.Time `db:"created_at"`
}

// HasSufficientBalance checks if the account can cover an amount
func (a *Account) HasSufficientBalance(amount int64) bool {
	return a.Balance >= amount
}

// ValidateAmount checks if an amount is valid (positive and affordable)
func (a *Account) ValidateAmount(amount int64) error {
	if amount <= 0 {
		return errors.New("amount must be positive")
	}
	if !a.HasSufficientBalance(amount) {
		return errors.New("insufficient balance")
	}
	return nil
}

// CalculateNewBalance calculates what the balance would be after a change
func (a *Account) CalculateNewBalance(changeAmount int64) int64 {
	return a.Balance + changeAmount
}

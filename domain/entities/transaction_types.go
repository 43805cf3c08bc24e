package entities

// TransactionType represents the type of balance change
type TransactionType string

// All transaction types supported by the system
const (
	// Raffle transactions
	TransactionTypeEntryFee  TransactionType = "entry_fee"
	TransactionTypeRaffleWin TransactionType = "raffle_win"

	// System transactions
	TransactionTypeDeposit TransactionType = "deposit"
)

// IsWinType returns true if the transaction type represents a win
func (tt TransactionType) IsWinType() bool {
	return tt == TransactionTypeRaffleWin
}

// IsRaffleRelated returns true if the transaction type was produced by
// round play rather than an administrative adjustment
func (tt TransactionType) IsRaffleRelated() bool {
	return tt == TransactionTypeEntryFee || tt == TransactionTypeRaffleWin
}

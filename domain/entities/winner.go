package entities

import "time"

// Winner records the payout of a finalized round. At most one winner row
// exists per round; the most recent row is the raffle's recent winner.
type Winner struct {
	ID             int64     `db:"id"`
	RoundID        int64     `db:"round_id"`
	PlayerAddress  string    `db:"player_address"`
	PayoutAmount   int64     `db:"payout_amount"`
	WinningEntryID int64     `db:"winning_entry_id"`
	CreatedAt      time.Time `db:"created_at"`
}

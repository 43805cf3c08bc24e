package entities

import "time"

// Entry represents one paid slot in a round. A player may hold any number
// of entries; each is a separate slot with equal winning probability.
// Insertion order (ascending id) is the draw order.
type Entry struct {
	ID            int64     `db:"id"`
	RoundID       int64     `db:"round_id"`
	PlayerAddress string    `db:"player_address"`
	AmountPaid    int64     `db:"amount_paid"`
	CreatedAt     time.Time `db:"created_at"`
}

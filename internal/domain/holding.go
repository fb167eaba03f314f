// internal/domain/holding.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Holding represents the quantity of one token held by one wallet. The
// (WalletID, TokenID) pair is unique. A holding row is created on the first
// buy of a token and deleted when a sell brings the amount to exactly zero:
// an absent row and a zero amount are the same state.
type Holding struct {
	ID        int64           `db:"id" json:"id"`
	WalletID  int64           `db:"wallet_id" json:"wallet_id"`
	TokenID   int64           `db:"token_id" json:"token_id"`
	Amount    decimal.Decimal `db:"amount" json:"amount"` // NUMERIC(28, 8) in DB, never negative
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

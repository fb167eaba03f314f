// internal/domain/wallet.go
package domain

import (
	"time"

	"github.com/shopspring/decimal" // For precise monetary calculations
)

// BalancePrecision is the number of fractional digits carried by cash
// balances and holding amounts. PricePrecision applies to token prices and
// trade totals. Values are rounded to these precisions at every mutation so
// repeated buy/sell cycles cannot accumulate representation drift.
const (
	BalancePrecision int32 = 8
	PricePrecision   int32 = 4
)

// Wallet represents a user's single cash account. Each user owns at most one
// wallet, created on explicit request and never deleted. Only the settlement
// engine mutates Balance, always inside a transaction scope with the wallet
// row locked.
type Wallet struct {
	ID        int64           `db:"id" json:"id"`
	UserID    int64           `db:"user_id" json:"user_id"`
	Address   string          `db:"address" json:"address"`
	Balance   decimal.Decimal `db:"balance" json:"balance"` // NUMERIC(28, 8) in DB, never negative
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// NewWallet creates a new Wallet instance with a zero balance.
func NewWallet(userID int64, address string) *Wallet {
	now := time.Now().UTC()
	return &Wallet{
		UserID:    userID,
		Address:   address,
		Balance:   decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

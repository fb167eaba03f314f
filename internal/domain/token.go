// internal/domain/token.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Token represents a tradable token with an authoritative current price.
// Price is strictly positive and mutated only through the locked
// price-update operation.
type Token struct {
	ID        int64           `db:"id" json:"id"`
	Symbol    string          `db:"symbol" json:"symbol"` // Unique, e.g. "BTC"
	Name      string          `db:"name" json:"name"`
	Price     decimal.Decimal `db:"price" json:"price"` // NUMERIC(20, 4) in DB, > 0
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

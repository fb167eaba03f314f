// internal/domain/transaction.go
package domain

import (
	"time"

	"github.com/shopspring/decimal" // For precise monetary calculations
)

// TransactionType defines the kind of a settled trade.
type TransactionType string

const (
	TransactionTypeBuy  TransactionType = "BUY"
	TransactionTypeSell TransactionType = "SELL"
)

// Transaction is the append-only record of one committed trade. It is written
// exactly once, inside the same transaction scope as the balance and holding
// mutations it describes, and never updated afterwards. PriceAtTransaction is
// the price used for the mutation, not the price at query time.
type Transaction struct {
	ID                 int64           `db:"id" json:"id"` // Primary key, BIGSERIAL in DB
	WalletID           int64           `db:"wallet_id" json:"wallet_id"`
	TokenID            int64           `db:"token_id" json:"token_id"`
	Type               TransactionType `db:"type" json:"type"`
	Quantity           decimal.Decimal `db:"quantity" json:"quantity"`                         // NUMERIC(28, 8), > 0
	PriceAtTransaction decimal.Decimal `db:"price_at_transaction" json:"price_at_transaction"` // NUMERIC(20, 4)
	TotalValue         decimal.Decimal `db:"total_value" json:"total_value"`                   // quantity * price, NUMERIC(20, 4)
	CreatedAt          time.Time       `db:"created_at" json:"created_at"`
}

// NewTransaction creates a new Transaction instance.
func NewTransaction(walletID, tokenID int64, txType TransactionType, quantity, price, totalValue decimal.Decimal) *Transaction {
	return &Transaction{
		WalletID:           walletID,
		TokenID:            tokenID,
		Type:               txType,
		Quantity:           quantity,
		PriceAtTransaction: price,
		TotalValue:         totalValue,
		CreatedAt:          time.Now().UTC(),
	}
}

// TransactionHistoryEntry is one row of a user's trade history, joined with
// token details for display.
type TransactionHistoryEntry struct {
	TransactionID int64           `db:"transaction_id" json:"transaction_id"`
	TokenSymbol   string          `db:"token_symbol" json:"token_symbol"`
	TokenName     string          `db:"token_name" json:"token_name"`
	Type          TransactionType `db:"type" json:"type"`
	Quantity      decimal.Decimal `db:"quantity" json:"quantity"`
	PricePerToken decimal.Decimal `db:"price_per_token" json:"price_per_token"`
	TotalValue    decimal.Decimal `db:"total_value" json:"total_value"`
	Timestamp     time.Time       `db:"timestamp" json:"timestamp"`
}

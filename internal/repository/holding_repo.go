// internal/repository/holding_repo.go
package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"tokentrade/internal/domain"
)

// PortfolioHolding is one holding joined with current token details for the
// portfolio display query.
type PortfolioHolding struct {
	TokenID      int64           `db:"token_id" json:"token_id"`
	Symbol       string          `db:"symbol" json:"symbol"`
	Name         string          `db:"name" json:"name"`
	Amount       decimal.Decimal `db:"amount" json:"amount"`
	CurrentPrice decimal.Decimal `db:"current_price" json:"current_price"`
	TotalValue   decimal.Decimal `db:"total_value" json:"total_value"`
}

// HoldingRepository defines the interface for holding data operations.
// A holding row absent from the table means a zero amount; rows never carry
// a zero or negative amount.
type HoldingRepository interface {
	// GetHoldingForUpdate retrieves the (wallet, token) holding with an
	// exclusive row lock, or ErrNotFound if the wallet holds none of the
	// token. Must be called inside a transaction scope.
	GetHoldingForUpdate(ctx context.Context, q DBExecutor, walletID, tokenID int64) (*domain.Holding, error)
	// UpsertHolding creates the (wallet, token) holding with the given amount
	// or overwrites the amount of the existing row.
	UpsertHolding(ctx context.Context, q DBExecutor, walletID, tokenID int64, amount decimal.Decimal) error
	// DeleteHolding removes a holding row. Called when a sell brings the
	// amount to exactly zero.
	DeleteHolding(ctx context.Context, q DBExecutor, holdingID int64) error
	// GetPortfolio joins all of a wallet's holdings with current token
	// prices. Unlocked read; the prices may change immediately after.
	GetPortfolio(ctx context.Context, q DBExecutor, walletID int64) ([]PortfolioHolding, error)
}

// internal/repository/token_repo.go
package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"tokentrade/internal/domain"
)

// TokenSummary is one row of the per-token aggregate view: how much of the
// token is held overall and by how many wallets.
type TokenSummary struct {
	TokenID       int64           `db:"token_id" json:"token_id"`
	Symbol        string          `db:"symbol" json:"symbol"`
	Name          string          `db:"name" json:"name"`
	Price         decimal.Decimal `db:"price" json:"price"`
	TotalHoldings decimal.Decimal `db:"total_holdings" json:"total_holdings"`
	WalletCount   int64           `db:"wallet_count" json:"wallet_count"`
}

// TokenRepository defines the interface for token data operations.
type TokenRepository interface {
	// ListTokens retrieves all tokens ordered by symbol.
	ListTokens(ctx context.Context, q DBExecutor) ([]domain.Token, error)
	// GetTokenByID retrieves a token without locking it.
	GetTokenByID(ctx context.Context, q DBExecutor, id int64) (*domain.Token, error)
	// GetTokenByIDForUpdate retrieves a token with an exclusive row lock.
	// Must be called inside a transaction scope.
	GetTokenByIDForUpdate(ctx context.Context, q DBExecutor, id int64) (*domain.Token, error)
	// SetTokenPrice writes a token's new price.
	SetTokenPrice(ctx context.Context, q DBExecutor, tokenID int64, price decimal.Decimal) error
	// GetTokenSummary retrieves the aggregate holdings per token, most held
	// first. Unlocked read.
	GetTokenSummary(ctx context.Context, q DBExecutor) ([]TokenSummary, error)
}

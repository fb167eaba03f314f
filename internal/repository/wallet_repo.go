// internal/repository/wallet_repo.go
package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"tokentrade/internal/domain"
)

// WalletRepository defines the interface for wallet data operations.
type WalletRepository interface {
	// CreateWallet adds a new wallet using the provided DBExecutor.
	CreateWallet(ctx context.Context, q DBExecutor, wallet *domain.Wallet) error
	// GetWalletByUserID retrieves a user's wallet without locking it.
	GetWalletByUserID(ctx context.Context, q DBExecutor, userID int64) (*domain.Wallet, error)
	// GetWalletByUserIDForUpdate retrieves a user's wallet with an exclusive
	// row lock (SELECT ... FOR UPDATE). Must be called inside a transaction
	// scope; the lock is held until the scope commits or rolls back.
	GetWalletByUserIDForUpdate(ctx context.Context, q DBExecutor, userID int64) (*domain.Wallet, error)
	// GetWalletByAddress retrieves a wallet by its address.
	GetWalletByAddress(ctx context.Context, q DBExecutor, address string) (*domain.Wallet, error)
	// SetWalletBalance writes a wallet's new balance.
	SetWalletBalance(ctx context.Context, q DBExecutor, walletID int64, balance decimal.Decimal) error
}

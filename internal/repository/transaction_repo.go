// internal/repository/transaction_repo.go
package repository

import (
	"context"

	"tokentrade/internal/domain"
)

// TransactionRepository defines the interface for the append-only trade log.
type TransactionRepository interface {
	// CreateTransaction appends a trade record using the provided DBExecutor.
	// Records are immutable once written; there is no update operation.
	CreateTransaction(ctx context.Context, q DBExecutor, transaction *domain.Transaction) error
	// GetHistoryByUserID retrieves a user's trade history joined with token
	// details, newest first.
	GetHistoryByUserID(ctx context.Context, q DBExecutor, userID int64) ([]domain.TransactionHistoryEntry, error)
}

// internal/repository/postgres/transaction_pg.go
package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"tokentrade/internal/domain"
	"tokentrade/internal/repository"
)

// TransactionRepository implements repository.TransactionRepository for PostgreSQL.
type TransactionRepository struct {
	// Stateless; methods receive a DBExecutor per call.
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db *sqlx.DB) repository.TransactionRepository {
	return &TransactionRepository{}
}

// CreateTransaction appends a trade record using the provided DBExecutor.
func (r *TransactionRepository) CreateTransaction(ctx context.Context, q repository.DBExecutor, transaction *domain.Transaction) error {
	query := `INSERT INTO transactions (wallet_id, token_id, type, quantity, price_at_transaction, total_value, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`

	err := q.QueryRowContext(ctx, query,
		transaction.WalletID,
		transaction.TokenID,
		transaction.Type,
		transaction.Quantity,
		transaction.PriceAtTransaction,
		transaction.TotalValue,
		transaction.CreatedAt,
	).Scan(&transaction.ID)

	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// GetHistoryByUserID retrieves a user's trade history joined with token
// details, newest first. Only committed trades are visible here.
func (r *TransactionRepository) GetHistoryByUserID(ctx context.Context, q repository.DBExecutor, userID int64) ([]domain.TransactionHistoryEntry, error) {
	entries := []domain.TransactionHistoryEntry{}
	query := `
		SELECT
			tx.id AS transaction_id,
			tk.symbol AS token_symbol,
			tk.name AS token_name,
			tx.type,
			tx.quantity,
			tx.price_at_transaction AS price_per_token,
			tx.total_value,
			tx.created_at AS timestamp
		FROM transactions tx
		INNER JOIN wallets w ON tx.wallet_id = w.id
		INNER JOIN tokens tk ON tx.token_id = tk.id
		WHERE w.user_id = $1
		ORDER BY tx.created_at DESC, tx.id DESC`
	if err := q.SelectContext(ctx, &entries, query, userID); err != nil {
		return nil, fmt.Errorf("failed to fetch transaction history for user %d: %w", userID, err)
	}
	return entries, nil
}

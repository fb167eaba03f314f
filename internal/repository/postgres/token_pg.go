// internal/repository/postgres/token_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"tokentrade/internal/domain"
	"tokentrade/internal/repository"
	"tokentrade/internal/util"
)

// TokenRepository implements repository.TokenRepository for PostgreSQL.
type TokenRepository struct {
	// Stateless; methods receive a DBExecutor per call.
}

// NewTokenRepository creates a new TokenRepository.
func NewTokenRepository(db *sqlx.DB) repository.TokenRepository {
	return &TokenRepository{}
}

// ListTokens retrieves all tokens ordered by symbol.
func (r *TokenRepository) ListTokens(ctx context.Context, q repository.DBExecutor) ([]domain.Token, error) {
	tokens := []domain.Token{}
	query := `SELECT id, symbol, name, price, created_at, updated_at FROM tokens ORDER BY symbol ASC`
	if err := q.SelectContext(ctx, &tokens, query); err != nil {
		return nil, fmt.Errorf("failed to list tokens: %w", err)
	}
	return tokens, nil
}

// GetTokenByID retrieves a token without locking it.
func (r *TokenRepository) GetTokenByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Token, error) {
	var token domain.Token
	query := `SELECT id, symbol, name, price, created_at, updated_at FROM tokens WHERE id = $1`
	err := q.GetContext(ctx, &token, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get token %d: %w", id, err)
	}
	return &token, nil
}

// GetTokenByIDForUpdate retrieves a token with an exclusive row lock.
func (r *TokenRepository) GetTokenByIDForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Token, error) {
	var token domain.Token
	query := `SELECT id, symbol, name, price, created_at, updated_at FROM tokens WHERE id = $1 FOR UPDATE`
	err := q.GetContext(ctx, &token, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock token %d: %w", id, err)
	}
	return &token, nil
}

// SetTokenPrice writes a token's new price using the provided DBExecutor.
func (r *TokenRepository) SetTokenPrice(ctx context.Context, q repository.DBExecutor, tokenID int64, price decimal.Decimal) error {
	query := `UPDATE tokens SET price = $1, updated_at = $2 WHERE id = $3`
	result, err := q.ExecContext(ctx, query, price, time.Now().UTC(), tokenID)
	if err != nil {
		return fmt.Errorf("failed to update price for token %d: %w", tokenID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for token %d: %w", tokenID, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no rows affected updating price for token %d: %w", tokenID, util.ErrTokenNotFound)
	}
	return nil
}

// GetTokenSummary reads the token_summary view: every token with its total
// held amount and distinct holder count, most held first.
func (r *TokenRepository) GetTokenSummary(ctx context.Context, q repository.DBExecutor) ([]repository.TokenSummary, error) {
	summary := []repository.TokenSummary{}
	query := `SELECT token_id, symbol, name, price, total_holdings, wallet_count
	          FROM token_summary ORDER BY total_holdings DESC`
	if err := q.SelectContext(ctx, &summary, query); err != nil {
		return nil, fmt.Errorf("failed to fetch token summary: %w", err)
	}
	return summary, nil
}

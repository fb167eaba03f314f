// internal/repository/postgres/holding_pg.go
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

// HoldingRepository implements repository.HoldingRepository for PostgreSQL.
type HoldingRepository struct {
	// Stateless; methods receive a DBExecutor per call.
}

// NewHoldingRepository creates a new HoldingRepository.
func NewHoldingRepository(db *sqlx.DB) repository.HoldingRepository {
	return &HoldingRepository{}
}

// GetHoldingForUpdate retrieves the (wallet, token) holding with an exclusive
// row lock, or util.ErrNotFound if the wallet holds none of the token.
func (r *HoldingRepository) GetHoldingForUpdate(ctx context.Context, q repository.DBExecutor, walletID, tokenID int64) (*domain.Holding, error) {
	var holding domain.Holding
	query := `SELECT id, wallet_id, token_id, amount, created_at, updated_at
	          FROM holdings WHERE wallet_id = $1 AND token_id = $2 FOR UPDATE`
	err := q.GetContext(ctx, &holding, query, walletID, tokenID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock holding for wallet %d, token %d: %w", walletID, tokenID, err)
	}
	return &holding, nil
}

// UpsertHolding creates the (wallet, token) holding or overwrites the amount
// of the existing row. The unique (wallet_id, token_id) constraint backs the
// ON CONFLICT clause; callers have the holding row locked when it exists.
func (r *HoldingRepository) UpsertHolding(ctx context.Context, q repository.DBExecutor, walletID, tokenID int64, amount decimal.Decimal) error {
	now := time.Now().UTC()
	query := `INSERT INTO holdings (wallet_id, token_id, amount, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $4)
	          ON CONFLICT (wallet_id, token_id)
	          DO UPDATE SET amount = EXCLUDED.amount, updated_at = EXCLUDED.updated_at`
	if _, err := q.ExecContext(ctx, query, walletID, tokenID, amount, now); err != nil {
		return fmt.Errorf("failed to upsert holding for wallet %d, token %d: %w", walletID, tokenID, err)
	}
	return nil
}

// DeleteHolding removes a holding row.
func (r *HoldingRepository) DeleteHolding(ctx context.Context, q repository.DBExecutor, holdingID int64) error {
	query := `DELETE FROM holdings WHERE id = $1`
	result, err := q.ExecContext(ctx, query, holdingID)
	if err != nil {
		return fmt.Errorf("failed to delete holding %d: %w", holdingID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected deleting holding %d: %w", holdingID, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no rows affected deleting holding %d: %w", holdingID, util.ErrNoSuchHolding)
	}
	return nil
}

// GetPortfolio joins all of a wallet's holdings with current token prices,
// most valuable first. Unlocked display read.
func (r *HoldingRepository) GetPortfolio(ctx context.Context, q repository.DBExecutor, walletID int64) ([]repository.PortfolioHolding, error) {
	holdings := []repository.PortfolioHolding{}
	query := `
		SELECT
			h.token_id,
			t.symbol,
			t.name,
			h.amount,
			t.price AS current_price,
			(h.amount * t.price) AS total_value
		FROM holdings h
		INNER JOIN tokens t ON h.token_id = t.id
		WHERE h.wallet_id = $1
		ORDER BY total_value DESC`
	if err := q.SelectContext(ctx, &holdings, query, walletID); err != nil {
		return nil, fmt.Errorf("failed to fetch portfolio for wallet %d: %w", walletID, err)
	}
	return holdings, nil
}

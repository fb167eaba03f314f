// internal/service/trade_service.go
package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"tokentrade/internal/domain"
	"tokentrade/internal/repository"
	"tokentrade/internal/util"
	"tokentrade/pkg/db"
)

// TradeSummary describes one settled trade: the price actually used for the
// mutation and the resulting total (cost for buys, proceeds for sells).
type TradeSummary struct {
	Symbol     string          `json:"symbol"`
	Quantity   decimal.Decimal `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// TradeResult is the committed outcome of a buy or sell. HoldingAmount is nil
// when the sell emptied the holding and the row was deleted.
type TradeResult struct {
	WalletBalance decimal.Decimal  `json:"wallet_balance"`
	HoldingAmount *decimal.Decimal `json:"holding_amount"`
	Transaction   TradeSummary     `json:"transaction"`
}

// Portfolio is the display view of a wallet: cash balance plus every holding
// valued at the current token price.
type Portfolio struct {
	WalletBalance decimal.Decimal               `json:"wallet_balance"`
	Holdings      []repository.PortfolioHolding `json:"holdings"`
}

// TradeService is the trade settlement engine. Buy and Sell acquire row locks
// in the fixed order wallet -> token -> holding and apply balance, holding and
// transaction-record mutations as one atomic unit; portfolio and history are
// unlocked display reads.
type TradeService interface {
	Buy(ctx context.Context, userID, tokenID int64, quantity decimal.Decimal) (*TradeResult, error)
	Sell(ctx context.Context, userID, tokenID int64, quantity decimal.Decimal) (*TradeResult, error)
	GetPortfolio(ctx context.Context, userID int64) (*Portfolio, error)
	GetTransactionHistory(ctx context.Context, userID int64) ([]domain.TransactionHistoryEntry, error)
}

// tradeService implements the TradeService interface.
type tradeService struct {
	dbBeginner      db.DBTxBeginner       // For starting transaction scopes (e.g. *sqlx.DB)
	dbExecutor      repository.DBExecutor // For non-transactional reads (e.g. *sqlx.DB)
	walletRepo      repository.WalletRepository
	tokenRepo       repository.TokenRepository
	holdingRepo     repository.HoldingRepository
	transactionRepo repository.TransactionRepository
	beginTx         db.BeginTxFunc
	commitTx        db.CommitTxFunc
	rollbackTx      db.RollbackTxFunc
}

// NewTradeService creates a new instance of TradeService.
func NewTradeService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	walletRepo repository.WalletRepository,
	tokenRepo repository.TokenRepository,
	holdingRepo repository.HoldingRepository,
	transactionRepo repository.TransactionRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) TradeService {
	return &tradeService{
		dbBeginner:      dbBeginner,
		dbExecutor:      dbExecutor,
		walletRepo:      walletRepo,
		tokenRepo:       tokenRepo,
		holdingRepo:     holdingRepo,
		transactionRepo: transactionRepo,
		beginTx:         beginTx,
		commitTx:        commitTx,
		rollbackTx:      rollbackTx,
	}
}

// Buy executes a market purchase of quantity tokens at the current stored
// price. Lock order: wallet -> token -> holding.
func (s *tradeService) Buy(ctx context.Context, userID, tokenID int64, quantity decimal.Decimal) (*TradeResult, error) {
	if userID == 0 || tokenID == 0 || quantity.LessThanOrEqual(decimal.Zero) {
		return nil, util.ErrInvalidInput
	}
	quantity = quantity.Round(domain.BalancePrecision)
	if quantity.IsZero() {
		return nil, util.ErrInvalidInput
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("buy: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("buy: transaction controller does not implement DBExecutor")
	}

	wallet, err := s.walletRepo.GetWalletByUserIDForUpdate(ctx, txExecutor, userID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrWalletNotFound
		}
		return nil, fmt.Errorf("buy: failed to lock wallet for user %d: %w", userID, err)
	}

	token, err := s.tokenRepo.GetTokenByIDForUpdate(ctx, txExecutor, tokenID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrTokenNotFound
		}
		return nil, fmt.Errorf("buy: failed to lock token %d: %w", tokenID, err)
	}

	// The debit uses the exact price * quantity product; the 4-digit rounding
	// applies only to the recorded trade total, never to the balance.
	totalCost := token.Price.Mul(quantity)
	if wallet.Balance.LessThan(totalCost) {
		return nil, &util.InsufficientFundsError{Required: totalCost.Round(domain.PricePrecision), Available: wallet.Balance}
	}

	// Holding row absent means a prior amount of zero; the first buy of a
	// token creates the row.
	priorAmount := decimal.Zero
	holding, err := s.holdingRepo.GetHoldingForUpdate(ctx, txExecutor, wallet.ID, tokenID)
	if err == nil {
		priorAmount = holding.Amount
	} else if !util.IsError(err, util.ErrNotFound) {
		return nil, fmt.Errorf("buy: failed to lock holding for wallet %d, token %d: %w", wallet.ID, tokenID, err)
	}

	newBalance := wallet.Balance.Sub(totalCost).Round(domain.BalancePrecision)
	newAmount := priorAmount.Add(quantity).Round(domain.BalancePrecision)

	if err := s.walletRepo.SetWalletBalance(ctx, txExecutor, wallet.ID, newBalance); err != nil {
		return nil, fmt.Errorf("buy: failed to debit wallet %d: %w", wallet.ID, err)
	}
	if err := s.holdingRepo.UpsertHolding(ctx, txExecutor, wallet.ID, tokenID, newAmount); err != nil {
		return nil, fmt.Errorf("buy: failed to upsert holding for wallet %d, token %d: %w", wallet.ID, tokenID, err)
	}

	totalValue := totalCost.Round(domain.PricePrecision)
	transaction := domain.NewTransaction(wallet.ID, tokenID, domain.TransactionTypeBuy, quantity, token.Price, totalValue)
	if err := s.transactionRepo.CreateTransaction(ctx, txExecutor, transaction); err != nil {
		return nil, fmt.Errorf("buy: failed to create transaction record: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("buy: failed to commit transaction: %w", err)
	}

	return &TradeResult{
		WalletBalance: newBalance,
		HoldingAmount: &newAmount,
		Transaction: TradeSummary{
			Symbol:     token.Symbol,
			Quantity:   quantity,
			Price:      token.Price,
			TotalValue: totalValue,
		},
	}, nil
}

// Sell executes a market sale of quantity tokens at the current stored price.
// Same lock order as Buy; the holding row is deleted when the sale empties it.
func (s *tradeService) Sell(ctx context.Context, userID, tokenID int64, quantity decimal.Decimal) (*TradeResult, error) {
	if userID == 0 || tokenID == 0 || quantity.LessThanOrEqual(decimal.Zero) {
		return nil, util.ErrInvalidInput
	}
	quantity = quantity.Round(domain.BalancePrecision)
	if quantity.IsZero() {
		return nil, util.ErrInvalidInput
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("sell: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("sell: transaction controller does not implement DBExecutor")
	}

	wallet, err := s.walletRepo.GetWalletByUserIDForUpdate(ctx, txExecutor, userID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrWalletNotFound
		}
		return nil, fmt.Errorf("sell: failed to lock wallet for user %d: %w", userID, err)
	}

	token, err := s.tokenRepo.GetTokenByIDForUpdate(ctx, txExecutor, tokenID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrTokenNotFound
		}
		return nil, fmt.Errorf("sell: failed to lock token %d: %w", tokenID, err)
	}

	holding, err := s.holdingRepo.GetHoldingForUpdate(ctx, txExecutor, wallet.ID, tokenID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrNoSuchHolding
		}
		return nil, fmt.Errorf("sell: failed to lock holding for wallet %d, token %d: %w", wallet.ID, tokenID, err)
	}

	if holding.Amount.LessThan(quantity) {
		return nil, &util.InsufficientHoldingsError{Requested: quantity, Available: holding.Amount}
	}

	// The credit uses the exact price * quantity product, mirroring the buy
	// debit, so a buy/sell round trip at a fixed price conserves value.
	proceeds := token.Price.Mul(quantity)
	newBalance := wallet.Balance.Add(proceeds).Round(domain.BalancePrecision)
	newAmount := holding.Amount.Sub(quantity).Round(domain.BalancePrecision)

	if err := s.walletRepo.SetWalletBalance(ctx, txExecutor, wallet.ID, newBalance); err != nil {
		return nil, fmt.Errorf("sell: failed to credit wallet %d: %w", wallet.ID, err)
	}

	var holdingAmount *decimal.Decimal
	if newAmount.IsZero() {
		// Selling the entire holding removes the row; absent and zero are
		// the same state.
		if err := s.holdingRepo.DeleteHolding(ctx, txExecutor, holding.ID); err != nil {
			return nil, fmt.Errorf("sell: failed to delete emptied holding %d: %w", holding.ID, err)
		}
	} else {
		if err := s.holdingRepo.UpsertHolding(ctx, txExecutor, wallet.ID, tokenID, newAmount); err != nil {
			return nil, fmt.Errorf("sell: failed to update holding for wallet %d, token %d: %w", wallet.ID, tokenID, err)
		}
		holdingAmount = &newAmount
	}

	totalValue := proceeds.Round(domain.PricePrecision)
	transaction := domain.NewTransaction(wallet.ID, tokenID, domain.TransactionTypeSell, quantity, token.Price, totalValue)
	if err := s.transactionRepo.CreateTransaction(ctx, txExecutor, transaction); err != nil {
		return nil, fmt.Errorf("sell: failed to create transaction record: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("sell: failed to commit transaction: %w", err)
	}

	return &TradeResult{
		WalletBalance: newBalance,
		HoldingAmount: holdingAmount,
		Transaction: TradeSummary{
			Symbol:     token.Symbol,
			Quantity:   quantity,
			Price:      token.Price,
			TotalValue: totalValue,
		},
	}, nil
}

// GetPortfolio returns the wallet balance and all holdings valued at current
// prices. No locks are held beyond the read, so a price update committing
// right after may already make the view stale; this is a display query.
func (s *tradeService) GetPortfolio(ctx context.Context, userID int64) (*Portfolio, error) {
	wallet, err := s.walletRepo.GetWalletByUserID(ctx, s.dbExecutor, userID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrWalletNotFound
		}
		return nil, fmt.Errorf("portfolio: failed to get wallet for user %d: %w", userID, err)
	}

	holdings, err := s.holdingRepo.GetPortfolio(ctx, s.dbExecutor, wallet.ID)
	if err != nil {
		return nil, fmt.Errorf("portfolio: failed to fetch holdings for wallet %d: %w", wallet.ID, err)
	}

	return &Portfolio{
		WalletBalance: wallet.Balance,
		Holdings:      holdings,
	}, nil
}

// GetTransactionHistory returns the user's committed trades, newest first.
func (s *tradeService) GetTransactionHistory(ctx context.Context, userID int64) ([]domain.TransactionHistoryEntry, error) {
	_, err := s.walletRepo.GetWalletByUserID(ctx, s.dbExecutor, userID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrWalletNotFound
		}
		return nil, fmt.Errorf("history: failed to check wallet for user %d: %w", userID, err)
	}

	entries, err := s.transactionRepo.GetHistoryByUserID(ctx, s.dbExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("history: failed to fetch transactions for user %d: %w", userID, err)
	}
	return entries, nil
}

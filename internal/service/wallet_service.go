// internal/service/wallet_service.go
package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/shopspring/decimal"

	"tokentrade/internal/domain"
	"tokentrade/internal/repository"
	"tokentrade/internal/util"
	"tokentrade/pkg/db"
)

// WalletDetails is a wallet together with its token balances for display.
type WalletDetails struct {
	Wallet   *domain.Wallet                `json:"wallet"`
	Holdings []repository.PortfolioHolding `json:"holdings"`
}

// WalletService handles wallet lifecycle and cash funding. Wallet creation is
// a one-time setup step per user; deposits fund the cash balance under the
// wallet row lock but are not trades and write no transaction record.
type WalletService interface {
	CreateWallet(ctx context.Context, userID int64) (*domain.Wallet, error)
	GetWallet(ctx context.Context, userID int64) (*WalletDetails, error)
	Deposit(ctx context.Context, userID int64, amount decimal.Decimal) (*domain.Wallet, error)
}

// walletService implements the WalletService interface.
type walletService struct {
	dbBeginner  db.DBTxBeginner
	dbExecutor  repository.DBExecutor
	walletRepo  repository.WalletRepository
	holdingRepo repository.HoldingRepository
	beginTx     db.BeginTxFunc
	commitTx    db.CommitTxFunc
	rollbackTx  db.RollbackTxFunc
}

// NewWalletService creates a new instance of WalletService.
func NewWalletService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	walletRepo repository.WalletRepository,
	holdingRepo repository.HoldingRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) WalletService {
	return &walletService{
		dbBeginner:  dbBeginner,
		dbExecutor:  dbExecutor,
		walletRepo:  walletRepo,
		holdingRepo: holdingRepo,
		beginTx:     beginTx,
		commitTx:    commitTx,
		rollbackTx:  rollbackTx,
	}
}

// generateWalletAddress returns a 0x-prefixed 20-byte hex address.
func generateWalletAddress() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate wallet address: %w", err)
	}
	return "0x" + hex.EncodeToString(buf), nil
}

// CreateWallet creates the user's single wallet with a fresh unique address
// and a zero balance. Fails with ErrWalletExists on a repeat request.
func (s *walletService) CreateWallet(ctx context.Context, userID int64) (*domain.Wallet, error) {
	if userID == 0 {
		return nil, util.ErrInvalidInput
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("create wallet: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("create wallet: transaction controller does not implement DBExecutor")
	}

	_, err = s.walletRepo.GetWalletByUserID(ctx, txExecutor, userID)
	if err == nil {
		return nil, util.ErrWalletExists
	}
	if !util.IsError(err, util.ErrNotFound) {
		return nil, fmt.Errorf("create wallet: failed to check existing wallet: %w", err)
	}

	// Regenerate on the (unlikely) address collision.
	var address string
	for {
		address, err = generateWalletAddress()
		if err != nil {
			return nil, fmt.Errorf("create wallet: %w", err)
		}
		_, err = s.walletRepo.GetWalletByAddress(ctx, txExecutor, address)
		if util.IsError(err, util.ErrNotFound) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("create wallet: failed to check address uniqueness: %w", err)
		}
	}

	wallet := domain.NewWallet(userID, address)
	if err := s.walletRepo.CreateWallet(ctx, txExecutor, wallet); err != nil {
		return nil, fmt.Errorf("create wallet: failed to create wallet: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("create wallet: failed to commit transaction: %w", err)
	}

	return wallet, nil
}

// GetWallet returns the user's wallet and token balances. Unlocked read.
func (s *walletService) GetWallet(ctx context.Context, userID int64) (*WalletDetails, error) {
	wallet, err := s.walletRepo.GetWalletByUserID(ctx, s.dbExecutor, userID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrWalletNotFound
		}
		return nil, fmt.Errorf("get wallet: failed to get wallet for user %d: %w", userID, err)
	}

	holdings, err := s.holdingRepo.GetPortfolio(ctx, s.dbExecutor, wallet.ID)
	if err != nil {
		return nil, fmt.Errorf("get wallet: failed to fetch holdings for wallet %d: %w", wallet.ID, err)
	}

	return &WalletDetails{Wallet: wallet, Holdings: holdings}, nil
}

// Deposit adds cash to the user's wallet balance under the wallet row lock.
func (s *walletService) Deposit(ctx context.Context, userID int64, amount decimal.Decimal) (*domain.Wallet, error) {
	if userID == 0 || amount.LessThanOrEqual(decimal.Zero) {
		return nil, util.ErrInvalidInput
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("deposit: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("deposit: transaction controller does not implement DBExecutor")
	}

	wallet, err := s.walletRepo.GetWalletByUserIDForUpdate(ctx, txExecutor, userID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrWalletNotFound
		}
		return nil, fmt.Errorf("deposit: failed to lock wallet for user %d: %w", userID, err)
	}

	newBalance := wallet.Balance.Add(amount).Round(domain.BalancePrecision)
	if err := s.walletRepo.SetWalletBalance(ctx, txExecutor, wallet.ID, newBalance); err != nil {
		return nil, fmt.Errorf("deposit: failed to update balance for wallet %d: %w", wallet.ID, err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("deposit: failed to commit transaction: %w", err)
	}

	wallet.Balance = newBalance
	return wallet, nil
}

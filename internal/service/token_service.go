// internal/service/token_service.go
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

// PriceUpdate is the committed outcome of a price-update operation.
type PriceUpdate struct {
	Token    *domain.Token   `json:"token"`
	OldPrice decimal.Decimal `json:"old_price"`
	NewPrice decimal.Decimal `json:"new_price"`
}

// TokenService is the pricing oracle: it owns each token's current price.
// UpdatePrice takes only the token row lock and therefore cannot deadlock
// against the settlement engine's wallet -> token -> holding order.
type TokenService interface {
	ListTokens(ctx context.Context) ([]domain.Token, error)
	GetTokenSummary(ctx context.Context) ([]repository.TokenSummary, error)
	UpdatePrice(ctx context.Context, tokenID, actingUserID int64) (*PriceUpdate, error)
}

// tokenService implements the TokenService interface.
type tokenService struct {
	dbBeginner db.DBTxBeginner
	dbExecutor repository.DBExecutor
	tokenRepo  repository.TokenRepository
	auditRepo  repository.AuditRepository
	priceModel PriceModel
	beginTx    db.BeginTxFunc
	commitTx   db.CommitTxFunc
	rollbackTx db.RollbackTxFunc
}

// NewTokenService creates a new instance of TokenService.
func NewTokenService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	tokenRepo repository.TokenRepository,
	auditRepo repository.AuditRepository,
	priceModel PriceModel,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) TokenService {
	return &tokenService{
		dbBeginner: dbBeginner,
		dbExecutor: dbExecutor,
		tokenRepo:  tokenRepo,
		auditRepo:  auditRepo,
		priceModel: priceModel,
		beginTx:    beginTx,
		commitTx:   commitTx,
		rollbackTx: rollbackTx,
	}
}

// ListTokens returns all tokens ordered by symbol. Unlocked read.
func (s *tokenService) ListTokens(ctx context.Context) ([]domain.Token, error) {
	tokens, err := s.tokenRepo.ListTokens(ctx, s.dbExecutor)
	if err != nil {
		return nil, fmt.Errorf("list tokens: %w", err)
	}
	return tokens, nil
}

// GetTokenSummary returns the aggregate held amount and distinct holder count
// per token, most held first. Unlocked read.
func (s *tokenService) GetTokenSummary(ctx context.Context) ([]repository.TokenSummary, error) {
	summary, err := s.tokenRepo.GetTokenSummary(ctx, s.dbExecutor)
	if err != nil {
		return nil, fmt.Errorf("token summary: %w", err)
	}
	return summary, nil
}

// UpdatePrice locks the token row, computes a new price via the configured
// price model, writes it, and appends an audit entry in the same scope.
func (s *tokenService) UpdatePrice(ctx context.Context, tokenID, actingUserID int64) (*PriceUpdate, error) {
	if tokenID == 0 || actingUserID == 0 {
		return nil, util.ErrInvalidInput
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("update price: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("update price: transaction controller does not implement DBExecutor")
	}

	token, err := s.tokenRepo.GetTokenByIDForUpdate(ctx, txExecutor, tokenID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrTokenNotFound
		}
		return nil, fmt.Errorf("update price: failed to lock token %d: %w", tokenID, err)
	}

	oldPrice := token.Price
	newPrice := s.priceModel.NextPrice(oldPrice)

	if err := s.tokenRepo.SetTokenPrice(ctx, txExecutor, tokenID, newPrice); err != nil {
		return nil, fmt.Errorf("update price: failed to write price for token %d: %w", tokenID, err)
	}

	message := fmt.Sprintf("Token %s (%s): price updated from %s to %s",
		token.Symbol, token.Name, oldPrice, newPrice)
	entry := domain.NewAuditEntry(actingUserID, message)
	if err := s.auditRepo.CreateAuditEntry(ctx, txExecutor, entry); err != nil {
		return nil, fmt.Errorf("update price: failed to append audit entry: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("update price: failed to commit transaction: %w", err)
	}

	token.Price = newPrice
	return &PriceUpdate{
		Token:    token,
		OldPrice: oldPrice,
		NewPrice: newPrice,
	}, nil
}

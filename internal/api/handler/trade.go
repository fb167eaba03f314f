// internal/api/handler/trade.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"tokentrade/internal/api/middleware"
	"tokentrade/internal/service"
	"tokentrade/internal/util"
)

// TradeHandler handles HTTP requests for the trade settlement engine.
type TradeHandler struct {
	service service.TradeService
	logger  *slog.Logger
}

// NewTradeHandler creates a new TradeHandler.
func NewTradeHandler(svc service.TradeService, logger *slog.Logger) *TradeHandler {
	return &TradeHandler{
		service: svc,
		logger:  logger,
	}
}

// TradeRequest represents the request body for buy and sell. Quantity is an
// exact decimal string, never binary floating point.
type TradeRequest struct {
	TokenID  int64           `json:"token_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

// Buy handles the token purchase request.
// POST /trade/buy
func (h *TradeHandler) Buy(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondWithError(h.logger, w, util.ErrUnauthorized)
		return
	}

	var req TradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}
	if req.TokenID == 0 || req.Quantity.IsNegative() || req.Quantity.IsZero() {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	result, err := h.service.Buy(r.Context(), userID, req.TokenID, req.Quantity)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"message":        "Token purchase successful",
		"wallet_balance": result.WalletBalance,
		"holding_amount": result.HoldingAmount,
		"transaction": map[string]interface{}{
			"symbol":     result.Transaction.Symbol,
			"quantity":   result.Transaction.Quantity,
			"price":      result.Transaction.Price,
			"total_cost": result.Transaction.TotalValue,
		},
	})
}

// Sell handles the token sale request.
// POST /trade/sell
func (h *TradeHandler) Sell(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondWithError(h.logger, w, util.ErrUnauthorized)
		return
	}

	var req TradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}
	if req.TokenID == 0 || req.Quantity.IsNegative() || req.Quantity.IsZero() {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	result, err := h.service.Sell(r.Context(), userID, req.TokenID, req.Quantity)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"message":        "Token sale successful",
		"wallet_balance": result.WalletBalance,
		"holding_amount": result.HoldingAmount,
		"transaction": map[string]interface{}{
			"symbol":   result.Transaction.Symbol,
			"quantity": result.Transaction.Quantity,
			"price":    result.Transaction.Price,
			"proceeds": result.Transaction.TotalValue,
		},
	})
}

// GetPortfolio handles the portfolio display request.
// GET /trade/portfolio
func (h *TradeHandler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondWithError(h.logger, w, util.ErrUnauthorized)
		return
	}

	portfolio, err := h.service.GetPortfolio(r.Context(), userID)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"wallet_balance": portfolio.WalletBalance,
		"holdings":       portfolio.Holdings,
	})
}

// GetTransactionHistory handles the trade history request.
// GET /transactions
func (h *TradeHandler) GetTransactionHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondWithError(h.logger, w, util.ErrUnauthorized)
		return
	}

	entries, err := h.service.GetTransactionHistory(r.Context(), userID)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"transactions": entries,
	})
}

// internal/api/handler/token.go
package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"tokentrade/internal/api/middleware"
	"tokentrade/internal/service"
	"tokentrade/internal/util"
)

// TokenHandler handles HTTP requests related to tokens and prices.
type TokenHandler struct {
	service service.TokenService
	logger  *slog.Logger
}

// NewTokenHandler creates a new TokenHandler.
func NewTokenHandler(svc service.TokenService, logger *slog.Logger) *TokenHandler {
	return &TokenHandler{
		service: svc,
		logger:  logger,
	}
}

// ListTokens handles the token listing request.
// GET /tokens
func (h *TokenHandler) ListTokens(w http.ResponseWriter, r *http.Request) {
	tokens, err := h.service.ListTokens(r.Context())
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"tokens": tokens,
	})
}

// GetTokenSummary handles the aggregate token holdings request.
// GET /tokens/summary
func (h *TokenHandler) GetTokenSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.GetTokenSummary(r.Context())
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"summary": summary,
	})
}

// UpdatePrice handles the price update request.
// PUT /tokens/{tokenID}/price
func (h *TokenHandler) UpdatePrice(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondWithError(h.logger, w, util.ErrUnauthorized)
		return
	}

	tokenIDStr := chi.URLParam(r, "tokenID")
	tokenID, err := strconv.ParseInt(tokenIDStr, 10, 64)
	if err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	update, err := h.service.UpdatePrice(r.Context(), tokenID, userID)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"message":   "Token price updated successfully",
		"token":     update.Token,
		"old_price": update.OldPrice,
		"new_price": update.NewPrice,
	})
}

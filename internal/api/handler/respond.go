// internal/api/handler/respond.go
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"tokentrade/internal/util"
)

// DefaultTimeout bounds every request; a unit of work either commits or rolls
// back within it, releasing its row locks.
const DefaultTimeout = 60 * time.Second

// respondWithJSON sends a JSON response.
func respondWithJSON(logger *slog.Logger, w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondWithError maps service errors to HTTP status codes. Business
// rejections and resolution failures surface their own messages; anything
// unrecognized is a store failure, reported generically (details logged) and
// safe for the caller to retry in full since no partial effects survive a
// rollback.
func respondWithError(logger *slog.Logger, w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	message := "operation failed"

	var fundsErr *util.InsufficientFundsError
	var holdingsErr *util.InsufficientHoldingsError

	switch {
	case util.IsError(err, util.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case util.IsError(err, util.ErrNotFound),
		util.IsError(err, util.ErrWalletNotFound),
		util.IsError(err, util.ErrTokenNotFound):
		statusCode = http.StatusNotFound
		message = err.Error()
	case errors.As(err, &fundsErr):
		respondWithJSON(logger, w, http.StatusPaymentRequired, map[string]interface{}{
			"error":     "insufficient funds",
			"required":  fundsErr.Required,
			"available": fundsErr.Available,
		})
		return
	case errors.As(err, &holdingsErr):
		respondWithJSON(logger, w, http.StatusBadRequest, map[string]interface{}{
			"error":     "insufficient token holdings",
			"requested": holdingsErr.Requested,
			"available": holdingsErr.Available,
		})
		return
	case util.IsError(err, util.ErrNoSuchHolding):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case util.IsError(err, util.ErrWalletExists), util.IsError(err, util.ErrDuplicateEmail):
		statusCode = http.StatusConflict
		message = err.Error()
	case util.IsError(err, util.ErrInvalidCredentials), util.IsError(err, util.ErrUnauthorized):
		statusCode = http.StatusUnauthorized
		message = err.Error()
	default:
		logger.Error("Unhandled service error", "error", err)
	}

	respondWithJSON(logger, w, statusCode, map[string]string{"error": message})
}

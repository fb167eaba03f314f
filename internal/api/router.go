// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"tokentrade/internal/api/handler"
	"tokentrade/internal/api/middleware"
	"tokentrade/internal/service"
)

// NewRouter sets up and returns a new HTTP router.
func NewRouter(
	authHandler *handler.AuthHandler,
	walletHandler *handler.WalletHandler,
	tokenHandler *handler.TokenHandler,
	tradeHandler *handler.TradeHandler,
	authService service.AuthService,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(handler.DefaultTimeout))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Public routes
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.Signup)
		r.Post("/login", authHandler.Login)
	})

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticator(authService))

		r.Route("/wallets", func(r chi.Router) {
			r.Post("/", walletHandler.CreateWallet)
			r.Get("/", walletHandler.GetWallet)
			r.Post("/deposit", walletHandler.Deposit)
		})

		r.Route("/tokens", func(r chi.Router) {
			r.Get("/", tokenHandler.ListTokens)
			r.Get("/summary", tokenHandler.GetTokenSummary)
			r.Put("/{tokenID}/price", tokenHandler.UpdatePrice)
		})

		r.Route("/trade", func(r chi.Router) {
			r.Post("/buy", tradeHandler.Buy)
			r.Post("/sell", tradeHandler.Sell)
			r.Get("/portfolio", tradeHandler.GetPortfolio)
		})

		r.Get("/transactions", tradeHandler.GetTransactionHistory)
	})

	return r
}

// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	router "tokentrade/internal/api"
	"tokentrade/internal/api/handler"
	"tokentrade/internal/config"
	"tokentrade/internal/repository"
	"tokentrade/internal/repository/postgres"
	"tokentrade/internal/service"
	"tokentrade/internal/util"
	"tokentrade/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB

	// Repositories
	UserRepository        repository.UserRepository
	WalletRepository      repository.WalletRepository
	TokenRepository       repository.TokenRepository
	HoldingRepository     repository.HoldingRepository
	TransactionRepository repository.TransactionRepository
	AuditRepository       repository.AuditRepository

	// Services
	AuthService   service.AuthService
	WalletService service.WalletService
	TokenService  service.TokenService
	TradeService  service.TradeService

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg

	// 2. Initialize Logger
	util.InitLogger()
	app.Logger = util.GetLogger()
	app.Logger.Info("Application configuration loaded successfully.")

	// 3. Connect to Database
	database, err := db.NewPostgresDB(app.Config.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	app.Logger.Info("Database connection established.")

	// 4. Initialize Repositories
	app.UserRepository = postgres.NewUserRepository(app.DB)
	app.WalletRepository = postgres.NewWalletRepository(app.DB)
	app.TokenRepository = postgres.NewTokenRepository(app.DB)
	app.HoldingRepository = postgres.NewHoldingRepository(app.DB)
	app.TransactionRepository = postgres.NewTransactionRepository(app.DB)
	app.AuditRepository = postgres.NewAuditRepository(app.DB)
	app.Logger.Info("Repositories initialized.")

	// 5. Initialize Services
	app.AuthService = service.NewAuthService(
		app.DB,
		app.DB,
		app.UserRepository,
		[]byte(app.Config.JWTSecret),
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.WalletService = service.NewWalletService(
		app.DB,
		app.DB,
		app.WalletRepository,
		app.HoldingRepository,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.TokenService = service.NewTokenService(
		app.DB,
		app.DB,
		app.TokenRepository,
		app.AuditRepository,
		service.NewRandomWalkModel(),
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.TradeService = service.NewTradeService(
		app.DB,
		app.DB,
		app.WalletRepository,
		app.TokenRepository,
		app.HoldingRepository,
		app.TransactionRepository,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.Logger.Info("Services initialized.")

	// 6. Initialize HTTP Handlers and Router
	authHandler := handler.NewAuthHandler(app.AuthService, app.Logger)
	walletHandler := handler.NewWalletHandler(app.WalletService, app.Logger)
	tokenHandler := handler.NewTokenHandler(app.TokenService, app.Logger)
	tradeHandler := handler.NewTradeHandler(app.TradeService, app.Logger)
	app.HTTPHandler = router.NewRouter(authHandler, walletHandler, tokenHandler, tradeHandler, app.AuthService, app.Logger)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", "error", err)
			return fmt.Errorf("failed to close database connection: %w", err)
		}
		app.Logger.Info("Database connection closed.")
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}

package main

import (
	"context"
	"strconv"

	"github.com/sirupsen/logrus"

	"budgetwise/internal/domain/budget"
	"budgetwise/internal/domain/copilot"
	"budgetwise/internal/domain/transaction"
	"budgetwise/internal/infrastructure/gemini"
	"budgetwise/internal/infrastructure/mailer"
	"budgetwise/internal/infrastructure/postgres"
	httphandlers "budgetwise/internal/interfaces/http"
	"budgetwise/internal/shared/auth"
	"budgetwise/internal/shared/config"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB     *postgres.DB
	Gemini *gemini.Client

	// Handlers
	AuthHandler        *httphandlers.AuthHandler
	BudgetHandler      *httphandlers.BudgetHandler
	TransactionHandler *httphandlers.TransactionHandler
	ChatHandler        *httphandlers.ChatHandler

	// Auth
	JWT *auth.JWT

	// For the scheduler job provider
	UserRepo      *postgres.UserRepository
	BudgetService *budget.Service
}

// NewDependencies initializes all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Dependencies, error) {
	// Connect to database
	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}
	logger.Info("Connected to database")

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	budgetRepo := postgres.NewBudgetRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)

	// Initialize domain services
	budgetService := budget.NewService(budgetRepo, logger)
	transactionService := transaction.NewService(transactionRepo, budgetRepo, logger)

	// Initialize the co-pilot
	geminiClient, err := gemini.NewClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		db.Close()
		return nil, err
	}
	orchestrator := copilot.NewOrchestrator(geminiClient, logger)

	// Initialize auth components
	jwt := auth.NewJWT(cfg.JWT.Secret, cfg.JWT.TTL)

	// Initialize handlers
	authHandler := httphandlers.NewAuthHandler(userRepo, budgetService, jwt, logger)

	if cfg.OAuth.Google.ClientID != "" {
		authHandler.SetOAuthProvider(auth.NewGoogleOAuthProvider(
			cfg.OAuth.Google.ClientID,
			cfg.OAuth.Google.ClientSecret,
			cfg.OAuth.Google.CallbackURL,
		))
	}
	if cfg.SMTP.OTPEnabled {
		authHandler.SetOTPSender(mailer.New(
			cfg.SMTP.Host, strconv.Itoa(cfg.SMTP.Port), cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From,
			logger,
		))
	}

	budgetHandler := httphandlers.NewBudgetHandler(budgetService, logger)
	transactionHandler := httphandlers.NewTransactionHandler(transactionService, logger)
	chatHandler := httphandlers.NewChatHandler(orchestrator, budgetService, transactionService, logger)

	return &Dependencies{
		DB:                 db,
		Gemini:             geminiClient,
		AuthHandler:        authHandler,
		BudgetHandler:      budgetHandler,
		TransactionHandler: transactionHandler,
		ChatHandler:        chatHandler,
		JWT:                jwt,
		UserRepo:           userRepo,
		BudgetService:      budgetService,
	}, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.Gemini != nil {
		d.Gemini.Close()
	}
	if d.DB != nil {
		d.DB.Close()
	}
}

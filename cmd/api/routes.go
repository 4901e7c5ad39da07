package main

import (
	"net/http"

	"github.com/sirupsen/logrus"

	httphandlers "budgetwise/internal/interfaces/http"
	"budgetwise/internal/shared/config"
	"budgetwise/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, cfg *config.Config, logger *logrus.Logger) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", httphandlers.HandleHealth)

	// Public auth routes
	mux.HandleFunc("/api/auth/register", deps.AuthHandler.HandleRegister)
	mux.HandleFunc("/api/auth/login", deps.AuthHandler.HandleLogin)
	mux.HandleFunc("/api/auth/logout", deps.AuthHandler.HandleLogout)
	mux.HandleFunc("/api/auth/otp/request", deps.AuthHandler.HandleOTPRequest)
	mux.HandleFunc("/api/auth/otp/verify", deps.AuthHandler.HandleOTPVerify)
	mux.HandleFunc("/api/auth/google", deps.AuthHandler.HandleGoogleAuth)
	mux.HandleFunc("/api/auth/google/callback", deps.AuthHandler.HandleGoogleCallback)

	// Protected routes
	authMiddleware := middleware.Auth(deps.JWT)

	mux.Handle("/api/users/me", authMiddleware(http.HandlerFunc(deps.AuthHandler.HandleMe)))
	mux.Handle("/api/budgets", authMiddleware(http.HandlerFunc(deps.BudgetHandler.HandleBudgets)))
	mux.Handle("/api/budgets/recompute", authMiddleware(http.HandlerFunc(deps.BudgetHandler.HandleRecompute)))
	mux.Handle("/api/budgets/{id}", authMiddleware(http.HandlerFunc(deps.BudgetHandler.HandleBudgetByID)))
	mux.Handle("/api/transactions", authMiddleware(http.HandlerFunc(deps.TransactionHandler.HandleTransactions)))
	mux.Handle("/api/transactions/{id}", authMiddleware(http.HandlerFunc(deps.TransactionHandler.HandleTransactionByID)))
	mux.Handle("/api/chat", authMiddleware(http.HandlerFunc(deps.ChatHandler.HandleChat)))

	// Apply global middleware
	return middleware.Logging(logger)(middleware.Tracing(middleware.CORS(cfg.Server.AllowedOrigin)(mux)))
}

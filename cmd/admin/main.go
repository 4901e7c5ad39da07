package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"budgetwise/internal/domain/budget"
	"budgetwise/internal/infrastructure/postgres"
	"budgetwise/internal/shared/config"
	"budgetwise/internal/shared/logging"
)

const usage = `BudgetWise Admin CLI - Management commands for the BudgetWise API

Usage:
  admin <command> [options]

Commands:
  recompute-spent    Rebuild cached spent totals from transactions
  seed-categories    Create the default budget categories for users

Examples:
  # Recompute spent totals for a specific user
  admin recompute-spent --user-id=1

  # Recompute for multiple users
  admin recompute-spent --user-id=1,2,3

  # Recompute for all users
  admin recompute-spent --all

  # Seed default categories for a user
  admin seed-categories --user-id=1

  # Run with a timeout
  admin recompute-spent --all --timeout=5m`

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	switch command := os.Args[1]; command {
	case "recompute-spent":
		runRecomputeSpent(os.Args[2:])
	case "seed-categories":
		runSeedCategories(os.Args[2:])
	case "help", "-h", "--help":
		fmt.Println(usage)
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		fmt.Println(usage)
		os.Exit(1)
	}
}

func runRecomputeSpent(args []string) {
	fs := flag.NewFlagSet("recompute-spent", flag.ExitOnError)
	userIDStr := fs.String("user-id", "", "User ID(s) to recompute (comma-separated for multiple)")
	allUsers := fs.Bool("all", false, "Recompute for all users")
	timeoutStr := fs.String("timeout", "30m", "Timeout for the operation (e.g., 5m, 1h)")
	fs.Parse(args)

	ctx, cancel, svc, userRepo, cleanup := connect(*timeoutStr)
	defer cancel()
	defer cleanup()

	userIDs := resolveUsers(ctx, *userIDStr, *allUsers, userRepo)

	for _, id := range userIDs {
		if err := svc.RecomputeSpent(ctx, id); err != nil {
			log.Printf("User %d: recompute failed: %v", id, err)
			continue
		}
		fmt.Printf("User %d: spent totals recomputed\n", id)
	}
}

func runSeedCategories(args []string) {
	fs := flag.NewFlagSet("seed-categories", flag.ExitOnError)
	userIDStr := fs.String("user-id", "", "User ID(s) to seed (comma-separated for multiple)")
	allUsers := fs.Bool("all", false, "Seed for all users")
	timeoutStr := fs.String("timeout", "30m", "Timeout for the operation (e.g., 5m, 1h)")
	fs.Parse(args)

	ctx, cancel, svc, userRepo, cleanup := connect(*timeoutStr)
	defer cancel()
	defer cleanup()

	userIDs := resolveUsers(ctx, *userIDStr, *allUsers, userRepo)

	for _, id := range userIDs {
		if err := svc.SeedDefaults(ctx, id); err != nil {
			log.Printf("User %d: seeding failed: %v", id, err)
			continue
		}
		fmt.Printf("User %d: default categories seeded\n", id)
	}
}

func connect(timeoutStr string) (context.Context, context.CancelFunc, *budget.Service, *postgres.UserRepository, func()) {
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		log.Fatalf("Invalid timeout: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	svc := budget.NewService(postgres.NewBudgetRepository(db), logger)
	return ctx, cancel, svc, postgres.NewUserRepository(db), func() { db.Close() }
}

func resolveUsers(ctx context.Context, userIDStr string, allUsers bool, userRepo *postgres.UserRepository) []int64 {
	if allUsers {
		ids, err := userRepo.ListIDs(ctx)
		if err != nil {
			log.Fatalf("Failed to list users: %v", err)
		}
		return ids
	}

	if userIDStr == "" {
		log.Fatal("Either --user-id or --all is required")
	}

	var ids []int64
	for _, part := range strings.Split(userIDStr, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			log.Fatalf("Invalid user ID %q: %v", part, err)
		}
		ids = append(ids, id)
	}
	return ids
}

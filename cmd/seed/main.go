package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"expensetracker/internal/auth"
	"expensetracker/internal/config"
	"expensetracker/internal/db"
	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/logging"
	"expensetracker/internal/model"
	"expensetracker/internal/repository"
	"expensetracker/internal/service"
)

// seedOptions describes the demo account.
type seedOptions struct {
	Name     string `env:"SEED_NAME" envDefault:"Demo User"`
	Email    string `env:"SEED_EMAIL" envDefault:"demo@example.com"`
	Password string `env:"SEED_PASSWORD" envDefault:"demo12345"`
}

var sampleExpenses = []model.ExpenseInput{
	{Title: "Coffee", Amount: decimal.RequireFromString("4.50"), Category: "Food"},
	{Title: "Groceries", Amount: decimal.RequireFromString("62.30"), Category: "Food"},
	{Title: "Metro card", Amount: decimal.RequireFromString("25.00"), Category: "Transport"},
	{Title: "Electricity bill", Amount: decimal.RequireFromString("48.75"), Category: "Utilities"},
	{Title: "Cinema", Amount: decimal.RequireFromString("12.00"), Category: "Entertainment"},
}

func main() {
	if err := run(); err != nil {
		logrus.WithError(err).Fatal("seed failed")
	}
}

func run() (err error) {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logging.New(cfg.IsProduction(), cfg.LogLevel)

	opts, err := env.ParseAs[seedOptions]()
	if err != nil {
		return fmt.Errorf("parse seed options: %w", err)
	}

	gormDB, err := db.Open(cfg, log)
	if err != nil {
		return fmt.Errorf("database init: %w", err)
	}
	defer func() {
		if closeErr := db.Close(gormDB); closeErr != nil {
			log.WithError(closeErr).Warn("close database")
			if err == nil {
				err = fmt.Errorf("close database: %w", closeErr)
			}
		}
	}()
	log.Info("connected to database")

	if err := db.Migrate(gormDB, false); err != nil {
		return err
	}

	jwtService, err := auth.NewJWTService(cfg.JWTSecret)
	if err != nil {
		return fmt.Errorf("jwt init: %w", err)
	}

	authService := service.NewAuthService(repository.NewUserRepository(gormDB, cfg.DBQueryTimeout), jwtService, nil)
	expenseService := service.NewExpenseService(repository.NewExpenseRepository(gormDB, cfg.DBQueryTimeout))

	added, err := seed(context.Background(), authService, expenseService, opts)
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"email":          service.NormalizeEmail(opts.Email),
		"expenses_added": added,
	}).Info("seed completed")
	return nil
}

// seed makes sure the demo account exists and owns the sample expenses.
// Expenses are only added to an account that has none, so reruns are harmless.
func seed(ctx context.Context, authService service.AuthService, expenseService service.ExpenseService, opts seedOptions) (int, error) {
	result, err := authService.Register(ctx, opts.Name, opts.Email, opts.Password)
	if errors.Is(err, apperrors.ErrEmailTaken) {
		result, err = authService.Login(ctx, opts.Email, opts.Password)
	}
	if err != nil {
		return 0, fmt.Errorf("demo account: %w", err)
	}

	ownerID := result.User.ID
	existing, err := expenseService.ListByOwner(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("list expenses: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	for i, input := range sampleExpenses {
		if _, err := expenseService.Add(ctx, ownerID, input); err != nil {
			return i, fmt.Errorf("add %q: %w", input.Title, err)
		}
	}
	return len(sampleExpenses), nil
}

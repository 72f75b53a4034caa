package main

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vkdrn/bank-rest-api/src/internal/adapter/repository/repo_interfaces"
	"github.com/vkdrn/bank-rest-api/src/internal/domain"
	"github.com/vkdrn/bank-rest-api/src/internal/logger"
)

var demoAccounts = []struct {
	email   string
	balance string
}{
	{"john@john.com", "10.10"},
	{"tom@tom.com", "20.20"},
	{"matt@matt.com", "30.30"},
}

// seedDemoAccounts creates the demo accounts, but only into an empty store.
func seedDemoAccounts(ctx context.Context, accounts repo_interfaces.AccountRepository, appLog *logger.Logger) error {
	existing, err := accounts.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("seed: list accounts: %w", err)
	}
	if len(existing) > 0 {
		appLog.Info(ctx, "seed skipped, store not empty", logger.Fields{"accounts": len(existing)})
		return nil
	}

	for _, demo := range demoAccounts {
		created, err := accounts.Create(ctx, domain.Account{
			Email:   demo.email,
			Balance: decimal.RequireFromString(demo.balance),
		})
		if err != nil {
			return fmt.Errorf("seed %s: %w", demo.email, err)
		}
		appLog.Info(ctx, "seeded demo account", logger.Fields{"accountId": created.ID})
	}
	return nil
}

package repo_interfaces

import (
	"context"

	"github.com/vkdrn/bank-rest-api/src/internal/domain"
)

// AccountRepository is the CRUD surface of the account store. Every call runs in its own transaction.
type AccountRepository interface {
	Create(ctx context.Context, account domain.Account) (domain.Account, error)
	FindActiveByID(ctx context.Context, id int64) (domain.Account, error)
	FindAll(ctx context.Context) ([]domain.Account, error)
	Update(ctx context.Context, account domain.Account) (domain.Account, error)
	Deactivate(ctx context.Context, id int64) error
}

// AccountTxRepository operates on accounts inside an open Tx.
type AccountTxRepository interface {
	// LockAndFetch returns the active account and holds its row lock until the Tx ends.
	LockAndFetch(ctx context.Context, id int64) (domain.Account, error)
	// Persist writes the balance back, conditional on the version read by LockAndFetch.
	Persist(ctx context.Context, account domain.Account) error
}

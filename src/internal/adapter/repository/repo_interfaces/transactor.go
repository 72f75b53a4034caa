package repo_interfaces

import "context"

type Transactor interface {
	Begin(ctx context.Context) (Tx, error)
}

// Tx is a unit of work. Commit and Rollback are each terminal; Rollback after Commit is a no-op.
type Tx interface {
	Accounts() AccountTxRepository
	Transfers() TransferTxRepository
	Commit() error
	Rollback() error
}

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

package implementations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vkdrn/bank-rest-api/src/internal/adapter/repository/repo_interfaces"
	"github.com/vkdrn/bank-rest-api/src/internal/logger"
)

// Transactor opens READ COMMITTED transactions whose lock waits are bounded by lockTimeout.
type Transactor struct {
	db          *sql.DB
	lockTimeout time.Duration
	log         *logger.Logger
}

func NewTransactor(db *sql.DB, lockTimeout time.Duration, log *logger.Logger) *Transactor {
	return &Transactor{db: db, lockTimeout: lockTimeout, log: log.Named("postgres_transactor")}
}

func (t *Transactor) Begin(ctx context.Context) (repo_interfaces.Tx, error) {
	tx, err := beginWithLockTimeout(ctx, t.db, t.lockTimeout)
	if err != nil {
		t.log.Error(ctx, "postgres transactor begin failed", err, nil)
		return nil, err
	}

	return &pgTx{
		tx:        tx,
		accounts:  &accountTx{tx: tx},
		transfers: &transferTx{tx: tx},
	}, nil
}

func (t *Transactor) Ping(ctx context.Context) error {
	return t.db.PingContext(ctx)
}

func beginWithLockTimeout(ctx context.Context, db *sql.DB, lockTimeout time.Duration) (*sql.Tx, error) {
	tx, err := db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", classify(err))
	}

	if lockTimeout > 0 {
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", lockTimeout.Milliseconds())
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return nil, fmt.Errorf("set lock timeout: %w", classify(err))
		}
	}

	return tx, nil
}

type pgTx struct {
	tx        *sql.Tx
	accounts  *accountTx
	transfers *transferTx
}

func (t *pgTx) Accounts() repo_interfaces.AccountTxRepository {
	return t.accounts
}

func (t *pgTx) Transfers() repo_interfaces.TransferTxRepository {
	return t.transfers
}

func (t *pgTx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", classify(err))
	}
	return nil
}

func (t *pgTx) Rollback() error {
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("rollback transaction: %w", err)
	}
	return nil
}

package implementations

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vkdrn/bank-rest-api/src/internal/domain"
	"github.com/vkdrn/bank-rest-api/src/internal/logger"
)

const accountColumns = `id, email, balance, active, version, created_at, updated_at`

type AccountRepository struct {
	db          *sql.DB
	lockTimeout time.Duration
	log         *logger.Logger
}

func NewAccountRepository(db *sql.DB, lockTimeout time.Duration, log *logger.Logger) *AccountRepository {
	return &AccountRepository{db: db, lockTimeout: lockTimeout, log: log.Named("postgres_accounts")}
}

func (r *AccountRepository) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	const query = `
INSERT INTO accounts (email, balance)
VALUES ($1, $2)
RETURNING ` + accountColumns

	created, err := scanAccount(r.db.QueryRowContext(ctx, query, account.Email, account.Balance))
	if err != nil {
		r.log.Error(ctx, "account repository create failed", err, nil)
		return domain.Account{}, fmt.Errorf("create account: %w", err)
	}

	r.log.Debug(ctx, "account repository create success", logger.Fields{"accountId": created.ID})
	return created, nil
}

func (r *AccountRepository) FindActiveByID(ctx context.Context, id int64) (domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 AND active`

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return domain.Account{}, domain.NewAccountNotFound()
		}
		return domain.Account{}, fmt.Errorf("get account: %w", err)
	}
	return account, nil
}

func (r *AccountRepository) FindAll(ctx context.Context) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE active ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]domain.Account, 0)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}
	return accounts, nil
}

// Update replaces email and balance. The UPDATE takes the row lock, so it queues behind in-flight transfers.
func (r *AccountRepository) Update(ctx context.Context, account domain.Account) (updated domain.Account, err error) {
	tx, err := beginWithLockTimeout(ctx, r.db, r.lockTimeout)
	if err != nil {
		return domain.Account{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `
UPDATE accounts
SET email = $2,
    balance = $3,
    version = version + 1,
    updated_at = NOW()
WHERE id = $1
  AND active
RETURNING ` + accountColumns

	updated, err = scanAccount(tx.QueryRowContext(ctx, query, account.ID, account.Email, account.Balance))
	if err != nil {
		if isNoRows(err) {
			return domain.Account{}, domain.NewAccountNotFound()
		}
		return domain.Account{}, fmt.Errorf("update account: %w", classify(err))
	}

	if err = tx.Commit(); err != nil {
		return domain.Account{}, fmt.Errorf("commit account update: %w", classify(err))
	}
	return updated, nil
}

func (r *AccountRepository) Deactivate(ctx context.Context, id int64) (err error) {
	tx, err := beginWithLockTimeout(ctx, r.db, r.lockTimeout)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `
UPDATE accounts
SET active = FALSE,
    version = version + 1,
    updated_at = NOW()
WHERE id = $1
  AND active`
	if err = execRequiredRows(ctx, tx, domain.NewAccountNotFound(), query, id); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit account deactivation: %w", classify(err))
	}
	return nil
}

type accountTx struct {
	tx *sql.Tx
}

func (a *accountTx) LockAndFetch(ctx context.Context, id int64) (domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 AND active FOR UPDATE`

	account, err := scanAccount(a.tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return domain.Account{}, domain.NewAccountNotFound()
		}
		return domain.Account{}, fmt.Errorf("lock account: %w", classify(err))
	}
	return account, nil
}

func (a *accountTx) Persist(ctx context.Context, account domain.Account) error {
	const query = `
UPDATE accounts
SET balance = $3,
    version = version + 1,
    updated_at = NOW()
WHERE id = $1
  AND version = $2
  AND active`

	return execRequiredRows(ctx, a.tx, domain.NewConcurrentModification("", nil), query, account.ID, account.Version, account.Balance)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (domain.Account, error) {
	var account domain.Account
	if err := row.Scan(
		&account.ID,
		&account.Email,
		&account.Balance,
		&account.Active,
		&account.Version,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		return domain.Account{}, err
	}
	account.CreatedAt = account.CreatedAt.UTC()
	account.UpdatedAt = account.UpdatedAt.UTC()
	return account, nil
}

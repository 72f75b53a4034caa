package implementations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vkdrn/bank-rest-api/src/internal/domain"
)

const transferColumns = `id, source_account_id, target_account_id, amount, transaction_time`

type TransferRepository struct {
	db *sql.DB
}

func NewTransferRepository(db *sql.DB) *TransferRepository {
	return &TransferRepository{db: db}
}

func (r *TransferRepository) FindAll(ctx context.Context) ([]domain.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transactions ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	transfers := make([]domain.Transfer, 0)
	for rows.Next() {
		var t domain.Transfer
		if err := rows.Scan(&t.ID, &t.SourceID, &t.TargetID, &t.Amount, &t.TransactionTime); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.TransactionTime = t.TransactionTime.UTC()
		transfers = append(transfers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return transfers, nil
}

type transferTx struct {
	tx *sql.Tx
}

func (x *transferTx) Append(ctx context.Context, transfer domain.Transfer) (domain.Transfer, error) {
	const query = `
INSERT INTO transactions (source_account_id, target_account_id, amount, transaction_time)
VALUES ($1, $2, $3, $4)
RETURNING id`

	if err := x.tx.QueryRowContext(ctx, query,
		transfer.SourceID,
		transfer.TargetID,
		transfer.Amount,
		transfer.TransactionTime,
	).Scan(&transfer.ID); err != nil {
		return domain.Transfer{}, fmt.Errorf("insert transaction: %w", classify(err))
	}
	return transfer, nil
}

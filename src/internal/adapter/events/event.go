package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vkdrn/bank-rest-api/src/internal/domain"
)

const TypeTransferCompleted = "transfer.completed"

// TransferCompleted announces a committed ledger entry. It is a notification; the ledger stays the record.
type TransferCompleted struct {
	EventID         string          `json:"eventId"`
	Type            string          `json:"type"`
	TransferID      int64           `json:"transferId"`
	Source          int64           `json:"source"`
	Target          int64           `json:"target"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionTime time.Time       `json:"transactionTime"`
	PublishedAt     time.Time       `json:"publishedAt"`
}

func NewTransferCompleted(t domain.Transfer, now time.Time) TransferCompleted {
	return TransferCompleted{
		EventID:         uuid.NewString(),
		Type:            TypeTransferCompleted,
		TransferID:      t.ID,
		Source:          t.SourceID,
		Target:          t.TargetID,
		Amount:          t.Amount,
		TransactionTime: t.TransactionTime,
		PublishedAt:     now,
	}
}

type Publisher interface {
	Publish(ctx context.Context, event TransferCompleted) error
	Close() error
}

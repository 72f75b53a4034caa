package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transfer is a committed ledger entry. Entries are never updated or deleted.
type Transfer struct {
	ID              int64
	SourceID        int64
	TargetID        int64
	Amount          decimal.Decimal
	TransactionTime time.Time
}

// TransferRequest carries the caller's intent. Nil ids and an invalid amount mean the field was missing.
type TransferRequest struct {
	Source *int64
	Target *int64
	Amount decimal.NullDecimal
}

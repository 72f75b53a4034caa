package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vkdrn/bank-rest-api/src/internal/domain"
)

// TransferRequest accepts the amount as a JSON number or string. It is never parsed through float64.
type TransferRequest struct {
	Source *int64              `json:"source"`
	Target *int64              `json:"target"`
	Amount decimal.NullDecimal `json:"amount"`
}

func (r TransferRequest) ToDomain() domain.TransferRequest {
	return domain.TransferRequest{
		Source: r.Source,
		Target: r.Target,
		Amount: r.Amount,
	}
}

type TransferResponse struct {
	ID              int64           `json:"id"`
	Source          int64           `json:"source"`
	Target          int64           `json:"target"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionTime time.Time       `json:"transactionTime"`
}

func NewTransferResponses(transfers []domain.Transfer) []TransferResponse {
	out := make([]TransferResponse, 0, len(transfers))
	for _, t := range transfers {
		out = append(out, TransferResponse{
			ID:              t.ID,
			Source:          t.SourceID,
			Target:          t.TargetID,
			Amount:          t.Amount,
			TransactionTime: t.TransactionTime,
		})
	}
	return out
}

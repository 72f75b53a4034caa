package repo_interfaces

import (
	"context"

	"github.com/vkdrn/bank-rest-api/src/internal/domain"
)

type TransferRepository interface {
	FindAll(ctx context.Context) ([]domain.Transfer, error)
}

type TransferTxRepository interface {
	Append(ctx context.Context, transfer domain.Transfer) (domain.Transfer, error)
}

package service_interfaces

import (
	"context"

	"github.com/vkdrn/bank-rest-api/src/internal/domain"
)

type TransferService interface {
	PerformTransfer(ctx context.Context, req domain.TransferRequest) (domain.Transfer, error)
	ListTransfers(ctx context.Context) ([]domain.Transfer, error)
}

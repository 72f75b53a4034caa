package service_interfaces

import (
	"context"

	"github.com/vkdrn/bank-rest-api/src/internal/domain"
)

type AccountService interface {
	GetAll(ctx context.Context) ([]domain.Account, error)
	GetByID(ctx context.Context, idParam string) (domain.Account, error)
	Create(ctx context.Context, account domain.Account) (domain.Account, error)
	Update(ctx context.Context, idParam string, account domain.Account) (domain.Account, error)
	Delete(ctx context.Context, idParam string) error
}

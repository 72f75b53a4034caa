package models

import (
	"github.com/shopspring/decimal"

	"github.com/vkdrn/bank-rest-api/src/internal/domain"
)

// AccountRequest is the body of create and update calls. A missing balance means zero.
type AccountRequest struct {
	ID      *int64              `json:"id,omitempty"`
	Email   string              `json:"email"`
	Balance decimal.NullDecimal `json:"balance"`
}

func (r AccountRequest) ToDomain() domain.Account {
	account := domain.Account{
		Email:   r.Email,
		Balance: decimal.Zero,
	}
	if r.ID != nil {
		account.ID = *r.ID
	}
	if r.Balance.Valid {
		account.Balance = r.Balance.Decimal
	}
	return account
}

type AccountResponse struct {
	ID      int64           `json:"id"`
	Email   string          `json:"email"`
	Balance decimal.Decimal `json:"balance"`
}

func NewAccountResponse(account domain.Account) AccountResponse {
	return AccountResponse{
		ID:      account.ID,
		Email:   account.Email,
		Balance: account.Balance,
	}
}

func NewAccountResponses(accounts []domain.Account) []AccountResponse {
	out := make([]AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, NewAccountResponse(a))
	}
	return out
}

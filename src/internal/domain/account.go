package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Account struct {
	ID        int64
	Email     string
	Balance   decimal.Decimal
	Active    bool
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

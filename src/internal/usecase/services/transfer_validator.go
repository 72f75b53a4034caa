package services

import (
	"github.com/shopspring/decimal"

	"github.com/vkdrn/bank-rest-api/src/internal/domain"
)

// ValidateRequest checks the shape of a transfer request. It never touches storage.
func ValidateRequest(req domain.TransferRequest) error {
	if req.Source == nil || req.Target == nil || !req.Amount.Valid {
		return domain.NewMalformedTransfer(domain.MsgBadRequest)
	}
	if *req.Source == *req.Target {
		return domain.NewMalformedTransfer(domain.MsgSameAccount)
	}
	if !req.Amount.Decimal.IsPositive() {
		return domain.NewMalformedTransfer(domain.MsgNonPositiveAmount)
	}
	if !domain.WithinPrecision(req.Amount.Decimal) {
		return domain.NewMalformedTransfer(domain.MsgAmountPrecision)
	}
	return nil
}

// ValidateFunds fails when the balance is unknown or smaller than amount.
func ValidateFunds(balance decimal.NullDecimal, amount decimal.Decimal) error {
	if !balance.Valid || balance.Decimal.LessThan(amount) {
		return domain.NewInsufficientFunds()
	}
	return nil
}

package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkdrn/bank-rest-api/src/internal/domain"
)

func id(v int64) *int64 { return &v }

func amount(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     domain.TransferRequest
		wantMsg string
	}{
		{name: "valid", req: domain.TransferRequest{Source: id(1), Target: id(2), Amount: amount("0.01")}},
		{name: "missing source", req: domain.TransferRequest{Target: id(2), Amount: amount("1")}, wantMsg: domain.MsgBadRequest},
		{name: "missing target", req: domain.TransferRequest{Source: id(1), Amount: amount("1")}, wantMsg: domain.MsgBadRequest},
		{name: "missing amount", req: domain.TransferRequest{Source: id(1), Target: id(2)}, wantMsg: domain.MsgBadRequest},
		{name: "same account", req: domain.TransferRequest{Source: id(3), Target: id(3), Amount: amount("1")}, wantMsg: domain.MsgSameAccount},
		{name: "zero amount", req: domain.TransferRequest{Source: id(1), Target: id(2), Amount: amount("0")}, wantMsg: domain.MsgNonPositiveAmount},
		{name: "negative amount", req: domain.TransferRequest{Source: id(1), Target: id(2), Amount: amount("-5")}, wantMsg: domain.MsgNonPositiveAmount},
		{name: "smallest supported unit", req: domain.TransferRequest{Source: id(1), Target: id(2), Amount: amount("0.000000000000000001")}},
		{name: "scale beyond column", req: domain.TransferRequest{Source: id(1), Target: id(2), Amount: amount("0.0000000000000000001")}, wantMsg: domain.MsgAmountPrecision},
		{name: "tiny exponent", req: domain.TransferRequest{Source: id(1), Target: id(2), Amount: amount("1e-20000000")}, wantMsg: domain.MsgAmountPrecision},
		{name: "huge exponent", req: domain.TransferRequest{Source: id(1), Target: id(2), Amount: amount("1e20000000")}, wantMsg: domain.MsgAmountPrecision},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequest(tt.req)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, domain.ErrMalformedTransfer)
			assert.Equal(t, tt.wantMsg, domain.MessageOf(err))
		})
	}
}

func TestValidateFunds(t *testing.T) {
	assert.NoError(t, ValidateFunds(amount("10.10"), decimal.RequireFromString("10.10")))
	assert.NoError(t, ValidateFunds(amount("10.10"), decimal.RequireFromString("10.09")))

	err := ValidateFunds(amount("10.10"), decimal.RequireFromString("10.11"))
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.Equal(t, domain.MsgInsufficientFunds, domain.MessageOf(err))

	assert.ErrorIs(t, ValidateFunds(decimal.NullDecimal{}, decimal.NewFromInt(1)), domain.ErrInsufficientFunds)
}

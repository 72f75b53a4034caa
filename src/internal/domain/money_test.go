package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestWithinPrecision(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"10.10", true},
		{"0", true},
		{"0.000000000000000001", true},
		{"99999999999999999999.999999999999999999", true},
		{"0.0000000000000000001", false},
		{"123456789012345678901", false},
		{"1e-20000000", false},
		{"1e20000000", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, WithinPrecision(decimal.RequireFromString(tt.value)))
		})
	}
}

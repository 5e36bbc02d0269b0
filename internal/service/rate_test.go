package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestConvertExact(t *testing.T) {
	rc := NewRateConverter(decimal.RequireFromString("4000.0"))

	cases := []struct {
		amount   string
		expected string
	}{
		{"1", "4000"},
		{"12.5", "50000"},
		{"0.25", "1000"},
		{"0.0001", "0.4"},
		{"3.333333", "13333.33"},
	}

	for _, tc := range cases {
		got := rc.Convert(decimal.RequireFromString(tc.amount))
		assert.True(t, got.Equal(decimal.RequireFromString(tc.expected)),
			"convert(%s) = %s, want %s", tc.amount, got, tc.expected)
	}
}

func TestConvertRoundsHalfEven(t *testing.T) {
	rc := NewRateConverter(decimal.RequireFromString("1"))

	// Ties go to the even neighbor of the minor unit.
	assert.Equal(t, "2.34", rc.Convert(decimal.RequireFromString("2.345")).String())
	assert.Equal(t, "2.36", rc.Convert(decimal.RequireFromString("2.355")).String())
}

func TestConvertMatchesProduct(t *testing.T) {
	rate := decimal.RequireFromString("3987.55")
	rc := NewRateConverter(rate)

	for _, amount := range []string{"0.01", "1", "7.77", "250.123456"} {
		a := decimal.RequireFromString(amount)
		assert.True(t, rc.Convert(a).Equal(a.Mul(rate).RoundBank(2)))
	}
}

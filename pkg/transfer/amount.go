package transfer

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrFractionalAmount is returned when an amount has more precision than the token.
var ErrFractionalAmount = errors.New("amount has more decimals than the token supports")

// ParseAmount converts a human readable amount ("1.5") into minor units for a
// token with the given decimals ("1500000000000000000").
func ParseAmount(amount string, decimals int) (string, error) {
	if decimals < 0 {
		return "", fmt.Errorf("invalid decimals: %d", decimals)
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return "", fmt.Errorf("parse amount: %w", err)
	}
	if d.IsNegative() {
		return "", fmt.Errorf("amount must not be negative: %s", amount)
	}
	minor := d.Shift(int32(decimals))
	if !minor.Equal(minor.Truncate(0)) {
		return "", fmt.Errorf("%s with %d decimals: %w", amount, decimals, ErrFractionalAmount)
	}
	return minor.BigInt().String(), nil
}

// FormatAmount renders minor units back to a human readable amount.
func FormatAmount(minor string, decimals int) (string, error) {
	d, err := decimal.NewFromString(minor)
	if err != nil {
		return "", fmt.Errorf("parse amount: %w", err)
	}
	return d.Shift(-int32(decimals)).String(), nil
}

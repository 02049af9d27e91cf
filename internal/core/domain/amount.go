package domain

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

// Amounts are whole units. There is no currency and no minor-unit scaling:
// 10 means ten units, -3 means three units withdrawn.

var (
	ErrAmountNotNumber  = errors.New("amount is not a number")
	ErrAmountNotInteger = errors.New("amount is not an integer")
	ErrAmountOutOfRange = errors.New("amount is outside the int64 range")
)

var (
	maxAmount = decimal.NewFromInt(math.MaxInt64)
	minAmount = decimal.NewFromInt(math.MinInt64)
)

// maxLiteralLen bounds the JSON number literals accepted as amounts.
const maxLiteralLen = 64

// ParseAmount converts a JSON number literal into an integer amount.
// Integral literals written with a fraction or exponent ("10.0", "1e3") are
// accepted; anything with a non-zero fractional part is rejected.
func ParseAmount(literal string) (int64, error) {
	if literal == "" || len(literal) > maxLiteralLen {
		return 0, ErrAmountNotNumber
	}

	d, err := decimal.NewFromString(literal)
	if err != nil {
		return 0, ErrAmountNotNumber
	}

	if d.IsZero() {
		return 0, nil
	}

	// Keep rescaling cheap for literals like 1e999999999.
	switch exp := d.Exponent(); {
	case exp > 19:
		return 0, ErrAmountOutOfRange
	case exp < -maxLiteralLen:
		return 0, ErrAmountNotInteger
	}

	if !d.IsInteger() {
		return 0, ErrAmountNotInteger
	}

	if d.GreaterThan(maxAmount) || d.LessThan(minAmount) {
		return 0, ErrAmountOutOfRange
	}

	return d.IntPart(), nil
}

// Package money converts between user facing decimal amounts and the integer minor units the
// ledger stores.
package money

import (
	"errors"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// MinorUnitDigits is the number of fractional digits of the ledger currency
const MinorUnitDigits = 2

var (
	ErrMalformedAmount = errors.New("amount must be a decimal number")
	ErrTooPrecise      = errors.New("amount has more than two decimal places")
	ErrOutOfRange      = errors.New("amount is out of range")
)

var (
	unit     = decimal.New(1, MinorUnitDigits)
	maxMinor = decimal.NewFromInt(math.MaxInt64)
	minMinor = decimal.NewFromInt(math.MinInt64)
)

// ParseMinor parses a major-unit amount such as "12.34" into minor units (1234).
// Sign is preserved so the ledger can reject non-positive amounts itself.
func ParseMinor(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrMalformedAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrMalformedAmount
	}
	if !d.Equal(d.Truncate(MinorUnitDigits)) {
		return 0, ErrTooPrecise
	}

	minor := d.Mul(unit)
	if minor.GreaterThan(maxMinor) || minor.LessThan(minMinor) {
		return 0, ErrOutOfRange
	}
	return minor.IntPart(), nil
}

// FormatMinor renders minor units as a fixed two-digit major amount, e.g. 7000 -> "70.00"
func FormatMinor(minor int64) string {
	return decimal.New(minor, -MinorUnitDigits).StringFixed(MinorUnitDigits)
}

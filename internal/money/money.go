// Package money parses user-entered amounts and formats decimal values for
// display in the configured currency.
package money

import (
	"errors"
	"fmt"
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned for amounts that are not finite non-negative
// numbers.
var ErrInvalidAmount = errors.New("invalid amount")

// ParseAmount parses a non-negative amount. A comma is accepted as the
// decimal separator ("12,34" == "12.34").
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.Replace(s, ",", ".", 1)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %q is negative", ErrInvalidAmount, s)
	}
	return d, nil
}

// Format renders value in the given ISO 4217 currency. Codes unknown to
// the currency table degrade to a plain "R$ 0.00" rendering.
func Format(value decimal.Decimal, code string) string {
	cur := gomoney.GetCurrency(strings.ToUpper(strings.TrimSpace(code)))
	if cur == nil {
		return "R$ " + value.StringFixed(2)
	}
	minor := value.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return gomoney.New(minor, cur.Code).Display()
}

// Supported reports whether code has a currency table entry.
func Supported(code string) bool {
	return gomoney.GetCurrency(strings.ToUpper(strings.TrimSpace(code))) != nil
}

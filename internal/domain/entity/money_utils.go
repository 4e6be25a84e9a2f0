package entity

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	errs "github.com/moneytrail/ledger/internal/domain/error"
)

// MaxDecimalPlaces defines the maximum number of decimal places allowed for money amounts
const MaxDecimalPlaces = 2

// ParseAmount validates and parses a string amount into a decimal value.
// Rejects empty strings, malformed numbers, more than two decimal places,
// and any value that is not strictly positive.
func ParseAmount(amount string) (decimal.Decimal, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return decimal.Zero, fmt.Errorf("%w: empty value", errs.ErrInvalidAmount)
	}

	d, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s", errs.ErrInvalidAmount, amount)
	}

	if d.Exponent() < -MaxDecimalPlaces {
		return decimal.Zero, fmt.Errorf("%w: maximum %d decimal places allowed",
			errs.ErrInvalidAmount, MaxDecimalPlaces)
	}

	if !d.IsPositive() {
		return decimal.Zero, errs.ErrNonPositiveAmount
	}

	return d, nil
}

// FormatAmount renders a monetary value with exactly two decimal places,
// the canonical representation used in API responses.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(MaxDecimalPlaces)
}

package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits kept for every amount.
const MoneyScale = 2

// MaxAmount is the largest value a NUMERIC(12,2) column can hold.
var MaxAmount = decimal.RequireFromString("9999999999.99")

// QuantizeDeposit truncates a deposit amount to MoneyScale places.
// Deposits are floored toward zero; withdrawals and transfers are not re-rounded.
func QuantizeDeposit(amount decimal.Decimal) decimal.Decimal {
	return amount.RoundDown(MoneyScale)
}

// ValidateAmount checks that amount is positive, within range and carries
// no more than MoneyScale fractional digits.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	if amount.GreaterThan(MaxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrInvalidAmount, MaxAmount.StringFixed(MoneyScale))
	}

	if !amount.Equal(amount.Truncate(MoneyScale)) {
		return fmt.Errorf("%w: at most %d decimal places allowed", ErrInvalidAmount, MoneyScale)
	}

	return nil
}

// FormatAmount renders amount with exactly MoneyScale places.
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(MoneyScale)
}

package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits carried by every amount.
const MoneyScale = 2

// MaxAmount is the largest amount a single transaction may carry.
const MaxAmount = "1000000000000" // 1 trillion

var (
	// OneCent is the smallest representable amount.
	OneCent = decimal.New(1, -MoneyScale)

	maxAmount = decimal.RequireFromString(MaxAmount)
)

// IsMoney reports whether d has at most two fractional digits.
func IsMoney(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(MoneyScale))
}

// ToCents converts an amount to integer minor units. The amount must satisfy
// IsMoney and stay within MaxAmount.
func ToCents(d decimal.Decimal) int64 {
	return d.Shift(MoneyScale).IntPart()
}

// FromCents converts integer minor units to an amount.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -MoneyScale)
}

// ParseMoney parses a decimal string and rejects more than two fractional digits.
func ParseMoney(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a decimal amount", ErrValidation, s)
	}
	if !IsMoney(d) {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrInvalidPrecision, s)
	}
	return d, nil
}

// ValidateAmount checks that amount is a positive money value within limits.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !IsMoney(amount) {
		return fmt.Errorf("%w: %s", ErrInvalidPrecision, amount)
	}
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxAmount)
	}
	return nil
}

// SumMoney adds amounts.
func SumMoney(amounts ...decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, a := range amounts {
		sum = sum.Add(a)
	}
	return sum
}

package shared

import "github.com/shopspring/decimal"

// MoneyPlaces is the number of decimal places kept for currency amounts
const MoneyPlaces int32 = 2

// RoundMoney rounds an amount half-away-from-zero to cents
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// ParseMoney parses a decimal amount and rejects negatives
func ParseMoney(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, WrapDomainError("INVALID_INPUT", "Invalid amount", err)
	}
	if d.IsNegative() {
		return decimal.Zero, NewDomainError("INVALID_INPUT", "Amount cannot be negative")
	}
	return RoundMoney(d), nil
}

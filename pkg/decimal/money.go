package decimal

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary amount with proper financial precision
type Money struct {
	decimal.Decimal
}

// NewMoneyFromDecimal creates a new Money instance from a decimal.Decimal
func NewMoneyFromDecimal(d decimal.Decimal) Money {
	return Money{d}
}

// Round rounds the money amount to cents
func (m Money) Round() Money {
	return Money{m.Decimal.Round(2)}
}

// Annual converts a monthly amount to annual
func (m Money) Annual() Money {
	return Money{m.Decimal.Mul(decimal.NewFromInt(12))}
}

// Monthly converts an annual amount to monthly
func (m Money) Monthly() Money {
	return Money{m.Decimal.Div(decimal.NewFromInt(12))}
}

// ApplyTaxRate removes rate × amount from the amount
func (m Money) ApplyTaxRate(rate decimal.Decimal) Money {
	tax := m.Decimal.Mul(rate)
	return Money{m.Decimal.Sub(tax)}
}

// Withdraw returns the share of the amount taken out at rate
func (m Money) Withdraw(rate decimal.Decimal) Money {
	return Money{m.Decimal.Mul(rate)}
}

// String returns the amount with two decimals
func (m Money) String() string {
	return m.Decimal.StringFixed(2)
}

// Format renders the amount with a currency symbol and thousands separators,
// e.g. "€179,084.77" or "-€12.50".
func (m Money) Format(symbol string) string {
	s := m.Decimal.Abs().StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-3:]
	grouped := make([]byte, 0, len(intPart)+len(intPart)/3)
	for i := 0; i < len(intPart); i++ {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped = append(grouped, ',')
		}
		grouped = append(grouped, intPart[i])
	}
	out := symbol + string(grouped) + frac
	if m.Decimal.Round(2).IsNegative() {
		return "-" + out
	}
	return out
}

package output

import (
	"github.com/cryptofire/fire-calculator/internal/domain"
	"github.com/cryptofire/fire-calculator/pkg/decimal"
	shopdec "github.com/shopspring/decimal"
)

var decimalHundred = shopdec.NewFromInt(100)

// FormatCurrency formats an amount with a currency symbol, thousands
// separators and 2 decimals. An empty symbol uses the default currency.
func FormatCurrency(amount shopdec.Decimal, symbol string) string {
	if symbol == "" {
		symbol = domain.DefaultCurrency
	}
	return decimal.NewMoneyFromDecimal(amount).Format(symbol)
}

// FormatPercentage formats a decimal as a percentage with 2 decimals.
func FormatPercentage(amount shopdec.Decimal) string { return amount.StringFixed(2) + "%" }

// FormatRate formats a fractional rate (0.06) as a percentage (6.00%).
func FormatRate(rate shopdec.Decimal) string { return FormatPercentage(rate.Mul(decimalHundred)) }

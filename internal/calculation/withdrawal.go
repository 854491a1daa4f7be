package calculation

import (
	"github.com/cryptofire/fire-calculator/internal/domain"
	"github.com/cryptofire/fire-calculator/pkg/decimal"
	shopdec "github.com/shopspring/decimal"
)

// NetIncome returns the after-tax annual and monthly income a portfolio value
// supports under policy: value × rate × (1 − tax), rounded to cents. Zero and
// negative values pass through unchanged in sign.
func NetIncome(value shopdec.Decimal, policy domain.WithdrawalPolicy) (annual, monthly shopdec.Decimal) {
	net := decimal.NewMoneyFromDecimal(value).
		Withdraw(policy.Rate).
		ApplyTaxRate(policy.TaxRate)
	return net.Round().Decimal, net.Monthly().Round().Decimal
}

package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Asset identifies a priced instrument such as a coin or a fund.
type Asset struct {
	Symbol       string          `yaml:"symbol" toml:"symbol" json:"symbol"`
	CurrentPrice decimal.Decimal `yaml:"current_price" toml:"current_price" json:"current_price"`
}

// Holding is a number of units of one Asset.
type Holding struct {
	Asset `yaml:",inline"`
	Units decimal.Decimal `yaml:"units" toml:"units" json:"units"`
}

// IsHeld reports whether the holding carries any units.
func (h Holding) IsHeld() bool {
	return h.Units.IsPositive()
}

// Value returns units × current price in the asset's quote currency.
func (h Holding) Value() decimal.Decimal {
	return h.Units.Mul(h.CurrentPrice)
}

// Portfolio is the set of holdings plus cash already in the reporting currency.
type Portfolio struct {
	Holdings []Holding      `yaml:"holdings" toml:"holdings" json:"holdings"`
	Cash     decimal.Decimal `yaml:"cash" toml:"cash" json:"cash"`
}

// Held returns the holdings with a positive unit count, in input order.
func (p Portfolio) Held() []Holding {
	held := make([]Holding, 0, len(p.Holdings))
	for _, h := range p.Holdings {
		if h.IsHeld() {
			held = append(held, h)
		}
	}
	return held
}

// AssetsValue returns the converted value of all holdings, excluding cash.
func (p Portfolio) AssetsValue(conversionRate decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, h := range p.Holdings {
		total = total.Add(h.Value())
	}
	return total.Mul(conversionRate)
}

// Value returns the portfolio value in the reporting currency.
func (p Portfolio) Value(conversionRate decimal.Decimal) decimal.Decimal {
	return p.AssetsValue(conversionRate).Add(p.Cash)
}

// Find returns the holding for symbol.
func (p Portfolio) Find(symbol string) (Holding, bool) {
	for _, h := range p.Holdings {
		if h.Symbol == symbol {
			return h, true
		}
	}
	return Holding{}, false
}

// Validate rejects negative units and prices, unpriced held assets and
// duplicate symbols.
func (p Portfolio) Validate() error {
	if p.Cash.IsNegative() {
		return fmt.Errorf("%w: cash cannot be negative, got %s", ErrInvalidHolding, p.Cash.String())
	}
	seen := make(map[string]bool, len(p.Holdings))
	for i, h := range p.Holdings {
		if h.Symbol == "" {
			return fmt.Errorf("%w: holding %d has no symbol", ErrInvalidHolding, i)
		}
		if seen[h.Symbol] {
			return fmt.Errorf("%w: duplicate holding for %s", ErrInvalidHolding, h.Symbol)
		}
		seen[h.Symbol] = true
		if h.Units.IsNegative() {
			return fmt.Errorf("%w: %s units cannot be negative, got %s", ErrInvalidHolding, h.Symbol, h.Units.String())
		}
		if h.CurrentPrice.IsNegative() {
			return fmt.Errorf("%w: %s price cannot be negative, got %s", ErrInvalidHolding, h.Symbol, h.CurrentPrice.String())
		}
		if h.IsHeld() && !h.CurrentPrice.IsPositive() {
			return fmt.Errorf("%w: %s is held but has no current price", ErrInvalidHolding, h.Symbol)
		}
	}
	return nil
}

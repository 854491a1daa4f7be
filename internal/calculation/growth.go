package calculation

import (
	"fmt"
	"math"
	"strconv"

	"github.com/cryptofire/fire-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	one      = decimal.NewFromInt(1)
	minusOne = decimal.NewFromInt(-1)
)

// DeriveRate returns the constant annual rate r with
// priceEnd = priceStart × (1+r)^yearsBetween.
//
// A non-positive priceEnd gives -1: the value collapses to zero.
func DeriveRate(priceStart, priceEnd decimal.Decimal, yearsBetween int) (decimal.Decimal, error) {
	if !priceStart.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: start price must be positive, got %s", domain.ErrInvalidGrowthInput, priceStart.String())
	}
	if yearsBetween <= 0 {
		return decimal.Zero, fmt.Errorf("%w: time span must be positive, got %d years", domain.ErrInvalidGrowthInput, yearsBetween)
	}
	if !priceEnd.IsPositive() {
		return minusOne, nil
	}
	if priceEnd.Equal(priceStart) {
		return decimal.Zero, nil
	}
	root := math.Pow(10, (log10(priceEnd)-log10(priceStart))/float64(yearsBetween))
	if math.IsInf(root, 0) || math.IsNaN(root) {
		return decimal.Zero, fmt.Errorf("%w: rate from %s to %s over %d years is out of range",
			domain.ErrInvalidGrowthInput, priceStart.String(), priceEnd.String(), yearsBetween)
	}
	return decimal.NewFromFloat(root - 1), nil
}

// log10 of a positive decimal, taken from its coefficient digits and exponent
// so magnitudes outside the float64 range stay finite.
func log10(v decimal.Decimal) float64 {
	digits := v.Coefficient().String()
	lead := digits
	if len(lead) > 17 {
		lead = lead[:17]
	}
	mantissa, _ := strconv.ParseFloat(lead, 64)
	return math.Log10(mantissa) + float64(len(digits)-len(lead)) + float64(v.Exponent())
}

// GrowthFactor returns (1+rate)^years. Negative years discount; a collapsed
// factor (rate = -1) stays at zero in both directions.
func GrowthFactor(rate decimal.Decimal, years int) decimal.Decimal {
	factor := one.Add(rate)
	switch {
	case years == 0:
		return one
	case years > 0:
		return factor.Pow(decimal.NewFromInt(int64(years)))
	case factor.IsZero():
		return decimal.Zero
	default:
		return one.Div(factor.Pow(decimal.NewFromInt(int64(-years))))
	}
}

// PriceAt returns basePrice × (1+rate)^yearsFromBase.
func PriceAt(basePrice, rate decimal.Decimal, yearsFromBase int) decimal.Decimal {
	return basePrice.Mul(GrowthFactor(rate, yearsFromBase))
}

// GrowthModel is the projection function of one scenario. Implementations are
// immutable once built by NewGrowthModel.
type GrowthModel interface {
	Kind() domain.ScenarioKind
	// PortfolioValueAt returns the portfolio value in the reporting currency
	// at an absolute horizon year.
	PortfolioValueAt(year int) decimal.Decimal
	// Chain compounds a previously projected value forward by years.
	Chain(value decimal.Decimal, years int) decimal.Decimal
	// CrossingRate is the single annual rate used by the target search.
	CrossingRate() decimal.Decimal
}

// NewGrowthModel dispatches on the scenario variant. Errors wrap
// domain.ErrInvalidGrowthInput and only concern this scenario.
func NewGrowthModel(def domain.ScenarioDefinition, assumptions domain.Assumptions, portfolio domain.Portfolio) (GrowthModel, error) {
	switch def.Kind() {
	case domain.KindFixedRate:
		return &FixedRateModel{
			Rate:       def.FixedRate.AnnualRate,
			BaseYear:   assumptions.BaseYear,
			StartValue: portfolio.Value(assumptions.ConversionRate),
		}, nil
	case domain.KindPerAssetForecast:
		return newPerAssetModel(*def.PerAssetForecast, assumptions, portfolio)
	default:
		return nil, fmt.Errorf("%w: scenario %q has no growth definition", domain.ErrInvalidGrowthInput, def.Name)
	}
}

// FixedRateModel compounds the whole portfolio at one rate.
type FixedRateModel struct {
	Rate       decimal.Decimal
	BaseYear   int
	StartValue decimal.Decimal
}

func (m *FixedRateModel) Kind() domain.ScenarioKind { return domain.KindFixedRate }

// ValueAt returns startValue compounded for years.
func (m *FixedRateModel) ValueAt(startValue decimal.Decimal, years int) decimal.Decimal {
	return PriceAt(startValue, m.Rate, years)
}

func (m *FixedRateModel) PortfolioValueAt(year int) decimal.Decimal {
	return m.ValueAt(m.StartValue, year-m.BaseYear)
}

func (m *FixedRateModel) Chain(value decimal.Decimal, years int) decimal.Decimal {
	return m.ValueAt(value, years)
}

func (m *FixedRateModel) CrossingRate() decimal.Decimal { return m.Rate }

// PerAssetModel grows every held asset along its own derived rate.
type PerAssetModel struct {
	BaseYear       int
	ConversionRate decimal.Decimal
	Cash           decimal.Decimal
	FallbackRate   decimal.Decimal
	holdings       []domain.Holding
	rates          map[string]decimal.Decimal
}

func newPerAssetModel(forecast domain.PerAssetForecast, assumptions domain.Assumptions, portfolio domain.Portfolio) (*PerAssetModel, error) {
	span := forecast.ReferenceYear - assumptions.BaseYear
	if span <= 0 {
		return nil, fmt.Errorf("%w: reference year %d must be after base year %d", domain.ErrInvalidGrowthInput, forecast.ReferenceYear, assumptions.BaseYear)
	}
	for _, sym := range forecast.Symbols() {
		if _, ok := portfolio.Find(sym); !ok {
			return nil, fmt.Errorf("%w: forecast given for %s which is not in the portfolio", domain.ErrInvalidGrowthInput, sym)
		}
	}

	held := portfolio.Held()
	rates := make(map[string]decimal.Decimal, len(held))
	for _, h := range held {
		target, ok := forecast.ForecastPrices[h.Symbol]
		if !ok {
			return nil, fmt.Errorf("%w: no forecast price for held asset %s", domain.ErrInvalidGrowthInput, h.Symbol)
		}
		rate, err := DeriveRate(h.CurrentPrice, target, span)
		if err != nil {
			return nil, fmt.Errorf("asset %s: %w", h.Symbol, err)
		}
		rates[h.Symbol] = rate
	}

	return &PerAssetModel{
		BaseYear:       assumptions.BaseYear,
		ConversionRate: assumptions.ConversionRate,
		Cash:           portfolio.Cash,
		FallbackRate:   forecast.FallbackRate,
		holdings:       held,
		rates:          rates,
	}, nil
}

func (m *PerAssetModel) Kind() domain.ScenarioKind { return domain.KindPerAssetForecast }

// Rate returns the derived annual rate of a held asset.
func (m *PerAssetModel) Rate(symbol string) (decimal.Decimal, bool) {
	r, ok := m.rates[symbol]
	return r, ok
}

// PriceAt projects the unit price of a held asset in year, in its quote
// currency.
func (m *PerAssetModel) PriceAt(symbol string, year int) (decimal.Decimal, error) {
	for _, h := range m.holdings {
		if h.Symbol == symbol {
			return PriceAt(h.CurrentPrice, m.rates[symbol], year-m.BaseYear), nil
		}
	}
	return decimal.Zero, fmt.Errorf("%w: %s is not a held asset", domain.ErrInvalidGrowthInput, symbol)
}

// PortfolioValueAt sums each asset's own projection, converts it, and adds
// cash at face value.
func (m *PerAssetModel) PortfolioValueAt(year int) decimal.Decimal {
	total := decimal.Zero
	for _, h := range m.holdings {
		price := PriceAt(h.CurrentPrice, m.rates[h.Symbol], year-m.BaseYear)
		total = total.Add(h.Units.Mul(price))
	}
	return total.Mul(m.ConversionRate).Add(m.Cash)
}

// Chain compounds at the fallback rate, not the forecast curves.
func (m *PerAssetModel) Chain(value decimal.Decimal, years int) decimal.Decimal {
	return PriceAt(value, m.FallbackRate, years)
}

// CrossingRate is the unweighted arithmetic mean of the per-asset rates.
// Position sizes are not weighted. The mean only feeds the target search;
// horizon values always come from PortfolioValueAt. With no held assets the
// fallback rate is used.
func (m *PerAssetModel) CrossingRate() decimal.Decimal {
	if len(m.holdings) == 0 {
		return m.FallbackRate
	}
	sum := decimal.Zero
	for _, h := range m.holdings {
		sum = sum.Add(m.rates[h.Symbol])
	}
	return sum.Div(decimal.NewFromInt(int64(len(m.holdings))))
}

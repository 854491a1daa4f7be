package domain

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// ScenarioKind names the growth variant a scenario uses.
type ScenarioKind string

const (
	KindFixedRate        ScenarioKind = "fixed_rate"
	KindPerAssetForecast ScenarioKind = "per_asset_forecast"
)

// FixedRate grows the whole portfolio at one constant annual rate.
type FixedRate struct {
	AnnualRate decimal.Decimal `yaml:"annual_rate" toml:"annual_rate" json:"annual_rate"`
}

// PerAssetForecast grows each held asset along its own curve, derived from
// its current price and a forecast price at ReferenceYear.
//
// Horizons chained after the first one compound at FallbackRate instead of
// the forecast curve: the money is assumed to be taken out of the forecast
// assets and reinvested conservatively.
type PerAssetForecast struct {
	ReferenceYear  int                        `yaml:"reference_year" toml:"reference_year" json:"reference_year"`
	ForecastPrices map[string]decimal.Decimal `yaml:"forecast_prices" toml:"forecast_prices" json:"forecast_prices"`
	FallbackRate   decimal.Decimal            `yaml:"fallback_rate" toml:"fallback_rate" json:"fallback_rate"`
}

// Symbols returns the forecast symbols in sorted order.
func (f PerAssetForecast) Symbols() []string {
	symbols := make([]string, 0, len(f.ForecastPrices))
	for s := range f.ForecastPrices {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return symbols
}

// ScenarioDefinition is a named tagged variant: exactly one of FixedRate or
// PerAssetForecast is set.
type ScenarioDefinition struct {
	Name             string            `yaml:"name" toml:"name" json:"name"`
	FixedRate        *FixedRate        `yaml:"fixed_rate,omitempty" toml:"fixed_rate,omitempty" json:"fixed_rate,omitempty"`
	PerAssetForecast *PerAssetForecast `yaml:"per_asset_forecast,omitempty" toml:"per_asset_forecast,omitempty" json:"per_asset_forecast,omitempty"`
}

// NewFixedRateScenario builds a FixedRate scenario.
func NewFixedRateScenario(name string, annualRate decimal.Decimal) ScenarioDefinition {
	return ScenarioDefinition{Name: name, FixedRate: &FixedRate{AnnualRate: annualRate}}
}

// NewPerAssetForecastScenario builds a PerAssetForecast scenario. The price
// map is copied.
func NewPerAssetForecastScenario(name string, referenceYear int, forecastPrices map[string]decimal.Decimal, fallbackRate decimal.Decimal) ScenarioDefinition {
	prices := make(map[string]decimal.Decimal, len(forecastPrices))
	for k, v := range forecastPrices {
		prices[k] = v
	}
	return ScenarioDefinition{
		Name: name,
		PerAssetForecast: &PerAssetForecast{
			ReferenceYear:  referenceYear,
			ForecastPrices: prices,
			FallbackRate:   fallbackRate,
		},
	}
}

// Kind returns the variant tag, or "" when zero or both variants are set.
func (s ScenarioDefinition) Kind() ScenarioKind {
	switch {
	case s.FixedRate != nil && s.PerAssetForecast == nil:
		return KindFixedRate
	case s.PerAssetForecast != nil && s.FixedRate == nil:
		return KindPerAssetForecast
	default:
		return ""
	}
}

// Validate checks the variant shape and price signs. Forecast coverage and
// the reference year are growth inputs and are checked when the growth model
// is built, so a bad forecast only affects its own scenario.
func (s ScenarioDefinition) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("scenario name is required")
	}
	switch s.Kind() {
	case KindFixedRate:
		if s.FixedRate.AnnualRate.LessThan(decimal.NewFromInt(-1)) {
			return fmt.Errorf("scenario %q: annual rate cannot be less than -100%%", s.Name)
		}
	case KindPerAssetForecast:
		for _, sym := range s.PerAssetForecast.Symbols() {
			if s.PerAssetForecast.ForecastPrices[sym].IsNegative() {
				return fmt.Errorf("%w: scenario %q forecast price for %s cannot be negative", ErrInvalidHolding, s.Name, sym)
			}
		}
		if s.PerAssetForecast.FallbackRate.LessThan(decimal.NewFromInt(-1)) {
			return fmt.Errorf("scenario %q: fallback rate cannot be less than -100%%", s.Name)
		}
	default:
		return fmt.Errorf("scenario %q: exactly one of fixed_rate or per_asset_forecast must be set", s.Name)
	}
	return nil
}

// Horizon is a year at which every scenario is evaluated. An absolute horizon
// sets Year (zero means the target year); a chained horizon sets AfterYears
// and is evaluated that many years after the previous horizon, compounding
// from the previous horizon's value.
type Horizon struct {
	Label      string `yaml:"label" toml:"label" json:"label"`
	Year       int    `yaml:"year,omitempty" toml:"year,omitempty" json:"year,omitempty"`
	AfterYears int    `yaml:"after_years,omitempty" toml:"after_years,omitempty" json:"after_years,omitempty"`
}

// ResolvedHorizon is a Horizon with its calendar year fixed.
type ResolvedHorizon struct {
	Label   string
	Year    int
	Chained bool
	// Offset is the number of years since the previous horizon (chained) or
	// since the base year (absolute).
	Offset int
}

// DefaultHorizons evaluates at the target year and ten years later.
func DefaultHorizons() []Horizon {
	return []Horizon{
		{Label: "at retirement"},
		{Label: "+10 years", AfterYears: 10},
	}
}

// ResolveHorizons turns horizons into calendar years. The first horizon must
// be absolute and no horizon may precede baseYear.
func ResolveHorizons(baseYear, targetYear int, horizons []Horizon) ([]ResolvedHorizon, error) {
	if len(horizons) == 0 {
		horizons = DefaultHorizons()
	}
	resolved := make([]ResolvedHorizon, 0, len(horizons))
	for i, h := range horizons {
		label := h.Label
		if h.Year != 0 && h.AfterYears != 0 {
			return nil, fmt.Errorf("horizon %d (%s): set either year or after_years, not both", i, label)
		}
		if h.AfterYears < 0 {
			return nil, fmt.Errorf("%w: horizon %d (%s) after_years cannot be negative", ErrInvalidTimeRange, i, label)
		}
		if h.AfterYears > 0 {
			if i == 0 {
				return nil, fmt.Errorf("horizon %d (%s): the first horizon cannot be chained", i, label)
			}
			prev := resolved[i-1]
			year := prev.Year + h.AfterYears
			if label == "" {
				label = fmt.Sprintf("+%d years", h.AfterYears)
			}
			resolved = append(resolved, ResolvedHorizon{Label: label, Year: year, Chained: true, Offset: h.AfterYears})
			continue
		}
		year := h.Year
		if year == 0 {
			year = targetYear
		}
		if year < baseYear {
			return nil, fmt.Errorf("%w: horizon %d (%s) year %d is before base year %d", ErrInvalidTimeRange, i, label, year, baseYear)
		}
		if label == "" {
			label = fmt.Sprintf("%d", year)
		}
		resolved = append(resolved, ResolvedHorizon{Label: label, Year: year, Offset: year - baseYear})
	}
	return resolved, nil
}

// WithdrawalPolicy converts a portfolio value into a net income.
type WithdrawalPolicy struct {
	// Rate is the fraction of the portfolio withdrawn per year, in (0, 1].
	Rate decimal.Decimal `yaml:"rate" toml:"rate" json:"rate"`
	// TaxRate is the capital-gains tax on the withdrawn amount, in [0, 1).
	TaxRate decimal.Decimal `yaml:"tax_rate" toml:"tax_rate" json:"tax_rate"`
}

// Validate checks the rate bounds.
func (w WithdrawalPolicy) Validate() error {
	if !w.Rate.IsPositive() || w.Rate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("withdrawal rate must be in (0, 1], got %s", w.Rate.String())
	}
	if w.TaxRate.IsNegative() || w.TaxRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("tax rate must be in [0, 1), got %s", w.TaxRate.String())
	}
	return nil
}

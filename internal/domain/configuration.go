package domain

import (
	"fmt"
	"time"

	"github.com/cryptofire/fire-calculator/pkg/dateutil"
	money "github.com/cryptofire/fire-calculator/pkg/decimal"
	"github.com/shopspring/decimal"
)

const (
	// DefaultSearchYears bounds the crossing search when no absolute cap is set.
	DefaultSearchYears = 75
	// MaxSearchYears is the largest search window accepted.
	MaxSearchYears = 200
	// DefaultCurrency is the reporting currency symbol.
	DefaultCurrency = "€"
)

// Profile describes the person the projection is for. CurrentAge is derived
// from BirthDate at the start of the base year when left at zero.
type Profile struct {
	CurrentAge int        `yaml:"current_age" toml:"current_age" json:"current_age"`
	BirthDate  *time.Time `yaml:"birth_date,omitempty" toml:"birth_date,omitempty" json:"birth_date,omitempty"`
	TargetYear int        `yaml:"target_year" toml:"target_year" json:"target_year"`
}

// Assumptions is the immutable set of constants a calculation runs under.
type Assumptions struct {
	BaseYear int `yaml:"base_year" toml:"base_year" json:"base_year"`
	// ConversionRate converts asset quote prices into the reporting currency.
	ConversionRate decimal.Decimal  `yaml:"conversion_rate" toml:"conversion_rate" json:"conversion_rate"`
	Currency       string           `yaml:"currency" toml:"currency" json:"currency"`
	Withdrawal     WithdrawalPolicy `yaml:"withdrawal" toml:"withdrawal" json:"withdrawal"`
	// SearchYears bounds the crossing search to BaseYear+SearchYears unless
	// SearchCapYear is set.
	SearchYears   int `yaml:"search_years" toml:"search_years" json:"search_years"`
	SearchCapYear int `yaml:"search_cap_year,omitempty" toml:"search_cap_year,omitempty" json:"search_cap_year,omitempty"`
}

// CapYear returns the last year the crossing search inspects.
func (a Assumptions) CapYear() int {
	if a.SearchCapYear != 0 {
		return a.SearchCapYear
	}
	return a.BaseYear + a.SearchYears
}

// GenerateAssumptions renders the assumptions as report lines.
func (a Assumptions) GenerateAssumptions() []string {
	hundred := decimal.NewFromInt(100)
	return []string{
		fmt.Sprintf("Base year: %d", a.BaseYear),
		fmt.Sprintf("Withdrawal rate: %.2f%% of portfolio value per year", a.Withdrawal.Rate.Mul(hundred).InexactFloat64()),
		fmt.Sprintf("Capital gains tax on withdrawals: %.2f%%", a.Withdrawal.TaxRate.Mul(hundred).InexactFloat64()),
		fmt.Sprintf("Currency conversion factor: %s", a.ConversionRate.String()),
		fmt.Sprintf("Target search runs through %d", a.CapYear()),
		"Growth is deterministic point-to-point extrapolation",
	}
}

// FireTarget is the portfolio value a scenario has to reach. It is derived
// from expenses times a multiplier; the engine only compares against Value.
type FireTarget struct {
	AnnualExpenses  decimal.Decimal `yaml:"annual_expenses" toml:"annual_expenses" json:"annual_expenses"`
	MonthlyExpenses decimal.Decimal `yaml:"monthly_expenses,omitempty" toml:"monthly_expenses,omitempty" json:"monthly_expenses,omitempty"`
	// Multiplier defaults to 1/withdrawal rate (25 at 4%).
	Multiplier decimal.Decimal `yaml:"multiplier,omitempty" toml:"multiplier,omitempty" json:"multiplier,omitempty"`
}

// Expenses returns the annual expense figure, falling back to twelve times
// the monthly figure.
func (t FireTarget) Expenses() decimal.Decimal {
	if !t.AnnualExpenses.IsZero() {
		return t.AnnualExpenses
	}
	return money.NewMoneyFromDecimal(t.MonthlyExpenses).Annual().Decimal
}

// Value returns expenses × multiplier.
func (t FireTarget) Value() decimal.Decimal {
	return t.Expenses().Mul(t.Multiplier)
}

// Configuration is everything one calculation request needs.
type Configuration struct {
	Profile     Profile              `yaml:"profile" toml:"profile" json:"profile"`
	Assumptions Assumptions          `yaml:"assumptions" toml:"assumptions" json:"assumptions"`
	Portfolio   Portfolio            `yaml:"portfolio" toml:"portfolio" json:"portfolio"`
	Scenarios   []ScenarioDefinition `yaml:"scenarios" toml:"scenarios" json:"scenarios"`
	Horizons    []Horizon            `yaml:"horizons,omitempty" toml:"horizons,omitempty" json:"horizons,omitempty"`
	Target      FireTarget           `yaml:"target" toml:"target" json:"target"`
}

// WithDefaults returns a copy with unset optional values filled in.
func (c Configuration) WithDefaults() Configuration {
	out := c
	if out.Profile.CurrentAge == 0 && out.Profile.BirthDate != nil {
		out.Profile.CurrentAge = dateutil.Age(*out.Profile.BirthDate, dateutil.StartOfYear(out.Assumptions.BaseYear))
	}
	if out.Assumptions.ConversionRate.IsZero() {
		out.Assumptions.ConversionRate = decimal.NewFromInt(1)
	}
	if out.Assumptions.Currency == "" {
		out.Assumptions.Currency = DefaultCurrency
	}
	if out.Assumptions.SearchYears == 0 {
		out.Assumptions.SearchYears = DefaultSearchYears
	}
	if len(out.Horizons) == 0 {
		out.Horizons = DefaultHorizons()
	}
	if out.Target.Multiplier.IsZero() && out.Assumptions.Withdrawal.Rate.IsPositive() {
		out.Target.Multiplier = decimal.NewFromInt(1).Div(out.Assumptions.Withdrawal.Rate)
	}
	return out
}

// Validate rejects malformed requests before any projection runs.
func (c Configuration) Validate() error {
	if c.Profile.CurrentAge < 0 {
		return fmt.Errorf("current age cannot be negative, got %d", c.Profile.CurrentAge)
	}
	if c.Profile.TargetYear < c.Assumptions.BaseYear {
		return fmt.Errorf("%w: target year %d is before base year %d", ErrInvalidTimeRange, c.Profile.TargetYear, c.Assumptions.BaseYear)
	}
	if c.Assumptions.SearchYears < 0 || c.Assumptions.SearchYears > MaxSearchYears {
		return fmt.Errorf("search years must be between 0 and %d, got %d", MaxSearchYears, c.Assumptions.SearchYears)
	}
	if c.Assumptions.SearchCapYear != 0 && c.Assumptions.SearchCapYear < c.Assumptions.BaseYear {
		return fmt.Errorf("%w: search cap year %d is before base year %d", ErrInvalidTimeRange, c.Assumptions.SearchCapYear, c.Assumptions.BaseYear)
	}
	if c.Assumptions.SearchCapYear > c.Assumptions.BaseYear+MaxSearchYears {
		return fmt.Errorf("search cap year %d is more than %d years after base year", c.Assumptions.SearchCapYear, MaxSearchYears)
	}
	if !c.Assumptions.ConversionRate.IsZero() && !c.Assumptions.ConversionRate.IsPositive() {
		return fmt.Errorf("conversion rate must be positive, got %s", c.Assumptions.ConversionRate.String())
	}
	if err := c.Assumptions.Withdrawal.Validate(); err != nil {
		return err
	}
	if err := c.Portfolio.Validate(); err != nil {
		return err
	}
	if c.Target.AnnualExpenses.IsNegative() || c.Target.MonthlyExpenses.IsNegative() {
		return fmt.Errorf("target expenses cannot be negative")
	}
	if c.Target.Multiplier.IsNegative() {
		return fmt.Errorf("target multiplier cannot be negative")
	}
	if len(c.Scenarios) == 0 {
		return fmt.Errorf("no scenarios provided")
	}
	names := make(map[string]bool, len(c.Scenarios))
	for i, s := range c.Scenarios {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("scenario %d validation failed: %w", i, err)
		}
		if names[s.Name] {
			return fmt.Errorf("duplicate scenario name %q", s.Name)
		}
		names[s.Name] = true
	}
	if _, err := ResolveHorizons(c.Assumptions.BaseYear, c.Profile.TargetYear, c.Horizons); err != nil {
		return err
	}
	return nil
}

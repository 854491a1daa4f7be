package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfiguration() Configuration {
	return Configuration{
		Profile: Profile{CurrentAge: 40, TargetYear: 2035},
		Assumptions: Assumptions{
			BaseYear:   2025,
			Withdrawal: WithdrawalPolicy{Rate: d("0.04"), TaxRate: d("0.33")},
		},
		Portfolio: Portfolio{Holdings: []Holding{holding("BTC", "50000", "1")}},
		Scenarios: []ScenarioDefinition{NewFixedRateScenario("Moderate", d("0.06"))},
		Target:    FireTarget{AnnualExpenses: d("24000")},
	}
}

func TestConfiguration_WithDefaults(t *testing.T) {
	cfg := validConfiguration().WithDefaults()
	assert.True(t, cfg.Assumptions.ConversionRate.Equal(d("1")))
	assert.Equal(t, DefaultCurrency, cfg.Assumptions.Currency)
	assert.Equal(t, DefaultSearchYears, cfg.Assumptions.SearchYears)
	assert.Equal(t, DefaultHorizons(), cfg.Horizons)
	assert.True(t, cfg.Target.Multiplier.Equal(d("25")))
	assert.True(t, cfg.Target.Value().Equal(d("600000")))
	assert.Equal(t, 2100, cfg.Assumptions.CapYear())

	custom := validConfiguration()
	custom.Assumptions.Currency = "$"
	custom.Assumptions.SearchCapYear = 2080
	custom.Target.Multiplier = d("30")
	custom = custom.WithDefaults()
	assert.Equal(t, "$", custom.Assumptions.Currency)
	assert.Equal(t, 2080, custom.Assumptions.CapYear())
	assert.True(t, custom.Target.Value().Equal(d("720000")))
}

func TestConfiguration_AgeFromBirthDate(t *testing.T) {
	cfg := validConfiguration()
	cfg.Profile.CurrentAge = 0
	birth := time.Date(1985, 6, 15, 0, 0, 0, 0, time.UTC)
	cfg.Profile.BirthDate = &birth

	// 39 on 1 January 2025
	assert.Equal(t, 39, cfg.WithDefaults().Profile.CurrentAge)
}

func TestFireTarget_Expenses(t *testing.T) {
	assert.True(t, FireTarget{MonthlyExpenses: d("2000")}.Expenses().Equal(d("24000")))
	assert.True(t, FireTarget{AnnualExpenses: d("30000"), MonthlyExpenses: d("2000")}.Expenses().Equal(d("30000")))
}

func TestConfiguration_Validate(t *testing.T) {
	require.NoError(t, validConfiguration().WithDefaults().Validate())

	tests := []struct {
		name     string
		mutate   func(*Configuration)
		sentinel error
	}{
		{"target before base", func(c *Configuration) { c.Profile.TargetYear = 2024 }, ErrInvalidTimeRange},
		{"cap before base", func(c *Configuration) { c.Assumptions.SearchCapYear = 2020 }, ErrInvalidTimeRange},
		{"horizon before base", func(c *Configuration) { c.Horizons = []Horizon{{Year: 2000}} }, ErrInvalidTimeRange},
		{"negative units", func(c *Configuration) { c.Portfolio.Holdings[0].Units = d("-1") }, ErrInvalidHolding},
		{"negative age", func(c *Configuration) { c.Profile.CurrentAge = -1 }, nil},
		{"search too long", func(c *Configuration) { c.Assumptions.SearchYears = MaxSearchYears + 1 }, nil},
		{"cap too far", func(c *Configuration) { c.Assumptions.SearchCapYear = 2025 + MaxSearchYears + 1 }, nil},
		{"negative conversion", func(c *Configuration) { c.Assumptions.ConversionRate = d("-1") }, nil},
		{"bad withdrawal", func(c *Configuration) { c.Assumptions.Withdrawal.Rate = d("0") }, nil},
		{"negative expenses", func(c *Configuration) { c.Target.AnnualExpenses = d("-1") }, nil},
		{"negative multiplier", func(c *Configuration) { c.Target.Multiplier = d("-25") }, nil},
		{"no scenarios", func(c *Configuration) { c.Scenarios = nil }, nil},
		{"bad scenario", func(c *Configuration) { c.Scenarios[0].Name = "" }, nil},
		{"duplicate names", func(c *Configuration) {
			c.Scenarios = append(c.Scenarios, NewFixedRateScenario("Moderate", d("0.03")))
		}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfiguration()
			tt.mutate(&cfg)
			err := cfg.WithDefaults().Validate()
			require.Error(t, err)
			if tt.sentinel != nil {
				assert.ErrorIs(t, err, tt.sentinel)
			}
		})
	}
}

func TestAssumptions_GenerateAssumptions(t *testing.T) {
	lines := validConfiguration().WithDefaults().Assumptions.GenerateAssumptions()
	assert.Contains(t, lines, "Base year: 2025")
	assert.Contains(t, lines, "Withdrawal rate: 4.00% of portfolio value per year")
	assert.Contains(t, lines, "Capital gains tax on withdrawals: 33.00%")
	assert.Contains(t, lines, "Target search runs through 2100")
}

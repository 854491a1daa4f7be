package integration

import (
	"context"
	"testing"

	"github.com/cryptofire/fire-calculator/internal/calculation"
	"github.com/cryptofire/fire-calculator/internal/config"
	"github.com/cryptofire/fire-calculator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T) *domain.Configuration {
	t.Helper()
	parser := config.NewInputParser()
	parser.LookupEnv = func(string) (string, bool) { return "", false }
	cfg, err := parser.LoadFromFile("../testdata/fire_config.yaml")
	require.NoError(t, err)
	return cfg
}

func near(want string, got decimal.Decimal) bool {
	return got.Sub(decimal.RequireFromString(want)).Abs().LessThanOrEqual(decimal.RequireFromString("0.01"))
}

// TestFullPipeline loads the fixture and checks the hand-computed values.
func TestFullPipeline(t *testing.T) {
	cfg := loadFixture(t)
	report, err := calculation.NewCalculationEngine().RunScenarios(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{"Moderate", "Forecast 2035", "Incomplete forecast"}, report.Scenarios)
	assert.True(t, report.StartValue.Equal(decimal.NewFromInt(100000)))

	t.Run("fixed rate", func(t *testing.T) {
		rows := report.RowsFor("Moderate")
		require.Len(t, rows, 2)
		assert.True(t, near("179084.77", rows[0].PortfolioValue), rows[0].PortfolioValue.String())
		assert.True(t, near("4799.47", rows[0].NetAnnualIncome), rows[0].NetAnnualIncome.String())
		assert.True(t, near("399.96", rows[0].NetMonthlyIncome), rows[0].NetMonthlyIncome.String())
		assert.True(t, near("320713.55", rows[1].PortfolioValue), rows[1].PortfolioValue.String())
	})

	t.Run("per asset forecast", func(t *testing.T) {
		// every asset doubles by 2035, then the fallback rate applies
		rows := report.RowsFor("Forecast 2035")
		require.Len(t, rows, 2)
		assert.True(t, near("200000", rows[0].PortfolioValue), rows[0].PortfolioValue.String())
		assert.True(t, near("358169.54", rows[1].PortfolioValue), rows[1].PortfolioValue.String())

		c, ok := report.CrossingFor("Forecast 2035")
		require.True(t, ok)
		// 100000 × 1.0717735^n ≥ 600000 first at n = 26
		assert.True(t, c.Reached)
		assert.Equal(t, 2051, c.Year)
		assert.Equal(t, 66, c.Age)
	})

	t.Run("incomplete forecast is skipped", func(t *testing.T) {
		assert.True(t, report.Failed("Incomplete forecast"))
		assert.Empty(t, report.RowsFor("Incomplete forecast"))
		assert.False(t, report.Failed("Moderate"))
	})
}

func TestProjectionConsistency(t *testing.T) {
	cfg := loadFixture(t)
	engine := calculation.NewCalculationEngine()

	first, err := engine.RunScenarios(context.Background(), cfg)
	require.NoError(t, err)
	engine.Concurrent = true
	second, err := engine.RunScenarios(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, first.Rows, second.Rows)
	assert.Equal(t, first.Crossings, second.Crossings)
	assert.Equal(t, first.Messages, second.Messages)
}

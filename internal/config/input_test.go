package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cryptofire/fire-calculator/internal/calculation"
	"github.com/cryptofire/fire-calculator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const testYAML = `profile:
  current_age: 40
  target_year: 2035
assumptions:
  base_year: 2025
  conversion_rate: 0.92
  withdrawal:
    rate: 0.04
    tax_rate: 0.33
portfolio:
  cash: 10000
  holdings:
    - symbol: BTC
      current_price: 95000
      units: 0.5
    - symbol: ETH
      current_price: 3200
      units: 8
scenarios:
  - name: Moderate
    fixed_rate:
      annual_rate: 0.06
  - name: Forecast 2040
    per_asset_forecast:
      reference_year: 2040
      fallback_rate: 0.06
      forecast_prices:
        BTC: 250000
        ETH: 10000
target:
  annual_expenses: 36000
`

const testTOML = `[profile]
current_age = 40
target_year = 2035

[assumptions]
base_year = 2025
conversion_rate = 0.92

[assumptions.withdrawal]
rate = 0.04
tax_rate = 0.33

[portfolio]
cash = 10000

[[portfolio.holdings]]
symbol = "BTC"
current_price = 95000
units = 0.5

[[portfolio.holdings]]
symbol = "ETH"
current_price = 3200
units = 8

[[scenarios]]
name = "Moderate"
[scenarios.fixed_rate]
annual_rate = 0.06

[[scenarios]]
name = "Forecast 2040"
[scenarios.per_asset_forecast]
reference_year = 2040
fallback_rate = 0.06
forecast_prices = { BTC = 250000, ETH = 10000 }

[target]
annual_expenses = 36000
`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// noEnv isolates a parser from the process environment.
func noEnv(ip *InputParser) *InputParser {
	ip.LookupEnv = func(string) (string, bool) { return "", false }
	return ip
}

func assertLoaded(t *testing.T, cfg *domain.Configuration) {
	t.Helper()
	assert.Equal(t, 40, cfg.Profile.CurrentAge)
	assert.Equal(t, 2035, cfg.Profile.TargetYear)
	assert.Equal(t, 2025, cfg.Assumptions.BaseYear)
	assert.True(t, cfg.Assumptions.ConversionRate.Equal(decimal.RequireFromString("0.92")))
	assert.True(t, cfg.Assumptions.Withdrawal.TaxRate.Equal(decimal.RequireFromString("0.33")))
	assert.True(t, cfg.Portfolio.Cash.Equal(decimal.NewFromInt(10000)))

	require.Len(t, cfg.Portfolio.Holdings, 2)
	assert.Equal(t, "BTC", cfg.Portfolio.Holdings[0].Symbol)
	assert.True(t, cfg.Portfolio.Holdings[0].CurrentPrice.Equal(decimal.NewFromInt(95000)))
	assert.True(t, cfg.Portfolio.Holdings[0].Units.Equal(decimal.RequireFromString("0.5")))

	require.Len(t, cfg.Scenarios, 2)
	assert.Equal(t, domain.KindFixedRate, cfg.Scenarios[0].Kind())
	assert.True(t, cfg.Scenarios[0].FixedRate.AnnualRate.Equal(decimal.RequireFromString("0.06")))
	assert.Equal(t, domain.KindPerAssetForecast, cfg.Scenarios[1].Kind())
	assert.Equal(t, 2040, cfg.Scenarios[1].PerAssetForecast.ReferenceYear)
	assert.True(t, cfg.Scenarios[1].PerAssetForecast.ForecastPrices["ETH"].Equal(decimal.NewFromInt(10000)))
	assert.True(t, cfg.Target.AnnualExpenses.Equal(decimal.NewFromInt(36000)))
}

func TestNewInputParser(t *testing.T) {
	parser := NewInputParser()
	assert.NotNil(t, parser)
}

func TestLoadFromFile_YAML(t *testing.T) {
	path := writeTemp(t, "fire.yaml", testYAML)
	cfg, err := noEnv(NewInputParser()).LoadFromFile(path)
	require.NoError(t, err)
	assertLoaded(t, cfg)
}

func TestLoadFromFile_TOML(t *testing.T) {
	path := writeTemp(t, "fire.toml", testTOML)
	cfg, err := noEnv(NewInputParser()).LoadFromFile(path)
	require.NoError(t, err)
	assertLoaded(t, cfg)
}

func TestLoadFromFile_Errors(t *testing.T) {
	parser := noEnv(NewInputParser())

	_, err := parser.LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = parser.LoadFromFile(writeTemp(t, "fire.json", "{}"))
	assert.ErrorIs(t, err, ErrUnsupportedFileType)

	_, err = parser.LoadFromFile(writeTemp(t, "bad.yaml", "profile: [unclosed"))
	assert.Error(t, err)

	_, err = parser.LoadFromFile(writeTemp(t, "bad.toml", "profile = "))
	assert.Error(t, err)
}

func TestLoadFromFile_ValidationErrors(t *testing.T) {
	parser := noEnv(NewInputParser())

	badYear := writeTemp(t, "year.yaml", strings.Replace(testYAML, "target_year: 2035", "target_year: 2020", 1))
	_, err := parser.LoadFromFile(badYear)
	assert.ErrorIs(t, err, domain.ErrInvalidTimeRange)

	badUnits := writeTemp(t, "units.yaml", strings.Replace(testYAML, "units: 8", "units: -8", 1))
	_, err = parser.LoadFromFile(badUnits)
	assert.ErrorIs(t, err, domain.ErrInvalidHolding)
}

func TestApplyEnvOverrides(t *testing.T) {
	env := map[string]string{
		EnvCurrentAge:     "45",
		EnvTargetYear:     "2040",
		EnvWithdrawalRate: "0.035",
		EnvAnnualExpenses: "42000",
		EnvLogLevel:       "DEBUG",
	}
	parser := NewInputParser()
	parser.LookupEnv = func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg, err := parser.LoadFromFile(writeTemp(t, "fire.yaml", testYAML))
	require.NoError(t, err)
	assert.Equal(t, 45, cfg.Profile.CurrentAge)
	assert.Equal(t, 2040, cfg.Profile.TargetYear)
	assert.Equal(t, 2025, cfg.Assumptions.BaseYear)
	assert.True(t, cfg.Assumptions.Withdrawal.Rate.Equal(decimal.RequireFromString("0.035")))
	assert.True(t, cfg.Target.AnnualExpenses.Equal(decimal.NewFromInt(42000)))
	assert.Equal(t, "debug", parser.LogLevel())

	env[EnvBaseYear] = "next year"
	_, err = parser.LoadFromFile(writeTemp(t, "fire.yaml", testYAML))
	assert.ErrorContains(t, err, EnvBaseYear)

	delete(env, EnvBaseYear)
	env[EnvTaxRate] = "a third"
	_, err = parser.LoadFromFile(writeTemp(t, "fire.yaml", testYAML))
	assert.ErrorContains(t, err, EnvTaxRate)
}

func TestLoadEnvFile(t *testing.T) {
	envFile := writeTemp(t, ".env", "FIRE_CURRENT_AGE=50\nFIRE_TAX_RATE=0.25\nFIRE_LOG_LEVEL=warn\n")

	parser := NewInputParser()
	parser.LookupEnv = func(k string) (string, bool) {
		if k == EnvCurrentAge {
			return "41", true
		}
		return "", false
	}
	require.NoError(t, parser.LoadEnvFile(envFile))

	cfg, err := parser.LoadFromFile(writeTemp(t, "fire.yaml", testYAML))
	require.NoError(t, err)
	// the real environment wins over the file
	assert.Equal(t, 41, cfg.Profile.CurrentAge)
	assert.True(t, cfg.Assumptions.Withdrawal.TaxRate.Equal(decimal.RequireFromString("0.25")))
	assert.Equal(t, "warn", parser.LogLevel())

	assert.Error(t, parser.LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")))
}

func TestValidateConfiguration(t *testing.T) {
	parser := NewInputParser()

	t.Run("example is valid", func(t *testing.T) {
		assert.NoError(t, parser.ValidateConfiguration(parser.CreateExampleConfiguration()))
	})

	t.Run("nil", func(t *testing.T) {
		assert.Error(t, parser.ValidateConfiguration(nil))
	})

	t.Run("missing age", func(t *testing.T) {
		cfg := parser.CreateExampleConfiguration()
		cfg.Profile.CurrentAge = 0
		assert.ErrorContains(t, parser.ValidateConfiguration(cfg), "age")
	})

	t.Run("zero expenses", func(t *testing.T) {
		cfg := parser.CreateExampleConfiguration()
		cfg.Target = domain.FireTarget{}
		assert.NoError(t, parser.ValidateConfiguration(cfg))
	})

	t.Run("negative expenses", func(t *testing.T) {
		cfg := parser.CreateExampleConfiguration()
		cfg.Target = domain.FireTarget{AnnualExpenses: decimal.NewFromInt(-1)}
		assert.ErrorContains(t, parser.ValidateConfiguration(cfg), "expenses")
	})

	t.Run("monthly expenses are enough", func(t *testing.T) {
		cfg := parser.CreateExampleConfiguration()
		cfg.Target = domain.FireTarget{MonthlyExpenses: decimal.NewFromInt(3000)}
		assert.NoError(t, parser.ValidateConfiguration(cfg))
	})

	t.Run("duplicate scenario", func(t *testing.T) {
		cfg := parser.CreateExampleConfiguration()
		cfg.Scenarios[1].Name = cfg.Scenarios[0].Name
		assert.ErrorContains(t, parser.ValidateConfiguration(cfg), "duplicate")
	})

	t.Run("no scenarios", func(t *testing.T) {
		cfg := parser.CreateExampleConfiguration()
		cfg.Scenarios = nil
		assert.Error(t, parser.ValidateConfiguration(cfg))
	})
}

func TestLoadFromFile_ZeroTargetCrossesInBaseYear(t *testing.T) {
	content := strings.Replace(testYAML, "annual_expenses: 36000", "annual_expenses: 0", 1)
	cfg, err := noEnv(NewInputParser()).LoadFromFile(writeTemp(t, "fire.yaml", content))
	require.NoError(t, err)
	assert.True(t, cfg.Target.Value().IsZero())

	report, err := calculation.NewCalculationEngine().RunScenarios(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, report.Crossings, len(cfg.Scenarios))
	for _, c := range report.Crossings {
		assert.True(t, c.Reached, c.Scenario)
		assert.Equal(t, 2025, c.Year, c.Scenario)
		assert.Equal(t, 40, c.Age, c.Scenario)
	}
	assert.Empty(t, report.Messages)
}

func TestCreateExampleConfiguration(t *testing.T) {
	cfg := NewInputParser().CreateExampleConfiguration()

	names := make([]string, 0, len(cfg.Scenarios))
	for _, s := range cfg.Scenarios {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Optimistic", "Moderate", "Conservative", "Forecast 2040"}, names)
	assert.Equal(t, 2025, cfg.Assumptions.BaseYear)
	assert.Equal(t, 2035, cfg.Profile.TargetYear)

	// the example survives a YAML round trip through the loader
	data, err := yaml.Marshal(cfg)
	require.NoError(t, err)
	loaded, err := noEnv(NewInputParser()).LoadFromFile(writeTemp(t, "example.yaml", string(data)))
	require.NoError(t, err)
	assert.Equal(t, names[3], loaded.Scenarios[3].Name)
	assert.True(t, loaded.Scenarios[3].PerAssetForecast.ForecastPrices["BTC"].Equal(decimal.NewFromInt(250000)))
}

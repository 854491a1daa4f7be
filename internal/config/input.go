package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cryptofire/fire-calculator/internal/domain"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file values.
const (
	EnvCurrentAge     = "FIRE_CURRENT_AGE"
	EnvBaseYear       = "FIRE_BASE_YEAR"
	EnvTargetYear     = "FIRE_TARGET_YEAR"
	EnvConversionRate = "FIRE_CONVERSION_RATE"
	EnvWithdrawalRate = "FIRE_WITHDRAWAL_RATE"
	EnvTaxRate        = "FIRE_TAX_RATE"
	EnvAnnualExpenses = "FIRE_ANNUAL_EXPENSES"
	EnvLogLevel       = "FIRE_LOG_LEVEL"
)

// ErrUnsupportedFileType is returned for configuration files that are neither
// YAML nor TOML.
var ErrUnsupportedFileType = errors.New("unsupported configuration file type")

// InputParser handles parsing of input configuration files
type InputParser struct {
	// LookupEnv reads override values; nil uses the process environment.
	LookupEnv func(key string) (string, bool)

	dotenv map[string]string
}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadEnvFile reads KEY=value pairs from a .env file. Values from the real
// environment take precedence over the file.
func (ip *InputParser) LoadEnvFile(path string) error {
	values, err := godotenv.Read(path)
	if err != nil {
		return fmt.Errorf("failed to read env file %s: %w", path, err)
	}
	if ip.dotenv == nil {
		ip.dotenv = make(map[string]string, len(values))
	}
	for k, v := range values {
		ip.dotenv[k] = v
	}
	return nil
}

func (ip *InputParser) lookup(key string) (string, bool) {
	lookupEnv := ip.LookupEnv
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}
	if v, ok := lookupEnv(key); ok && v != "" {
		return v, true
	}
	v, ok := ip.dotenv[key]
	return v, ok && v != ""
}

// LogLevel returns the log level requested through the environment, or "".
func (ip *InputParser) LogLevel() string {
	level, _ := ip.lookup(EnvLogLevel)
	return strings.ToLower(level)
}

// LoadFromFile loads configuration from a YAML or TOML file, applies
// environment overrides and validates the result.
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	config, err := ip.Parse(data, filepath.Ext(filename))
	if err != nil {
		return nil, err
	}

	if err := ip.ApplyEnvOverrides(config); err != nil {
		return nil, err
	}

	if err := ip.ValidateConfiguration(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Parse decodes data according to the file extension (".yaml", ".yml" or
// ".toml").
func (ip *InputParser) Parse(data []byte, ext string) (*domain.Configuration, error) {
	var config domain.Configuration
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFileType, ext)
	}
	return &config, nil
}

// ApplyEnvOverrides applies FIRE_* environment variable overrides to config.
func (ip *InputParser) ApplyEnvOverrides(config *domain.Configuration) error {
	ints := []struct {
		key string
		dst *int
	}{
		{EnvCurrentAge, &config.Profile.CurrentAge},
		{EnvBaseYear, &config.Assumptions.BaseYear},
		{EnvTargetYear, &config.Profile.TargetYear},
	}
	for _, o := range ints {
		v, ok := ip.lookup(o.key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", o.key, v, err)
		}
		*o.dst = n
	}

	decimals := []struct {
		key string
		dst *decimal.Decimal
	}{
		{EnvConversionRate, &config.Assumptions.ConversionRate},
		{EnvWithdrawalRate, &config.Assumptions.Withdrawal.Rate},
		{EnvTaxRate, &config.Assumptions.Withdrawal.TaxRate},
		{EnvAnnualExpenses, &config.Target.AnnualExpenses},
	}
	for _, o := range decimals {
		v, ok := ip.lookup(o.key)
		if !ok {
			continue
		}
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", o.key, v, err)
		}
		*o.dst = d
	}
	return nil
}

// ValidateConfiguration validates the loaded configuration with defaults
// applied, the same way the engine will see it.
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if config == nil {
		return fmt.Errorf("configuration is required")
	}
	resolved := config.WithDefaults()
	if resolved.Profile.CurrentAge == 0 && config.Profile.BirthDate == nil {
		return fmt.Errorf("either current age or birth date is required")
	}
	return resolved.Validate()
}

// CreateExampleConfiguration creates an example configuration file
func (ip *InputParser) CreateExampleConfiguration() *domain.Configuration {
	return &domain.Configuration{
		Profile: domain.Profile{
			CurrentAge: 40,
			TargetYear: 2035,
		},
		Assumptions: domain.Assumptions{
			BaseYear:       2025,
			ConversionRate: decimal.NewFromFloat(0.92),
			Currency:       domain.DefaultCurrency,
			Withdrawal: domain.WithdrawalPolicy{
				Rate:    decimal.NewFromFloat(0.04),
				TaxRate: decimal.NewFromFloat(0.33),
			},
			SearchYears: domain.DefaultSearchYears,
		},
		Portfolio: domain.Portfolio{
			Holdings: []domain.Holding{
				{Asset: domain.Asset{Symbol: "BTC", CurrentPrice: decimal.NewFromInt(95000)}, Units: decimal.NewFromFloat(0.5)},
				{Asset: domain.Asset{Symbol: "ETH", CurrentPrice: decimal.NewFromInt(3200)}, Units: decimal.NewFromInt(8)},
			},
			Cash: decimal.NewFromInt(10000),
		},
		Scenarios: []domain.ScenarioDefinition{
			domain.NewFixedRateScenario("Optimistic", decimal.NewFromFloat(0.10)),
			domain.NewFixedRateScenario("Moderate", decimal.NewFromFloat(0.06)),
			domain.NewFixedRateScenario("Conservative", decimal.NewFromFloat(0.03)),
			domain.NewPerAssetForecastScenario("Forecast 2040", 2040, map[string]decimal.Decimal{
				"BTC": decimal.NewFromInt(250000),
				"ETH": decimal.NewFromInt(10000),
			}, decimal.NewFromFloat(0.06)),
		},
		Horizons: domain.DefaultHorizons(),
		Target: domain.FireTarget{
			AnnualExpenses: decimal.NewFromInt(36000),
		},
	}
}

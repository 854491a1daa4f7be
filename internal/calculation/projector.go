package calculation

import (
	"github.com/cryptofire/fire-calculator/internal/domain"
	"github.com/cryptofire/fire-calculator/pkg/dateutil"
	money "github.com/cryptofire/fire-calculator/pkg/decimal"
	"github.com/shopspring/decimal"
)

// ScenarioProjector evaluates a growth model at every horizon.
type ScenarioProjector struct {
	BaseYear   int
	CurrentAge int
	Withdrawal domain.WithdrawalPolicy
	Logger     Logger
}

// NewScenarioProjector creates a projector for one request.
func NewScenarioProjector(cfg *domain.Configuration, logger Logger) *ScenarioProjector {
	if logger == nil {
		logger = NopLogger{}
	}
	return &ScenarioProjector{
		BaseYear:   cfg.Assumptions.BaseYear,
		CurrentAge: cfg.Profile.CurrentAge,
		Withdrawal: cfg.Assumptions.Withdrawal,
		Logger:     logger,
	}
}

// Project returns one row per horizon, in horizon order. Absolute horizons
// come from the model's own curve; chained horizons compound the previous
// row's value through model.Chain. Stored amounts are rounded to cents;
// chaining continues from the unrounded value.
func (sp *ScenarioProjector) Project(scenario string, model GrowthModel, horizons []domain.ResolvedHorizon) []domain.ProjectionRow {
	rows := make([]domain.ProjectionRow, 0, len(horizons))
	var previous decimal.Decimal
	for _, h := range horizons {
		var value decimal.Decimal
		if h.Chained {
			value = model.Chain(previous, h.Offset)
		} else {
			value = model.PortfolioValueAt(h.Year)
		}
		annual, monthly := NetIncome(value, sp.Withdrawal)
		rows = append(rows, domain.ProjectionRow{
			Scenario:         scenario,
			Horizon:          h.Label,
			Year:             h.Year,
			Age:              dateutil.AgeAt(sp.CurrentAge, sp.BaseYear, h.Year),
			PortfolioValue:   money.NewMoneyFromDecimal(value).Round().Decimal,
			NetAnnualIncome:  annual,
			NetMonthlyIncome: monthly,
		})
		sp.Logger.Debugf("scenario %s: %s (%d) value=%s net_annual=%s", scenario, h.Label, h.Year, money.NewMoneyFromDecimal(value), money.NewMoneyFromDecimal(annual))
		previous = value
	}
	return rows
}

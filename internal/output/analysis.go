package output

import (
	"sort"

	"github.com/cryptofire/fire-calculator/internal/calculation"
	"github.com/cryptofire/fire-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// Recommendation encapsulates the selection result of the best scenario.
type Recommendation struct {
	// ScenarioName is the scenario with the highest net income at the first horizon.
	ScenarioName     string
	FirstHorizonNet  decimal.Decimal
	NetIncomeChange  decimal.Decimal
	PercentageChange decimal.Decimal
	// EarliestCrossing is the scenario that reaches the target first.
	EarliestCrossing string
	CrossingYear     int
	CrossingAge      int
}

// AnalyzeScenarios picks the scenario with the highest first-horizon net
// income and compares it with the income the portfolio supports today.
// Ties keep the scenario that comes first in the report.
func AnalyzeScenarios(report *domain.ProjectionReport) Recommendation {
	baseline := report.BaselineNetIncome
	type ranked struct {
		name   string
		income decimal.Decimal
	}
	var ranks []ranked
	for _, name := range report.Scenarios {
		rows := report.RowsFor(name)
		if len(rows) == 0 {
			continue
		}
		ranks = append(ranks, ranked{name, rows[0].NetAnnualIncome})
	}
	if len(ranks) == 0 {
		return Recommendation{}
	}
	sort.SliceStable(ranks, func(i, j int) bool { return ranks[i].income.GreaterThan(ranks[j].income) })
	best := ranks[0]
	delta := best.income.Sub(baseline)
	pct := decimal.Zero
	if !baseline.IsZero() {
		pct = delta.Div(baseline).Mul(decimalHundred)
	}
	rec := Recommendation{ScenarioName: best.name, FirstHorizonNet: best.income, NetIncomeChange: delta, PercentageChange: pct}
	if c, ok := calculation.EarliestCrossing(report); ok {
		rec.EarliestCrossing = c.Scenario
		rec.CrossingYear = c.Year
		rec.CrossingAge = c.Age
	}
	return rec
}

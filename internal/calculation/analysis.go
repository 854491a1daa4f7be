package calculation

import (
	"github.com/cryptofire/fire-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// HorizonComparison ranks the scenarios at one horizon.
type HorizonComparison struct {
	Horizon       string
	Year          int
	BestScenario  string
	BestValue     decimal.Decimal
	WorstScenario string
	WorstValue    decimal.Decimal
	// Spread is BestValue - WorstValue.
	Spread decimal.Decimal
}

// CompareHorizons returns one comparison per horizon in horizon order. Ties
// keep the scenario that comes first in the report.
func CompareHorizons(report *domain.ProjectionReport) []HorizonComparison {
	var order []string
	byHorizon := make(map[string]*HorizonComparison)
	for _, row := range report.Rows {
		hc, ok := byHorizon[row.Horizon]
		if !ok {
			hc = &HorizonComparison{
				Horizon:       row.Horizon,
				Year:          row.Year,
				BestScenario:  row.Scenario,
				BestValue:     row.PortfolioValue,
				WorstScenario: row.Scenario,
				WorstValue:    row.PortfolioValue,
			}
			byHorizon[row.Horizon] = hc
			order = append(order, row.Horizon)
			continue
		}
		if row.PortfolioValue.GreaterThan(hc.BestValue) {
			hc.BestScenario, hc.BestValue = row.Scenario, row.PortfolioValue
		}
		if row.PortfolioValue.LessThan(hc.WorstValue) {
			hc.WorstScenario, hc.WorstValue = row.Scenario, row.PortfolioValue
		}
	}

	out := make([]HorizonComparison, 0, len(order))
	for _, h := range order {
		hc := byHorizon[h]
		hc.Spread = hc.BestValue.Sub(hc.WorstValue)
		out = append(out, *hc)
	}
	return out
}

// EarliestCrossing returns the reached crossing with the smallest year.
func EarliestCrossing(report *domain.ProjectionReport) (domain.CrossingResult, bool) {
	var best domain.CrossingResult
	found := false
	for _, c := range report.Crossings {
		if !c.Reached {
			continue
		}
		if !found || c.Year < best.Year {
			best = c
			found = true
		}
	}
	return best, found
}

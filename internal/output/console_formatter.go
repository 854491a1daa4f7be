package output

import (
	"bytes"
	"fmt"

	"github.com/cryptofire/fire-calculator/internal/calculation"
	"github.com/cryptofire/fire-calculator/internal/domain"
)

// ConsoleFormatter provides a console style summary via the formatter interface.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(report *domain.ProjectionReport) ([]byte, error) {
	var buf bytes.Buffer
	cur := report.Currency
	fmt.Fprintln(&buf, "FIRE PROJECTION SUMMARY")
	fmt.Fprintln(&buf, "================================")
	fmt.Fprintf(&buf, "Base year: %d  Target year: %d  Current age: %d\n", report.BaseYear, report.TargetYear, report.CurrentAge)
	fmt.Fprintf(&buf, "Portfolio today: %s (net income %s/yr)\n", FormatCurrency(report.StartValue, cur), FormatCurrency(report.BaselineNetIncome, cur))
	fmt.Fprintf(&buf, "FIRE target: %s\n", FormatCurrency(report.TargetValue, cur))

	for _, name := range report.Scenarios {
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "%s\n", name)
		if report.Failed(name) {
			for _, m := range report.Messages {
				if m.Scenario == name && m.Level == domain.LevelCritical {
					fmt.Fprintf(&buf, "  SKIPPED [%s]: %s\n", m.Code, m.Message)
				}
			}
			continue
		}
		for _, row := range report.RowsFor(name) {
			fmt.Fprintf(&buf, "  %s (%d, age %d): %s | net %s/yr | %s/mo\n",
				row.Horizon, row.Year, row.Age,
				FormatCurrency(row.PortfolioValue, cur),
				FormatCurrency(row.NetAnnualIncome, cur),
				FormatCurrency(row.NetMonthlyIncome, cur))
		}
		if c, ok := report.CrossingFor(name); ok {
			if c.Reached {
				fmt.Fprintf(&buf, "  Target reached in %d at age %d (rate %s)\n", c.Year, c.Age, FormatRate(c.Rate))
			} else {
				fmt.Fprintf(&buf, "  Target not reached by %d (rate %s)\n", c.CapYear, FormatRate(c.Rate))
			}
		}
	}

	if comparisons := calculation.CompareHorizons(report); len(comparisons) > 0 {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "Best by horizon:")
		for _, hc := range comparisons {
			fmt.Fprintf(&buf, "  %s (%d): %s %s, spread %s\n", hc.Horizon, hc.Year, hc.BestScenario,
				FormatCurrency(hc.BestValue, cur), FormatCurrency(hc.Spread, cur))
		}
	}

	rec := AnalyzeScenarios(report)
	if rec.ScenarioName != "" {
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "Recommended: %s (Δ %s / %s)\n", rec.ScenarioName, FormatCurrency(rec.NetIncomeChange, cur), FormatPercentage(rec.PercentageChange))
	}
	if rec.EarliestCrossing != "" {
		fmt.Fprintf(&buf, "Earliest FIRE: %s in %d at age %d\n", rec.EarliestCrossing, rec.CrossingYear, rec.CrossingAge)
	}

	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "Assumptions:")
	for _, a := range reportAssumptions(report) {
		fmt.Fprintf(&buf, "  - %s\n", a)
	}
	return buf.Bytes(), nil
}

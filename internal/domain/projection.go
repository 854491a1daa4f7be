package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProjectionRow is the value and income of one scenario at one horizon.
type ProjectionRow struct {
	Scenario         string          `json:"scenario"`
	Horizon          string          `json:"horizon"`
	Year             int             `json:"year"`
	Age              int             `json:"age"`
	PortfolioValue   decimal.Decimal `json:"portfolio_value"`
	NetAnnualIncome  decimal.Decimal `json:"net_annual_income"`
	NetMonthlyIncome decimal.Decimal `json:"net_monthly_income"`
}

// CrossingResult is the first year a scenario's value meets the target.
// When Reached is false the target was not met by the search cap and Year
// and Age are zero.
type CrossingResult struct {
	Scenario string          `json:"scenario"`
	Reached  bool            `json:"reached"`
	Year     int             `json:"year,omitempty"`
	Age      int             `json:"age,omitempty"`
	Rate     decimal.Decimal `json:"rate"`
	CapYear  int             `json:"cap_year"`
}

// Message levels.
const (
	LevelWarning  = "WARNING"
	LevelCritical = "CRITICAL"
)

// ScenarioMessage records why a scenario was skipped or degraded.
type ScenarioMessage struct {
	Scenario string `json:"scenario"`
	Level    string `json:"level"`
	Code     string `json:"code"`
	Message  string `json:"message"`
}

// ProjectionReport is the ordered result of one calculation request. Rows
// are grouped by scenario in request order, then by horizon; Crossings
// follow the same scenario order.
type ProjectionReport struct {
	ID                string            `json:"id"`
	GeneratedAt       time.Time         `json:"generated_at"`
	BaseYear          int               `json:"base_year"`
	TargetYear        int               `json:"target_year"`
	CurrentAge        int               `json:"current_age"`
	Currency          string            `json:"currency"`
	StartValue        decimal.Decimal   `json:"start_value"`
	// BaselineNetIncome is the net annual income StartValue supports today.
	BaselineNetIncome decimal.Decimal   `json:"baseline_net_income"`
	TargetValue       decimal.Decimal   `json:"target_value"`
	Scenarios         []string          `json:"scenarios"`
	Rows              []ProjectionRow   `json:"rows"`
	Crossings         []CrossingResult  `json:"crossings"`
	Messages          []ScenarioMessage `json:"messages"`
	Assumptions       []string          `json:"assumptions"`
}

// RowsFor returns the rows of one scenario in horizon order.
func (r *ProjectionReport) RowsFor(scenario string) []ProjectionRow {
	var rows []ProjectionRow
	for _, row := range r.Rows {
		if row.Scenario == scenario {
			rows = append(rows, row)
		}
	}
	return rows
}

// CrossingFor returns the crossing result of one scenario.
func (r *ProjectionReport) CrossingFor(scenario string) (CrossingResult, bool) {
	for _, c := range r.Crossings {
		if c.Scenario == scenario {
			return c, true
		}
	}
	return CrossingResult{}, false
}

// Failed reports whether the scenario was skipped.
func (r *ProjectionReport) Failed(scenario string) bool {
	for _, m := range r.Messages {
		if m.Scenario == scenario && m.Level == LevelCritical {
			return true
		}
	}
	return false
}

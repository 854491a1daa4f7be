package output

import "github.com/cryptofire/fire-calculator/internal/domain"

// DefaultAssumptions lists key modeling assumptions rendered when a report
// carries none of its own.
var DefaultAssumptions = []string{
	"Growth is deterministic point-to-point extrapolation",
	"Withdrawals are a fixed share of the portfolio value per year",
	"Capital gains tax applies to the full withdrawn amount",
	"Cash is carried at face value and does not grow",
}

// reportAssumptions returns the report's assumptions, falling back to the defaults.
func reportAssumptions(report *domain.ProjectionReport) []string {
	if len(report.Assumptions) == 0 {
		return DefaultAssumptions
	}
	return report.Assumptions
}

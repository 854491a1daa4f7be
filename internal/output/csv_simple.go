package output

import (
	"bytes"
	"encoding/csv"

	"github.com/cryptofire/fire-calculator/internal/domain"
)

// CSVRowsFormatter writes one CSV row per scenario and horizon, in report order.
type CSVRowsFormatter struct{}

func (c CSVRowsFormatter) Name() string { return "csv" }

func (c CSVRowsFormatter) Format(report *domain.ProjectionReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "Horizon", "Year", "Age", "PortfolioValue", "NetAnnualIncome", "NetMonthlyIncome"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, row := range report.Rows {
		record := []string{
			row.Scenario,
			row.Horizon,
			intToString(row.Year),
			intToString(row.Age),
			row.PortfolioValue.StringFixed(2),
			row.NetAnnualIncome.StringFixed(2),
			row.NetMonthlyIncome.StringFixed(2),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

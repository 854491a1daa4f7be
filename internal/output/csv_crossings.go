package output

import (
	"bytes"
	"encoding/csv"

	"github.com/cryptofire/fire-calculator/internal/domain"
)

// CSVCrossingsFormatter writes one CSV row per scenario with its target
// crossing. Skipped scenarios are listed with status "skipped".
type CSVCrossingsFormatter struct{}

func (c CSVCrossingsFormatter) Name() string { return "crossings-csv" }

func (c CSVCrossingsFormatter) Format(report *domain.ProjectionReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "Status", "Reached", "Year", "Age", "Rate", "CapYear"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, name := range report.Scenarios {
		cr, ok := report.CrossingFor(name)
		var record []string
		switch {
		case !ok:
			record = []string{name, "skipped", boolToString(false), "", "", "", ""}
		case cr.Reached:
			record = []string{name, "reached", boolToString(true), intToString(cr.Year), intToString(cr.Age), cr.Rate.StringFixed(6), intToString(cr.CapYear)}
		default:
			record = []string{name, "not_reached", boolToString(false), "", "", cr.Rate.StringFixed(6), intToString(cr.CapYear)}
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

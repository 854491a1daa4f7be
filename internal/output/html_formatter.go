package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/cryptofire/fire-calculator/internal/calculation"
	"github.com/cryptofire/fire-calculator/internal/domain"
	"github.com/goccy/go-json"
)

// HTMLFormatter produces a standalone HTML report.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr": FormatCurrency,
	"pct":  FormatPercentage,
	"rate": FormatRate,
	"json": func(v any) template.JS {
		b, _ := json.Marshal(v)
		return template.JS(b)
	},
}).Parse(htmlTemplateSource))

type htmlScenario struct {
	Name     string
	Rows     []domain.ProjectionRow
	Crossing *domain.CrossingResult
	Messages []domain.ScenarioMessage
	Failed   bool
}

func (h HTMLFormatter) Format(report *domain.ProjectionReport) ([]byte, error) {
	var buf bytes.Buffer

	scenarios := make([]htmlScenario, 0, len(report.Scenarios))
	for _, name := range report.Scenarios {
		s := htmlScenario{Name: name, Rows: report.RowsFor(name), Failed: report.Failed(name)}
		if c, ok := report.CrossingFor(name); ok {
			s.Crossing = &c
		}
		for _, m := range report.Messages {
			if m.Scenario == name {
				s.Messages = append(s.Messages, m)
			}
		}
		scenarios = append(scenarios, s)
	}

	data := struct {
		*domain.ProjectionReport
		ScenarioViews  []htmlScenario
		Horizons       []calculation.HorizonComparison
		Recommendation Recommendation
		AssumptionList []string
	}{
		ProjectionReport: report,
		ScenarioViews:    scenarios,
		Horizons:         calculation.CompareHorizons(report),
		Recommendation:   AnalyzeScenarios(report),
		AssumptionList:   reportAssumptions(report),
	}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

package calculation

import (
	"context"
	"fmt"

	"github.com/cryptofire/fire-calculator/internal/domain"
	"golang.org/x/sync/errgroup"
)

// Message codes attached to skipped scenarios.
const (
	CodeInvalidGrowthInput = "INVALID_GROWTH_INPUT"
	CodeTargetNotReached   = "TARGET_NOT_REACHED"
)

// CalculationEngine orchestrates the projection of every scenario in a request
type CalculationEngine struct {
	// Concurrent evaluates scenarios in parallel; results keep request order.
	Concurrent bool
	Logger     Logger
}

// NewCalculationEngine creates a new calculation engine
func NewCalculationEngine() *CalculationEngine {
	return &CalculationEngine{Logger: NopLogger{}}
}

// SetLogger sets the logger for the calculation engine. If nil is provided, a no-op logger is used.
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		ce.Logger = NopLogger{}
		return
	}
	ce.Logger = l
}

// scenarioOutcome is the result of one scenario before it is merged into the report.
type scenarioOutcome struct {
	rows     []domain.ProjectionRow
	crossing *domain.CrossingResult
	messages []domain.ScenarioMessage
}

// RunScenarios projects every scenario at every horizon and searches each
// scenario's target crossing. Request-level errors (time range, holdings,
// withdrawal policy) fail the whole call. A scenario whose growth input is
// invalid is skipped and reported with a CRITICAL message.
func (ce *CalculationEngine) RunScenarios(ctx context.Context, config *domain.Configuration) (*domain.ProjectionReport, error) {
	if config == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	cfg := config.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	horizons, err := domain.ResolveHorizons(cfg.Assumptions.BaseYear, cfg.Profile.TargetYear, cfg.Horizons)
	if err != nil {
		return nil, err
	}

	startValue := cfg.Portfolio.Value(cfg.Assumptions.ConversionRate)
	baseline, _ := NetIncome(startValue, cfg.Assumptions.Withdrawal)
	targetValue := cfg.Target.Value()
	capYear := cfg.Assumptions.CapYear()
	projector := NewScenarioProjector(&cfg, ce.Logger)

	ce.Logger.Infof("running %d scenarios from %d (start value %s, target %s, search through %d)",
		len(cfg.Scenarios), cfg.Assumptions.BaseYear, startValue.StringFixed(2), targetValue.StringFixed(2), capYear)

	evaluate := func(def domain.ScenarioDefinition) scenarioOutcome {
		model, err := NewGrowthModel(def, cfg.Assumptions, cfg.Portfolio)
		if err != nil {
			ce.Logger.Warnf("skipping scenario %s: %v", def.Name, err)
			return scenarioOutcome{messages: []domain.ScenarioMessage{{
				Scenario: def.Name,
				Level:    domain.LevelCritical,
				Code:     CodeInvalidGrowthInput,
				Message:  err.Error(),
			}}}
		}

		out := scenarioOutcome{rows: projector.Project(def.Name, model, horizons)}
		crossing := FindCrossing(CrossingInput{
			StartValue: startValue,
			Rate:       model.CrossingRate(),
			Target:     targetValue,
			StartYear:  cfg.Assumptions.BaseYear,
			StartAge:   cfg.Profile.CurrentAge,
			CapYear:    capYear,
		})
		crossing.Scenario = def.Name
		out.crossing = &crossing
		if crossing.Reached {
			ce.Logger.Debugf("scenario %s reaches target in %d at age %d", def.Name, crossing.Year, crossing.Age)
		} else {
			out.messages = append(out.messages, domain.ScenarioMessage{
				Scenario: def.Name,
				Level:    domain.LevelWarning,
				Code:     CodeTargetNotReached,
				Message:  fmt.Sprintf("target not reached by %d", capYear),
			})
		}
		return out
	}

	outcomes := make([]scenarioOutcome, len(cfg.Scenarios))
	if ce.Concurrent {
		g, gctx := errgroup.WithContext(ctx)
		for i, def := range cfg.Scenarios {
			i, def := i, def
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				outcomes[i] = evaluate(def)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, def := range cfg.Scenarios {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			outcomes[i] = evaluate(def)
		}
	}

	report := &domain.ProjectionReport{
		ID:                idFunc(),
		GeneratedAt:       nowFunc(),
		BaseYear:          cfg.Assumptions.BaseYear,
		TargetYear:        cfg.Profile.TargetYear,
		CurrentAge:        cfg.Profile.CurrentAge,
		Currency:          cfg.Assumptions.Currency,
		StartValue:        startValue,
		BaselineNetIncome: baseline,
		TargetValue:       targetValue,
		Scenarios:         make([]string, 0, len(cfg.Scenarios)),
		Rows:              make([]domain.ProjectionRow, 0, len(cfg.Scenarios)*len(horizons)),
		Crossings:         make([]domain.CrossingResult, 0, len(cfg.Scenarios)),
		Messages:          []domain.ScenarioMessage{},
		Assumptions:       cfg.Assumptions.GenerateAssumptions(),
	}
	for i, def := range cfg.Scenarios {
		o := outcomes[i]
		report.Scenarios = append(report.Scenarios, def.Name)
		report.Rows = append(report.Rows, o.rows...)
		if o.crossing != nil {
			report.Crossings = append(report.Crossings, *o.crossing)
		}
		report.Messages = append(report.Messages, o.messages...)
	}
	ce.Logger.Infof("report %s: %d rows, %d crossings, %d messages", report.ID, len(report.Rows), len(report.Crossings), len(report.Messages))
	return report, nil
}

package calculation

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/tgplan/internal/domain"
	"github.com/shopspring/decimal"
)

// Logger is the logging surface the engine needs. *zap.SugaredLogger
// satisfies it.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// NopLogger discards everything
type NopLogger struct{}

func (NopLogger) Debugf(string, ...interface{}) {}
func (NopLogger) Infof(string, ...interface{})  {}
func (NopLogger) Warnf(string, ...interface{})  {}
func (NopLogger) Errorf(string, ...interface{}) {}

// CalculationEngine wires the tax calculators, schedule builder, cascade
// simulator and strategy planner from one regulatory configuration
type CalculationEngine struct {
	Regulatory domain.RegulatoryConfig
	GiftCalc   *BracketTaxCalculator
	EstateCalc *BracketTaxCalculator
	Schedule   *PolicyScheduleBuilder
	Cascade    *GenerationCascadeSimulator
	Planner    *StrategyPlanner
	Logger     Logger
}

// NewCalculationEngine creates an engine with the default regulatory data
func NewCalculationEngine() *CalculationEngine {
	return NewCalculationEngineWithConfig(domain.DefaultRegulatoryConfig())
}

// NewValidatedCalculationEngine validates cfg and creates an engine for it
func NewValidatedCalculationEngine(cfg domain.RegulatoryConfig) (*CalculationEngine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("regulatory config: %w", err)
	}
	return NewCalculationEngineWithConfig(cfg), nil
}

// NewCalculationEngineWithConfig creates an engine for the given regulatory
// data. cfg must already satisfy cfg.Validate(); the config loader guarantees
// that, other callers should use NewValidatedCalculationEngine.
func NewCalculationEngineWithConfig(cfg domain.RegulatoryConfig) *CalculationEngine {
	ce := &CalculationEngine{
		Regulatory: cfg,
		GiftCalc:   NewGiftTaxCalculator(cfg.Tax),
		EstateCalc: NewEstateTaxCalculator(cfg.Tax),
		Schedule:   NewPolicyScheduleBuilder(cfg.Planning),
		Cascade:    NewGenerationCascadeSimulator(cfg.Tax),
		Planner:    NewStrategyPlanner(cfg),
	}
	ce.SetLogger(nil)
	return ce
}

// SetLogger sets the logger on the engine and its components; nil restores the no-op logger
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		l = NopLogger{}
	}
	ce.Logger = l
	ce.Cascade.Logger = l
	ce.Planner.Logger = l
}

// SimulateCascade runs the three-generation comparison
func (ce *CalculationEngine) SimulateCascade(input domain.CascadeInput) (*domain.CascadeResult, error) {
	return ce.Cascade.Simulate(input)
}

// Plan builds the gifting schedule for one strategy
func (ce *CalculationEngine) Plan(input domain.PlanInput) (*domain.PlanSchedule, error) {
	return ce.Planner.Plan(input)
}

// PlanAllStrategies builds one schedule per strategy in enumeration order
func (ce *CalculationEngine) PlanAllStrategies(input domain.PlanInput) ([]domain.PlanSchedule, error) {
	schedules := make([]domain.PlanSchedule, 0, len(domain.AllStrategies))
	for _, s := range domain.AllStrategies {
		in := input
		in.Strategy = s
		schedule, err := ce.Planner.Plan(in)
		if err != nil {
			return nil, fmt.Errorf("strategy %s: %w", s, err)
		}
		schedules = append(schedules, *schedule)
	}
	return schedules, nil
}

// Capacity returns the lowest-bracket capacity reference
func (ce *CalculationEngine) Capacity(donorCount int, perPolicyCap decimal.Decimal) domain.CapacityReference {
	return ce.Planner.Capacity(donorCount, perPolicyCap)
}

// PolicySchedule builds the valuation series for an annual premium
func (ce *CalculationEngine) PolicySchedule(annualPremium decimal.Decimal, horizonYears int, overrides map[int]decimal.Decimal) ([]domain.PolicyYearRecord, error) {
	return ce.Schedule.Build(annualPremium, horizonYears, overrides)
}

// CascadeInputFromScenario converts a file scenario, reading the cash value
// from the policy schedule when it is not given explicitly
func (ce *CalculationEngine) CascadeInputFromScenario(s *domain.CascadeScenario) (domain.CascadeInput, error) {
	input := domain.CascadeInput{
		TotalAssets:        s.TotalAssets,
		Premium:            s.Premium,
		FaceAmount:         s.FaceAmount,
		DonorCount:         s.DonorCount,
		Gen1Descendants:    s.Gen1Descendants,
		Gen2Descendants:    s.Gen2Descendants,
		OwnershipChanged:   s.OwnershipChanged,
		FaceToGen3Directly: s.FaceToGen3Directly,
	}
	if s.CashValueAtGift != nil {
		input.CashValueAtGift = *s.CashValueAtGift
		return input, nil
	}

	if s.ValuationYear < 1 {
		return input, fmt.Errorf("%w: cash_value_at_gift or valuation_year is required", domain.ErrInvalidInput)
	}
	records, err := ce.Schedule.Build(s.Premium, s.ValuationYear, s.CashValueOverrides)
	if err != nil {
		return input, fmt.Errorf("valuing policy at year %d: %w", s.ValuationYear, err)
	}
	input.CashValueAtGift = records[len(records)-1].CashValue
	ce.Logger.Debugf("cash value at year %d resolved to %s", s.ValuationYear, input.CashValueAtGift.String())
	return input, nil
}

// PlanInputFromScenario converts a file scenario into planner input
func PlanInputFromScenario(s *domain.PlanScenario) (domain.PlanInput, error) {
	strategy, err := domain.ParseStrategy(s.Strategy)
	if err != nil {
		return domain.PlanInput{}, err
	}
	mode, err := domain.ParseRPUMode(s.RPUMode)
	if err != nil {
		return domain.PlanInput{}, err
	}
	return domain.PlanInput{
		TargetAnnualPremium: s.TargetAnnualPremium,
		PerPolicyCap:        s.PerPolicyCap,
		Strategy:            strategy,
		RPU: domain.RPUOption{
			Enabled:    s.RPUEnabled,
			Mode:       mode,
			ManualYear: s.ManualRPUYear,
		},
		DonorCount: s.DonorCount,
		Year1Batch: s.Year1Batch,
	}, nil
}

// RunScenario computes every output requested by one scenario
func (ce *CalculationEngine) RunScenario(scenario *domain.Scenario) (*domain.ScenarioResult, error) {
	result := &domain.ScenarioResult{Name: scenario.Name, Description: scenario.Description}

	if scenario.Cascade != nil {
		input, err := ce.CascadeInputFromScenario(scenario.Cascade)
		if err != nil {
			return nil, err
		}
		cascade, err := ce.SimulateCascade(input)
		if err != nil {
			return nil, err
		}
		result.Cascade = cascade
	}

	if scenario.Plan != nil {
		input, err := PlanInputFromScenario(scenario.Plan)
		if err != nil {
			return nil, err
		}
		plan, err := ce.Plan(input)
		if err != nil {
			return nil, err
		}
		result.Plan = plan

		capacity := ce.Capacity(input.DonorCount, input.PerPolicyCap)
		result.Capacity = &capacity

		if scenario.Plan.CompareStrategies {
			strategies, err := ce.PlanAllStrategies(input)
			if err != nil {
				return nil, err
			}
			result.Strategies = strategies
		}
	}

	return result, nil
}

// RunScenarios runs every scenario of a configuration in order
func (ce *CalculationEngine) RunScenarios(ctx context.Context, config *domain.Configuration) (*domain.AnalysisResults, error) {
	results := &domain.AnalysisResults{
		Regulatory: ce.Regulatory,
		Branding:   config.Report,
		Scenarios:  make([]domain.ScenarioResult, 0, len(config.Scenarios)),
	}

	for i := range config.Scenarios {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		scenario := &config.Scenarios[i]
		ce.Logger.Debugf("running scenario %q", scenario.Name)
		result, err := ce.RunScenario(scenario)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
		}
		results.Scenarios = append(results.Scenarios, *result)
	}
	return results, nil
}

// RunScenarioAuto runs the scenario at index
func (ce *CalculationEngine) RunScenarioAuto(ctx context.Context, config *domain.Configuration, index int) (*domain.ScenarioResult, error) {
	if index < 0 || index >= len(config.Scenarios) {
		return nil, fmt.Errorf("scenario index %d out of range", index)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ce.RunScenario(&config.Scenarios[index])
}

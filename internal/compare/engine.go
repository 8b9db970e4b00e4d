package compare

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/tgplan/internal/calculation"
	"github.com/rgehrsitz/tgplan/internal/domain"
)

// StrategyOptimizer enumerates the named strategies for one plan and picks
// the one with the lowest total gift tax
type StrategyOptimizer struct {
	CalcEngine        *calculation.CalculationEngine
	MetricsCalculator *MetricsCalculator
}

// NewStrategyOptimizer creates a new optimizer
func NewStrategyOptimizer(calcEngine *calculation.CalculationEngine) *StrategyOptimizer {
	return &StrategyOptimizer{
		CalcEngine:        calcEngine,
		MetricsCalculator: NewMetricsCalculator(),
	}
}

// Optimize runs every strategy for input, comparing against input.Strategy
func (so *StrategyOptimizer) Optimize(input domain.PlanInput) (*ComparisonSet, error) {
	schedules, err := so.CalcEngine.PlanAllStrategies(input)
	if err != nil {
		return nil, fmt.Errorf("failed to plan strategies: %w", err)
	}
	return so.FromSchedules(input.Strategy, schedules), nil
}

// FromSchedules builds a comparison set from schedules already computed
func (so *StrategyOptimizer) FromSchedules(base domain.Strategy, schedules []domain.PlanSchedule) *ComparisonSet {
	compSet := &ComparisonSet{
		BaseStrategy:       base,
		AlternativeResults: []ComparisonResult{},
	}
	if brackets := so.CalcEngine.Regulatory.Tax.GiftBrackets.Brackets; len(brackets) > 0 {
		compSet.LowestBracket = brackets[0].Label()
	}

	results := make([]ComparisonResult, 0, len(schedules))
	for i := range schedules {
		results = append(results, so.MetricsCalculator.CalculateMetrics(&schedules[i]))
	}

	for i := range results {
		if results[i].Strategy == base {
			baseResult := results[i]
			compSet.BaseResult = &baseResult
			break
		}
	}
	for _, r := range results {
		if r.Strategy == base {
			continue
		}
		if compSet.BaseResult != nil {
			r = so.MetricsCalculator.CalculateComparison(r, *compSet.BaseResult)
		}
		compSet.AlternativeResults = append(compSet.AlternativeResults, r)
	}

	if best := BestIndex(results); best >= 0 {
		compSet.Recommended = results[best].Strategy
	}
	compSet.Recommendations = GenerateRecommendations(compSet)
	return compSet
}

// CompareScenario optimizes the plan block of the named scenario
func (so *StrategyOptimizer) CompareScenario(ctx context.Context, config *domain.Configuration, scenarioName string) (*ComparisonSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var scenario *domain.Scenario
	for i := range config.Scenarios {
		if config.Scenarios[i].Name == scenarioName {
			scenario = &config.Scenarios[i]
			break
		}
	}
	if scenario == nil {
		return nil, fmt.Errorf("scenario %s not found in configuration", scenarioName)
	}
	if scenario.Plan == nil {
		return nil, fmt.Errorf("scenario %s has no plan block", scenarioName)
	}

	input, err := calculation.PlanInputFromScenario(scenario.Plan)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenarioName, err)
	}
	compSet, err := so.Optimize(input)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenarioName, err)
	}
	compSet.ScenarioName = scenarioName
	return compSet, nil
}

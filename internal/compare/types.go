package compare

import (
	"fmt"

	"github.com/rgehrsitz/tgplan/internal/domain"
	"github.com/shopspring/decimal"
)

// ComparisonResult represents one strategy's schedule with calculated metrics
type ComparisonResult struct {
	Strategy    domain.Strategy      `json:"strategy"`
	Description string               `json:"description"`
	Schedule    *domain.PlanSchedule `json:"schedule,omitempty"`

	// Key Metrics
	TotalTax        decimal.Decimal `json:"totalTax"`
	RPUYear         int             `json:"rpuYear"`
	FundedYears     int             `json:"fundedYears"` // Years with a premium-funding gift
	TotalGifted     decimal.Decimal `json:"totalGifted"`
	PeakYearTax     decimal.Decimal `json:"peakYearTax"`
	PeakYearBracket string          `json:"peakYearBracket"`

	// Comparison to Base
	TaxDiffFromBase     decimal.Decimal `json:"taxDiffFromBase"`
	GiftedDiffFromBase  decimal.Decimal `json:"giftedDiffFromBase"`
	FundedYearsFromBase int             `json:"fundedYearsFromBase"`
}

// Name returns the strategy name used in tables
func (r ComparisonResult) Name() string {
	return r.Strategy.String()
}

// ComparisonSet represents the strategies evaluated for one plan
type ComparisonSet struct {
	ScenarioName       string             `json:"scenarioName"`
	BaseStrategy       domain.Strategy    `json:"baseStrategy"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommended        domain.Strategy    `json:"recommended"`
	Recommendations    []string           `json:"recommendations"`
	LowestBracket      string             `json:"lowestBracket"`
	ConfigPath         string             `json:"configPath"`
}

// All returns the base result followed by the alternatives
func (cs *ComparisonSet) All() []ComparisonResult {
	all := make([]ComparisonResult, 0, len(cs.AlternativeResults)+1)
	if cs.BaseResult != nil {
		all = append(all, *cs.BaseResult)
	}
	return append(all, cs.AlternativeResults...)
}

// MetricsCalculator extracts key metrics from plan schedules
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics computes all comparison metrics for a schedule
func (mc *MetricsCalculator) CalculateMetrics(schedule *domain.PlanSchedule) ComparisonResult {
	result := ComparisonResult{
		Strategy:        schedule.Strategy,
		Description:     schedule.Strategy.Description(),
		Schedule:        schedule,
		TotalTax:        schedule.TotalTax,
		RPUYear:         schedule.RPUYear,
		TotalGifted:     decimal.Zero,
		PeakYearTax:     decimal.Zero,
		PeakYearBracket: domain.NoBracket,
	}

	for _, row := range schedule.Rows {
		result.TotalGifted = result.TotalGifted.Add(row.GrossGift)
		if row.CashGift.IsPositive() {
			result.FundedYears++
		}
		if row.TaxDue.GreaterThan(result.PeakYearTax) {
			result.PeakYearTax = row.TaxDue
			result.PeakYearBracket = row.Bracket
		}
	}
	return result
}

// CalculateComparison computes comparison metrics between a strategy and the base
func (mc *MetricsCalculator) CalculateComparison(scenario, base ComparisonResult) ComparisonResult {
	scenario.TaxDiffFromBase = scenario.TotalTax.Sub(base.TotalTax)
	scenario.GiftedDiffFromBase = scenario.TotalGifted.Sub(base.TotalGifted)
	scenario.FundedYearsFromBase = scenario.FundedYears - base.FundedYears
	return scenario
}

// BestIndex returns the index of the lowest-total-tax result; ties keep the
// earlier entry
func BestIndex(results []ComparisonResult) int {
	best := -1
	for i := range results {
		if best < 0 || results[i].TotalTax.LessThan(results[best].TotalTax) {
			best = i
		}
	}
	return best
}

// GenerateRecommendations creates recommendations based on comparison results
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}
	all := compSet.All()
	if len(all) == 0 {
		return recommendations
	}

	best := all[BestIndex(all)]
	recommendations = append(recommendations,
		fmt.Sprintf("Lowest Tax: %s pays %s in gift tax over the schedule", best.Name(), best.TotalTax.StringFixed(0)))

	if compSet.BaseResult != nil && best.Strategy != compSet.BaseStrategy {
		savings := compSet.BaseResult.TotalTax.Sub(best.TotalTax)
		recommendations = append(recommendations,
			fmt.Sprintf("Switching from %s to %s saves %s", compSet.BaseStrategy, best.Name(), savings.StringFixed(0)))
	}

	// Longest funding buys the most face amount before conversion
	mostFunded := all[0]
	for _, r := range all[1:] {
		if r.FundedYears > mostFunded.FundedYears {
			mostFunded = r
		}
	}
	if mostFunded.Strategy != best.Strategy {
		extraTax := mostFunded.TotalTax.Sub(best.TotalTax)
		recommendations = append(recommendations,
			fmt.Sprintf("Largest Face: %s funds %d more year(s) for %s additional gift tax",
				mostFunded.Name(), mostFunded.FundedYears-best.FundedYears, extraTax.StringFixed(0)))
	}

	for _, r := range all {
		if compSet.LowestBracket == "" {
			break
		}
		if r.PeakYearBracket != domain.NoBracket && r.PeakYearBracket != compSet.LowestBracket {
			recommendations = append(recommendations,
				fmt.Sprintf("Bracket Warning: %s reaches the %s gift bracket in its peak year", r.Name(), r.PeakYearBracket))
		}
	}

	return recommendations
}

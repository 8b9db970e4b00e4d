package compare

import (
	"testing"

	"github.com/rgehrsitz/tgplan/internal/calculation"
	"github.com/rgehrsitz/tgplan/internal/domain"
	"github.com/shopspring/decimal"
)

func scenarioAInput(strategy domain.Strategy) domain.PlanInput {
	return domain.PlanInput{
		TargetAnnualPremium: decimal.NewFromInt(10_000_000),
		PerPolicyCap:        decimal.NewFromInt(5_000_000),
		Strategy:            strategy,
		RPU:                 domain.RPUOption{Enabled: true},
		DonorCount:          1,
	}
}

func TestMetricsCalculator_CalculateMetrics(t *testing.T) {
	schedule, err := calculation.NewCalculationEngine().Plan(scenarioAInput(domain.FaceMaximizing))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	result := NewMetricsCalculator().CalculateMetrics(schedule)

	if result.Strategy != domain.FaceMaximizing {
		t.Errorf("Expected face_maximizing, got %s", result.Strategy)
	}
	if !result.TotalTax.Equal(decimal.NewFromInt(1_768_000)) {
		t.Errorf("Expected total tax 1768000, got %s", result.TotalTax)
	}
	if result.FundedYears != 2 {
		t.Errorf("Expected 2 funded years, got %d", result.FundedYears)
	}
	// 5,000,000 change value plus two 10,000,000 cash gifts
	if !result.TotalGifted.Equal(decimal.NewFromInt(25_000_000)) {
		t.Errorf("Expected total gifted 25000000, got %s", result.TotalGifted)
	}
	if !result.PeakYearTax.Equal(decimal.NewFromInt(756_000)) {
		t.Errorf("Expected peak year tax 756000, got %s", result.PeakYearTax)
	}
	if result.RPUYear != 4 {
		t.Errorf("Expected RPU year 4, got %d", result.RPUYear)
	}
}

func TestMetricsCalculator_CalculateComparison(t *testing.T) {
	calc := NewMetricsCalculator()

	base := ComparisonResult{Strategy: domain.TaxMinimizing, TotalTax: decimal.NewFromInt(256_000),
		TotalGifted: decimal.NewFromInt(5_000_000)}
	alt := ComparisonResult{Strategy: domain.FacePriority, TotalTax: decimal.NewFromInt(1_012_000),
		TotalGifted: decimal.NewFromInt(15_000_000), FundedYears: 1}

	result := calc.CalculateComparison(alt, base)

	if !result.TaxDiffFromBase.Equal(decimal.NewFromInt(756_000)) {
		t.Errorf("Expected tax diff 756000, got %s", result.TaxDiffFromBase)
	}
	if !result.GiftedDiffFromBase.Equal(decimal.NewFromInt(10_000_000)) {
		t.Errorf("Expected gifted diff 10000000, got %s", result.GiftedDiffFromBase)
	}
	if result.FundedYearsFromBase != 1 {
		t.Errorf("Expected funded years diff 1, got %d", result.FundedYearsFromBase)
	}
}

func TestBestIndex_TiesKeepEnumerationOrder(t *testing.T) {
	results := []ComparisonResult{
		{Strategy: domain.TaxMinimizing, TotalTax: decimal.NewFromInt(100)},
		{Strategy: domain.FacePriority, TotalTax: decimal.NewFromInt(100)},
		{Strategy: domain.FaceMaximizing, TotalTax: decimal.NewFromInt(200)},
	}
	if got := BestIndex(results); got != 0 {
		t.Errorf("Expected index 0, got %d", got)
	}
	if got := BestIndex(nil); got != -1 {
		t.Errorf("Expected -1 for empty input, got %d", got)
	}
}

func TestStrategyOptimizer_Optimize(t *testing.T) {
	optimizer := NewStrategyOptimizer(calculation.NewCalculationEngine())

	compSet, err := optimizer.Optimize(scenarioAInput(domain.FaceMaximizing))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if compSet.BaseResult == nil || compSet.BaseResult.Strategy != domain.FaceMaximizing {
		t.Fatalf("Expected face_maximizing base, got %+v", compSet.BaseResult)
	}
	if len(compSet.AlternativeResults) != 2 {
		t.Fatalf("Expected 2 alternatives, got %d", len(compSet.AlternativeResults))
	}
	if compSet.Recommended != domain.TaxMinimizing {
		t.Errorf("Expected tax_minimizing to be recommended, got %s", compSet.Recommended)
	}
	if compSet.LowestBracket != "10%" {
		t.Errorf("Expected lowest bracket 10%%, got %s", compSet.LowestBracket)
	}

	taxMin := compSet.AlternativeResults[0]
	if !taxMin.TaxDiffFromBase.Equal(decimal.NewFromInt(-1_512_000)) {
		t.Errorf("Expected tax diff -1512000, got %s", taxMin.TaxDiffFromBase)
	}

	foundSwitch := false
	for _, rec := range compSet.Recommendations {
		if rec == "Switching from face_maximizing to tax_minimizing saves 1512000" {
			foundSwitch = true
		}
	}
	if !foundSwitch {
		t.Errorf("Expected switch recommendation, got %v", compSet.Recommendations)
	}
}

func TestStrategyOptimizer_RecommendsBaseWhenCheapest(t *testing.T) {
	optimizer := NewStrategyOptimizer(calculation.NewCalculationEngine())

	compSet, err := optimizer.Optimize(scenarioAInput(domain.TaxMinimizing))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if compSet.Recommended != domain.TaxMinimizing {
		t.Errorf("Expected tax_minimizing, got %s", compSet.Recommended)
	}
	for _, rec := range compSet.Recommendations {
		if contains(rec, "Switching") {
			t.Errorf("Did not expect a switch recommendation: %s", rec)
		}
	}
}

func TestStrategyOptimizer_InvalidInput(t *testing.T) {
	optimizer := NewStrategyOptimizer(calculation.NewCalculationEngine())
	input := scenarioAInput(domain.TaxMinimizing)
	input.TargetAnnualPremium = decimal.Zero

	if _, err := optimizer.Optimize(input); err == nil {
		t.Error("Expected error for zero target premium")
	}
}

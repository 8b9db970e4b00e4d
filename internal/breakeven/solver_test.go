package breakeven

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rgehrsitz/tgplan/internal/calculation"
	"github.com/rgehrsitz/tgplan/internal/domain"
	"github.com/shopspring/decimal"
)

func basePlan() domain.PlanInput {
	return domain.PlanInput{
		TargetAnnualPremium: decimal.NewFromInt(10000000),
		PerPolicyCap:        decimal.NewFromInt(5000000),
		Strategy:            domain.TaxMinimizing,
		RPU:                 domain.RPUOption{Enabled: true, Mode: domain.RPUAuto},
		DonorCount:          1,
	}
}

func TestNewDefaultSolver(t *testing.T) {
	calcEngine := calculation.NewCalculationEngine()

	solver := NewDefaultSolver(calcEngine)

	if solver == nil {
		t.Fatal("Expected solver to be created, got nil")
	}
	if solver.CalcEngine != calcEngine {
		t.Error("Expected CalcEngine to match input")
	}
	defaults := DefaultSolverOptions()
	if !solver.Options.Tolerance.Equal(defaults.Tolerance) {
		t.Errorf("Expected default tolerance %s, got %s", defaults.Tolerance, solver.Options.Tolerance)
	}
	if solver.Options.MaxIterations != defaults.MaxIterations ||
		solver.Options.MaxDonors != defaults.MaxDonors ||
		solver.Options.PremiumSpan != defaults.PremiumSpan {
		t.Errorf("Expected default limits, got %+v", solver.Options)
	}
}

func TestSolve_ZeroOptionsUseDefaults(t *testing.T) {
	solver := NewSolver(calculation.NewCalculationEngine(), SolverOptions{})

	result, err := solver.Solve(context.Background(), SolveRequest{
		Base:   basePlan(),
		Target: SolveDonorCount,
	})
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if result.DonorCount == nil || *result.DonorCount < 2 {
		t.Errorf("Expected the default donor range to be searched, got %v", result.DonorCount)
	}

	budget := decimal.NewFromInt(256000)
	result, err = solver.Solve(context.Background(), SolveRequest{
		Base:        basePlan(),
		Target:      SolveTargetPremium,
		Constraints: Constraints{TaxBudget: budget},
	})
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if !result.Success {
		t.Errorf("Expected success with default iterations and tolerance, got %s", result.ConvergenceInfo)
	}
	if result.TotalTax.GreaterThan(budget) {
		t.Errorf("Total tax %s exceeds budget %s", result.TotalTax, budget)
	}
}

func TestConstraints_Validate(t *testing.T) {
	neg := decimal.NewFromInt(-1)
	lo := decimal.NewFromInt(5000000)
	hi := decimal.NewFromInt(1000000)
	zeroDonors := 0

	tests := []struct {
		name        string
		constraints Constraints
		wantErr     bool
	}{
		{"zero budget", Constraints{}, false},
		{"negative budget", Constraints{TaxBudget: neg}, true},
		{"non-positive min premium", Constraints{MinPremium: &neg}, true},
		{"inverted premium range", Constraints{MinPremium: &lo, MaxPremium: &hi}, true},
		{"zero max donors", Constraints{MaxDonors: &zeroDonors}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.constraints.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, domain.ErrInvalidInput) {
				t.Errorf("Expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestSolve_UnsupportedTarget(t *testing.T) {
	solver := NewDefaultSolver(calculation.NewCalculationEngine())

	_, err := solver.Solve(context.Background(), SolveRequest{Base: basePlan(), Target: "face_amount"})
	if err == nil {
		t.Fatal("Expected error for unsupported target")
	}
	var bee *BreakEvenError
	if !errors.As(err, &bee) || bee.Operation != "solve" {
		t.Errorf("Expected BreakEvenError from solve, got %v", err)
	}
}

func TestSolve_PremiumWithinBudget(t *testing.T) {
	solver := NewDefaultSolver(calculation.NewCalculationEngine())
	budget := decimal.NewFromInt(256000)

	result, err := solver.Solve(context.Background(), SolveRequest{
		Base:        basePlan(),
		Target:      SolveTargetPremium,
		Constraints: Constraints{TaxBudget: budget},
	})
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if !result.Success {
		t.Errorf("Expected success, got %s", result.ConvergenceInfo)
	}
	if result.TargetPremium == nil {
		t.Fatal("Expected a solved target premium")
	}
	if result.TotalTax.GreaterThan(budget) {
		t.Errorf("Total tax %s exceeds budget %s", result.TotalTax, budget)
	}
	if result.Headroom.IsNegative() {
		t.Errorf("Expected non-negative headroom, got %s", result.Headroom)
	}
	if !result.Schedule.TargetAnnualPremium.Equal(*result.TargetPremium) {
		t.Errorf("Schedule premium %s does not match solved premium %s",
			result.Schedule.TargetAnnualPremium, *result.TargetPremium)
	}
}

func TestSolve_PremiumBudgetNotBinding(t *testing.T) {
	solver := NewDefaultSolver(calculation.NewCalculationEngine())
	maxPremium := decimal.NewFromInt(20000000)

	result, err := solver.Solve(context.Background(), SolveRequest{
		Base:        basePlan(),
		Target:      SolveTargetPremium,
		Constraints: Constraints{TaxBudget: decimal.NewFromInt(1000000000), MaxPremium: &maxPremium},
	})
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if !result.TargetPremium.Equal(maxPremium) {
		t.Errorf("Expected the upper bound %s, got %s", maxPremium, *result.TargetPremium)
	}
	if !strings.Contains(result.ConvergenceInfo, "not binding") {
		t.Errorf("Expected not-binding note, got %q", result.ConvergenceInfo)
	}
	if result.Iterations != 1 {
		t.Errorf("Expected one probe, got %d", result.Iterations)
	}
}

func TestSolve_PremiumBudgetInfeasible(t *testing.T) {
	solver := NewDefaultSolver(calculation.NewCalculationEngine())
	minPremium := decimal.NewFromInt(40000000)

	_, err := solver.Solve(context.Background(), SolveRequest{
		Base:        basePlan(),
		Target:      SolveTargetPremium,
		Constraints: Constraints{MinPremium: &minPremium},
	})
	if err == nil {
		t.Fatal("Expected error when the minimum premium already exceeds a zero budget")
	}
}

func TestSolve_DonorCount(t *testing.T) {
	solver := NewDefaultSolver(calculation.NewCalculationEngine())

	result, err := solver.Solve(context.Background(), SolveRequest{
		Base:   basePlan(),
		Target: SolveDonorCount,
	})
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if result.DonorCount == nil || *result.DonorCount < 2 {
		t.Fatalf("Expected more than one donor for a zero budget, got %v", result.DonorCount)
	}
	if !result.TotalTax.IsZero() {
		t.Errorf("Expected zero tax, got %s", result.TotalTax)
	}
	if result.Iterations != *result.DonorCount {
		t.Errorf("Expected one probe per donor count, got %d", result.Iterations)
	}
}

func TestSolve_DonorCountCurrentPlanFits(t *testing.T) {
	solver := NewDefaultSolver(calculation.NewCalculationEngine())

	result, err := solver.Solve(context.Background(), SolveRequest{
		Base:        basePlan(),
		Target:      SolveDonorCount,
		Constraints: Constraints{TaxBudget: decimal.NewFromInt(256000)},
	})
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if *result.DonorCount != 1 {
		t.Errorf("Expected one donor, got %d", *result.DonorCount)
	}
}

func TestSolve_DonorCountExhausted(t *testing.T) {
	solver := NewDefaultSolver(calculation.NewCalculationEngine())
	one := 1

	_, err := solver.Solve(context.Background(), SolveRequest{
		Base:        basePlan(),
		Target:      SolveDonorCount,
		Constraints: Constraints{MaxDonors: &one},
	})
	if err == nil {
		t.Fatal("Expected error when no donor count meets the budget")
	}
}

func TestSolve_ContextCancelled(t *testing.T) {
	solver := NewDefaultSolver(calculation.NewCalculationEngine())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := solver.Solve(ctx, SolveRequest{Base: basePlan(), Target: SolveDonorCount})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestFormatters(t *testing.T) {
	solver := NewDefaultSolver(calculation.NewCalculationEngine())
	result, err := solver.Solve(context.Background(), SolveRequest{
		Base:        basePlan(),
		Target:      SolveDonorCount,
		Constraints: Constraints{TaxBudget: decimal.NewFromInt(256000)},
	})
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}

	table := (&TableFormatter{}).Format(result)
	for _, want := range []string{"GIFT TAX BUDGET SOLVER", "Donor Count:", "256,000", "Converged"} {
		if !strings.Contains(table, want) {
			t.Errorf("Expected table to contain %q", want)
		}
	}

	js, err := (&JSONFormatter{Pretty: true}).Format(result)
	if err != nil {
		t.Fatalf("JSON format error = %v", err)
	}
	if !strings.Contains(js, `"donor_count": 1`) {
		t.Errorf("Expected donor_count in JSON, got %s", js)
	}
}

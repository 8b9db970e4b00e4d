package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/tgplan/internal/calculation"
	"github.com/rgehrsitz/tgplan/internal/domain"
	"github.com/shopspring/decimal"
)

// Solver searches plan parameters against a gift tax budget
type Solver struct {
	CalcEngine *calculation.CalculationEngine
	Options    SolverOptions
}

// NewSolver creates a new budget solver
func NewSolver(calcEngine *calculation.CalculationEngine, options SolverOptions) *Solver {
	return &Solver{
		CalcEngine: calcEngine,
		Options:    options,
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(calcEngine *calculation.CalculationEngine) *Solver {
	return NewSolver(calcEngine, DefaultSolverOptions())
}

// Solve runs the search named by req.Target
func (s *Solver) Solve(ctx context.Context, req SolveRequest) (*SolveResult, error) {
	if err := req.Constraints.Validate(); err != nil {
		return nil, err
	}

	opts := s.options()
	if req.MaxIterations < 1 {
		req.MaxIterations = opts.MaxIterations
	}
	if !req.Tolerance.IsPositive() {
		req.Tolerance = opts.Tolerance
	}

	switch req.Target {
	case SolveTargetPremium:
		return s.solvePremium(ctx, req)
	case SolveDonorCount:
		return s.solveDonors(ctx, req)
	default:
		return nil, &BreakEvenError{
			Operation: "solve",
			Message:   fmt.Sprintf("unsupported solve target: %q", req.Target),
			Cause:     domain.ErrInvalidInput,
		}
	}
}

// options returns s.Options with unset fields replaced by the defaults
func (s *Solver) options() SolverOptions {
	opts := s.Options
	defaults := DefaultSolverOptions()
	if !opts.Tolerance.IsPositive() {
		opts.Tolerance = defaults.Tolerance
	}
	if opts.MaxIterations < 1 {
		opts.MaxIterations = defaults.MaxIterations
	}
	if opts.MaxDonors < 1 {
		opts.MaxDonors = defaults.MaxDonors
	}
	if opts.PremiumSpan < 1 {
		opts.PremiumSpan = defaults.PremiumSpan
	}
	return opts
}

// evaluate plans input and reports whether it fits the budget
func (s *Solver) evaluate(input domain.PlanInput, budget decimal.Decimal) (*domain.PlanSchedule, bool, error) {
	schedule, err := s.CalcEngine.Plan(input)
	if err != nil {
		return nil, false, err
	}
	return schedule, schedule.TotalTax.LessThanOrEqual(budget), nil
}

func (s *Solver) premiumBounds(req SolveRequest) (decimal.Decimal, decimal.Decimal) {
	lo := decimal.NewFromInt(1)
	if req.Constraints.MinPremium != nil {
		lo = *req.Constraints.MinPremium
	}
	hi := req.Base.PerPolicyCap.Mul(decimal.NewFromInt(int64(s.options().PremiumSpan)))
	if req.Constraints.MaxPremium != nil {
		hi = *req.Constraints.MaxPremium
	}
	return lo, hi
}

// solvePremium bisects the target premium; plan tax is non-decreasing in
// the premium for a fixed cap and donor count
func (s *Solver) solvePremium(ctx context.Context, req SolveRequest) (*SolveResult, error) {
	budget := req.Constraints.TaxBudget
	lo, hi := s.premiumBounds(req)
	if hi.LessThan(lo) {
		return nil, &BreakEvenError{
			Operation: "solve_target_premium",
			Message:   fmt.Sprintf("search range [%s, %s] is empty", lo.String(), hi.String()),
			Cause:     domain.ErrInvalidInput,
		}
	}

	input := req.Base
	iterations := 0
	probe := func(premium decimal.Decimal) (*domain.PlanSchedule, bool, error) {
		iterations++
		input.TargetAnnualPremium = premium
		schedule, ok, err := s.evaluate(input, budget)
		if err != nil {
			return nil, false, &BreakEvenError{
				Operation: "solve_target_premium",
				Message:   fmt.Sprintf("failed to plan premium %s", premium.String()),
				Cause:     err,
			}
		}
		s.CalcEngine.Logger.Debugf("budget probe: premium %s, total tax %s, within budget %t",
			premium.String(), schedule.TotalTax.String(), ok)
		return schedule, ok, nil
	}

	top, ok, err := probe(hi)
	if err != nil {
		return nil, err
	}
	if ok {
		result := premiumResult(req, hi, top, iterations)
		result.Success = true
		result.ConvergenceInfo = "Budget is not binding within the search range"
		return result, nil
	}

	best, ok, err := probe(lo)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &BreakEvenError{
			Operation: "solve_target_premium",
			Message: fmt.Sprintf("tax %s at the minimum premium %s already exceeds the budget %s",
				best.TotalTax.String(), lo.String(), budget.String()),
		}
	}

	for iterations < req.MaxIterations {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if hi.Sub(lo).LessThanOrEqual(req.Tolerance) {
			result := premiumResult(req, lo, best, iterations)
			result.Success = true
			result.ConvergenceInfo = fmt.Sprintf("Converged within %s", req.Tolerance.String())
			return result, nil
		}

		mid := lo.Add(hi).Div(decimal.NewFromInt(2)).Floor()
		if mid.LessThanOrEqual(lo) {
			mid = lo.Add(decimal.NewFromInt(1))
		}
		if mid.GreaterThanOrEqual(hi) {
			result := premiumResult(req, lo, best, iterations)
			result.Success = true
			result.ConvergenceInfo = "Converged to whole currency units"
			return result, nil
		}

		schedule, ok, err := probe(mid)
		if err != nil {
			return nil, err
		}
		if ok {
			lo, best = mid, schedule
		} else {
			hi = mid
		}
	}

	result := premiumResult(req, lo, best, iterations)
	result.ConvergenceInfo = fmt.Sprintf("Max iterations (%d) reached", req.MaxIterations)
	return result, nil
}

func premiumResult(req SolveRequest, premium decimal.Decimal, schedule *domain.PlanSchedule, iterations int) *SolveResult {
	p := premium
	return &SolveResult{
		Request:       req,
		Iterations:    iterations,
		TargetPremium: &p,
		Schedule:      schedule,
		TotalTax:      schedule.TotalTax,
		Headroom:      req.Constraints.TaxBudget.Sub(schedule.TotalTax),
	}
}

// solveDonors scans donor counts upward; each donor adds one annual exemption
func (s *Solver) solveDonors(ctx context.Context, req SolveRequest) (*SolveResult, error) {
	maxDonors := s.options().MaxDonors
	if req.Constraints.MaxDonors != nil {
		maxDonors = *req.Constraints.MaxDonors
	}

	input := req.Base
	var last *domain.PlanSchedule
	iterations := 0
	for donors := 1; donors <= maxDonors; donors++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		iterations++

		input.DonorCount = donors
		schedule, ok, err := s.evaluate(input, req.Constraints.TaxBudget)
		if err != nil {
			return nil, &BreakEvenError{
				Operation: "solve_donors",
				Message:   fmt.Sprintf("failed to plan %d donors", donors),
				Cause:     err,
			}
		}
		last = schedule
		if ok {
			d := donors
			return &SolveResult{
				Request:         req,
				Success:         true,
				Iterations:      iterations,
				ConvergenceInfo: fmt.Sprintf("Budget met with %d donor(s)", donors),
				DonorCount:      &d,
				Schedule:        schedule,
				TotalTax:        schedule.TotalTax,
				Headroom:        req.Constraints.TaxBudget.Sub(schedule.TotalTax),
			}, nil
		}
	}

	msg := fmt.Sprintf("no donor count up to %d meets the budget %s", maxDonors, req.Constraints.TaxBudget.String())
	if last != nil {
		msg += fmt.Sprintf(" (tax %s at %d donors)", last.TotalTax.String(), maxDonors)
	}
	return nil, &BreakEvenError{
		Operation: "solve_donors",
		Message:   msg,
	}
}

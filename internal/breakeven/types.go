package breakeven

import (
	"github.com/rgehrsitz/tgplan/internal/domain"
	"github.com/shopspring/decimal"
)

// SolveTarget names the plan parameter the solver varies
type SolveTarget string

const (
	// SolveTargetPremium finds the largest target annual premium whose plan
	// stays within the tax budget
	SolveTargetPremium SolveTarget = "target_premium"
	// SolveDonorCount finds the smallest donor count whose plan stays within
	// the tax budget
	SolveDonorCount SolveTarget = "donors"
)

// Constraints bound the search
type Constraints struct {
	// TaxBudget is the largest acceptable plan total gift tax
	TaxBudget decimal.Decimal `json:"tax_budget"`

	MinPremium *decimal.Decimal `json:"min_premium,omitempty"`
	MaxPremium *decimal.Decimal `json:"max_premium,omitempty"`

	MaxDonors *int `json:"max_donors,omitempty"`
}

// SolveRequest defines one solver run
type SolveRequest struct {
	Base          domain.PlanInput `json:"base"`
	Target        SolveTarget      `json:"target"`
	Constraints   Constraints      `json:"constraints"`
	MaxIterations int              `json:"max_iterations,omitempty"`
	Tolerance     decimal.Decimal  `json:"tolerance"` // premium convergence width
}

// SolveResult reports the solved parameter and the plan at that value
type SolveResult struct {
	Request         SolveRequest `json:"request"`
	Success         bool         `json:"success"`
	Iterations      int          `json:"iterations"`
	ConvergenceInfo string       `json:"convergence_info"`

	TargetPremium *decimal.Decimal `json:"target_premium,omitempty"`
	DonorCount    *int             `json:"donor_count,omitempty"`

	Schedule *domain.PlanSchedule `json:"schedule"`
	TotalTax decimal.Decimal      `json:"total_tax"`
	Headroom decimal.Decimal      `json:"headroom"` // budget minus total tax
}

// SolverOptions configures the search
type SolverOptions struct {
	Tolerance     decimal.Decimal
	MaxIterations int
	MaxDonors     int
	// PremiumSpan sets the default upper premium bound as a multiple of the
	// per-policy cap
	PremiumSpan int
}

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		Tolerance:     decimal.NewFromInt(1000),
		MaxIterations: 60,
		MaxDonors:     10,
		PremiumSpan:   10,
	}
}

// Validate checks if constraints are internally consistent
func (c *Constraints) Validate() error {
	if c.TaxBudget.IsNegative() {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "tax budget cannot be negative",
			Cause:     domain.ErrInvalidInput,
		}
	}
	if c.MinPremium != nil && !c.MinPremium.IsPositive() {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "min_premium must be positive",
			Cause:     domain.ErrInvalidInput,
		}
	}
	if c.MinPremium != nil && c.MaxPremium != nil && c.MinPremium.GreaterThan(*c.MaxPremium) {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "min_premium cannot be greater than max_premium",
			Cause:     domain.ErrInvalidInput,
		}
	}
	if c.MaxDonors != nil && *c.MaxDonors < 1 {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "max_donors must be at least 1",
			Cause:     domain.ErrInvalidInput,
		}
	}
	return nil
}

// BreakEvenError represents errors from the budget solver
type BreakEvenError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *BreakEvenError) Unwrap() error {
	return e.Cause
}

package calculation

import (
	"fmt"

	"github.com/rgehrsitz/tgplan/internal/domain"
	"github.com/shopspring/decimal"
)

// PolicyScheduleBuilder produces premium, cumulative premium and cash value
// per policy year
type PolicyScheduleBuilder struct {
	Ratios map[int]decimal.Decimal
}

// NewPolicyScheduleBuilder creates a builder using the configured ratio table
func NewPolicyScheduleBuilder(rules domain.PlanningRules) *PolicyScheduleBuilder {
	return &PolicyScheduleBuilder{Ratios: rules.CashValueRatios}
}

// Build returns the schedule for a constant annual premium over horizonYears.
// Overrides replace the ratio-derived cash value for individual years.
func (b *PolicyScheduleBuilder) Build(annualPremium decimal.Decimal, horizonYears int, overrides map[int]decimal.Decimal) ([]domain.PolicyYearRecord, error) {
	return BuildPolicySchedule(domain.PolicyScheduleRequest{
		AnnualPremium: annualPremium,
		HorizonYears:  horizonYears,
		Overrides:     overrides,
		Ratios:        b.Ratios,
	})
}

// BuildPolicySchedule builds the year-indexed valuation series for req
func BuildPolicySchedule(req domain.PolicyScheduleRequest) ([]domain.PolicyYearRecord, error) {
	if req.AnnualPremium.IsNegative() {
		return nil, fmt.Errorf("%w: annual premium cannot be negative", domain.ErrInvalidInput)
	}
	if req.HorizonYears < 1 {
		return nil, fmt.Errorf("%w: horizon must be at least 1 year, got %d", domain.ErrInvalidInput, req.HorizonYears)
	}

	maxKey := 0
	for y := range req.Ratios {
		if y > maxKey {
			maxKey = y
		}
	}

	records := make([]domain.PolicyYearRecord, 0, req.HorizonYears)
	cumulative := decimal.Zero
	for year := 1; year <= req.HorizonYears; year++ {
		cumulative = cumulative.Add(req.AnnualPremium)

		cashValue, ok := req.Overrides[year]
		if !ok {
			ratio, found := req.Ratios[year]
			if !found {
				if len(req.Ratios) == 0 {
					return nil, fmt.Errorf("%w: no cash value ratio or override for year %d", domain.ErrInvalidInput, year)
				}
				ratio = req.Ratios[maxKey]
			}
			cashValue = cumulative.Mul(ratio).RoundBank(0)
		}

		records = append(records, domain.PolicyYearRecord{
			Year:              year,
			Premium:           req.AnnualPremium,
			CumulativePremium: cumulative,
			CashValue:         cashValue,
		})
	}
	return records, nil
}

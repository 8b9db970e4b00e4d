package calculation

import (
	"fmt"

	"github.com/rgehrsitz/tgplan/internal/domain"
	"github.com/shopspring/decimal"
)

// StrategyPlanner derives the policy count, ownership-change batches and RPU
// timing for a target premium, then builds the per-year gift tax schedule
type StrategyPlanner struct {
	Gift     domain.TaxBracketTable
	Exempt   domain.GiftDeductions
	Planning domain.PlanningRules
	Logger   Logger
}

// NewStrategyPlanner creates a planner from the regulatory configuration
func NewStrategyPlanner(cfg domain.RegulatoryConfig) *StrategyPlanner {
	return &StrategyPlanner{
		Gift:     cfg.Tax.GiftBrackets,
		Exempt:   cfg.Tax.GiftDeductions,
		Planning: cfg.Planning,
		Logger:   NopLogger{},
	}
}

// EffectiveCap clamps a per-policy cap to the configured ceiling
func (p *StrategyPlanner) EffectiveCap(perPolicyCap decimal.Decimal) (decimal.Decimal, bool) {
	if p.Planning.MaxPerPolicyPremium.IsPositive() && perPolicyCap.GreaterThan(p.Planning.MaxPerPolicyPremium) {
		return p.Planning.MaxPerPolicyPremium, true
	}
	return perPolicyCap, false
}

// PolicyCount returns ceil(target / cap) and the premium it delivers
func PolicyCount(target, perPolicyCap decimal.Decimal) (int, decimal.Decimal) {
	q, r := target.QuoRem(perPolicyCap, 0)
	count := q.IntPart()
	if r.IsPositive() {
		count++
	}
	return int(count), perPolicyCap.Mul(decimal.NewFromInt(count))
}

// RPUYear returns the conversion year implied by the input, or 0 when RPU is
// disabled
func (p *StrategyPlanner) RPUYear(input domain.PlanInput) (int, error) {
	if !input.RPU.Enabled {
		return 0, nil
	}
	if input.RPU.Mode == domain.RPUManual {
		year := input.RPU.ManualYear
		if year < 2 || year > p.Planning.MaxRPUYear {
			return 0, fmt.Errorf("%w: manual RPU year %d outside [2, %d]", domain.ErrInvalidInput, year, p.Planning.MaxRPUYear)
		}
		return year, nil
	}
	return 2 + input.Strategy.ExtraYears(), nil
}

// Plan builds the full schedule for input
func (p *StrategyPlanner) Plan(input domain.PlanInput) (*domain.PlanSchedule, error) {
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("plan input: %w", err)
	}
	logger := p.logger()

	perPolicyCap, clamped := p.EffectiveCap(input.PerPolicyCap)
	if clamped {
		logger.Warnf("per-policy cap %s clamped to %s", input.PerPolicyCap.String(), perPolicyCap.String())
	}
	numPolicies, actual := PolicyCount(input.TargetAnnualPremium, perPolicyCap)
	if input.Year1Batch > numPolicies {
		return nil, fmt.Errorf("%w: year-1 batch %d exceeds policy count %d", domain.ErrInvalidInput, input.Year1Batch, numPolicies)
	}

	rpuYear, err := p.RPUYear(input)
	if err != nil {
		return nil, err
	}

	lastFunded := 2 + p.Planning.IllustrativeFundingYears
	if input.RPU.Enabled {
		lastFunded = rpuYear
	}

	schedule := &domain.PlanSchedule{
		Strategy:            input.Strategy,
		TargetAnnualPremium: input.TargetAnnualPremium,
		PerPolicyCap:        perPolicyCap,
		CapClamped:          clamped,
		NumPolicies:         numPolicies,
		ActualAnnualPremium: actual,
		Year1Batch:          input.Year1Batch,
		Year2Batch:          numPolicies - input.Year1Batch,
		RPU:                 input.RPU,
		RPUYear:             rpuYear,
	}
	exemption := p.Exempt.Total(input.DonorCount)

	if input.Year1Batch > 0 {
		batch1Premium := perPolicyCap.Mul(decimal.NewFromInt(int64(input.Year1Batch)))
		batch2Premium := perPolicyCap.Mul(decimal.NewFromInt(int64(schedule.Year2Batch)))

		change1 := p.Planning.Year1Valuation.Value(batch1Premium)
		schedule.Rows = append(schedule.Rows, p.giftRow(1, domain.GiftOwnershipChange, change1, decimal.Zero, exemption))

		// Batch 1 still needs its year-2 premium funded unless it converts in year 2
		cash2 := decimal.Zero
		if !input.RPU.Enabled || rpuYear > 2 {
			cash2 = batch1Premium
		}
		change2 := p.Planning.Year2Valuation.Value(batch2Premium)
		category := domain.GiftOwnershipChange
		if schedule.Year2Batch == 0 {
			category = domain.GiftCash
			if cash2.IsZero() {
				category = domain.GiftNone
			}
		}
		schedule.Rows = append(schedule.Rows, p.giftRow(2, category, change2, cash2, exemption))
	} else {
		schedule.Rows = append(schedule.Rows, p.emptyRow(1, domain.GiftNone))
		change2 := p.Planning.Year2Valuation.Value(actual)
		schedule.Rows = append(schedule.Rows, p.giftRow(2, domain.GiftOwnershipChange, change2, decimal.Zero, exemption))
	}

	for year := 3; year <= lastFunded; year++ {
		schedule.Rows = append(schedule.Rows, p.giftRow(year, domain.GiftCash, decimal.Zero, actual, exemption))
	}
	if input.RPU.Enabled {
		schedule.Rows = append(schedule.Rows, p.emptyRow(rpuYear, domain.GiftRPU))
	}

	total := decimal.Zero
	for _, row := range schedule.Rows {
		total = total.Add(row.TaxDue)
		logger.Debugf("plan year %d %s: gross %s, net %s, tax %s (%s)",
			row.Year, row.Category, row.GrossGift.String(), row.NetTaxable.String(), row.TaxDue.String(), row.Bracket)
	}
	schedule.TotalTax = total

	if len(p.Planning.CashValueRatios) > 0 {
		records, err := BuildPolicySchedule(domain.PolicyScheduleRequest{
			AnnualPremium: actual,
			HorizonYears:  schedule.LastYear(),
			Ratios:        p.Planning.CashValueRatios,
		})
		if err != nil {
			return nil, fmt.Errorf("policy schedule: %w", err)
		}
		schedule.PolicySchedule = records
	}

	return schedule, nil
}

// Capacity reports the largest premiums whose change-year gift stays within
// the lowest gift bracket
func (p *StrategyPlanner) Capacity(donorCount int, perPolicyCap decimal.Decimal) domain.CapacityReference {
	if donorCount < 1 {
		donorCount = 1
	}
	exemption := p.Exempt.Total(donorCount)
	bound := p.Gift.FirstBracketUpperBound()
	giftCap := exemption.Add(bound)

	ref := domain.CapacityReference{
		AnnualExemption:    exemption,
		Bracket1UpperBound: bound,
		GiftValueCap:       giftCap,
		Year1PremiumCap:    giftCap.Mul(p.Planning.Year1Valuation.Multiplier()),
		Year2PremiumCap:    giftCap.Mul(p.Planning.Year2Valuation.Multiplier()),
	}

	if !perPolicyCap.IsPositive() {
		perPolicyCap = p.Planning.MaxPerPolicyPremium
	}
	perPolicyCap, _ = p.EffectiveCap(perPolicyCap)
	ref.PerPolicyCap = perPolicyCap
	if perPolicyCap.IsPositive() {
		ref.PoliciesAtYear2Cap = int(ref.Year2PremiumCap.Div(perPolicyCap).IntPart())
	}
	return ref
}

func (p *StrategyPlanner) giftRow(year int, category domain.GiftCategory, changeValue, cash, exemption decimal.Decimal) domain.PlanScheduleRow {
	gross := changeValue.Add(cash)
	net := ClampedBase(gross, exemption)
	tax, bracket := ComputeTax(net, p.Gift)
	return domain.PlanScheduleRow{
		Year:                 year,
		YearLabel:            yearLabel(year, category),
		Category:             category,
		OwnershipChangeValue: changeValue,
		CashGift:             cash,
		GrossGift:            gross,
		NetTaxable:           net,
		TaxDue:               tax,
		Bracket:              bracket,
	}
}

func (p *StrategyPlanner) emptyRow(year int, category domain.GiftCategory) domain.PlanScheduleRow {
	return domain.PlanScheduleRow{
		Year:                 year,
		YearLabel:            yearLabel(year, category),
		Category:             category,
		OwnershipChangeValue: decimal.Zero,
		CashGift:             decimal.Zero,
		GrossGift:            decimal.Zero,
		NetTaxable:           decimal.Zero,
		TaxDue:               decimal.Zero,
		Bracket:              domain.NoBracket,
	}
}

func yearLabel(year int, category domain.GiftCategory) string {
	if category == domain.GiftRPU {
		return fmt.Sprintf("Year %d (RPU)", year)
	}
	return fmt.Sprintf("Year %d", year)
}

func (p *StrategyPlanner) logger() Logger {
	if p.Logger == nil {
		return NopLogger{}
	}
	return p.Logger
}

package calculation

import (
	"fmt"

	"github.com/rgehrsitz/tgplan/internal/domain"
	"github.com/shopspring/decimal"
)

// GenerationCascadeSimulator propagates an asset base from the first
// generation to the third through one gift event and two estate events
type GenerationCascadeSimulator struct {
	Rules  domain.TaxRules
	Logger Logger
}

// NewGenerationCascadeSimulator creates a simulator for the given tax rules
func NewGenerationCascadeSimulator(rules domain.TaxRules) *GenerationCascadeSimulator {
	return &GenerationCascadeSimulator{Rules: rules, Logger: NopLogger{}}
}

// Simulate computes both the no-plan and plan branches for input
func (s *GenerationCascadeSimulator) Simulate(input domain.CascadeInput) (*domain.CascadeResult, error) {
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("cascade input: %w", err)
	}
	logger := s.logger()

	noPlanGen1 := input.TotalAssets.Sub(input.Premium).Add(input.CashValueAtGift)
	noPlan := s.runBranch(domain.BranchNoPlan, input, noPlanGen1, decimal.Zero, decimal.Zero, domain.NoBracket)

	var plan domain.BranchResult
	if input.OwnershipChanged {
		giftBase := ClampedBase(input.CashValueAtGift, s.Rules.GiftDeductions.Total(input.DonorCount))
		giftTax, giftBracket := ComputeTax(giftBase, s.Rules.GiftBrackets)
		logger.Debugf("plan gift: cash value %s, base %s, tax %s (%s)",
			input.CashValueAtGift.String(), giftBase.String(), giftTax.String(), giftBracket)

		planGen1 := input.TotalAssets.Sub(input.Premium).Sub(giftTax)
		plan = s.runBranch(domain.BranchPlan, input, planGen1, giftBase, giftTax, giftBracket)
	} else {
		plan = s.runBranch(domain.BranchPlan, input, noPlanGen1, decimal.Zero, decimal.Zero, domain.NoBracket)
	}

	result := &domain.CascadeResult{
		Input:   input,
		NoPlan:  noPlan,
		Plan:    plan,
		Savings: noPlan.TotalTax.Sub(plan.TotalTax),
	}
	logger.Debugf("cascade totals: no-plan %s, plan %s, savings %s",
		noPlan.TotalTax.String(), plan.TotalTax.String(), result.Savings.String())
	return result, nil
}

// runBranch carries one branch from Gen1's post-funding assets to Gen3
func (s *GenerationCascadeSimulator) runBranch(branch string, input domain.CascadeInput, gen1Assets, giftBase, giftTax decimal.Decimal, giftBracket string) domain.BranchResult {
	logger := s.logger()
	deductions := s.Rules.EstateDeductions

	gen1Base := ClampedBase(gen1Assets, deductions.Total(input.Gen1Descendants))
	gen1Tax, gen1Bracket := ComputeTax(gen1Base, s.Rules.EstateBrackets)
	gen2Inherited := gen1Assets.Sub(gen1Tax)
	logger.Debugf("%s gen1: assets %s, estate base %s, tax %s (%s)",
		branch, gen1Assets.String(), gen1Base.String(), gen1Tax.String(), gen1Bracket)

	// The face amount enters Gen2's estate unless it is paid to Gen3 directly
	gen2Estate := gen2Inherited
	if !input.FaceToGen3Directly {
		gen2Estate = gen2Estate.Add(input.FaceAmount)
	}
	gen2Base := ClampedBase(gen2Estate, deductions.Total(input.Gen2Descendants))
	gen2Tax, gen2Bracket := ComputeTax(gen2Base, s.Rules.EstateBrackets)
	gen3Final := gen2Inherited.Add(input.FaceAmount).Sub(gen2Tax)
	logger.Debugf("%s gen2: inherited %s, estate base %s, tax %s (%s)",
		branch, gen2Inherited.String(), gen2Base.String(), gen2Tax.String(), gen2Bracket)

	return domain.BranchResult{
		Branch:      branch,
		GiftBase:    giftBase,
		GiftTax:     giftTax,
		GiftBracket: giftBracket,
		Gen1: domain.GenerationState{
			Generation:    1,
			AssetBase:     gen1Assets,
			TaxableBase:   gen1Base,
			GiftTaxPaid:   giftTax,
			EstateTaxPaid: gen1Tax,
			NetPassedDown: gen2Inherited,
			Bracket:       gen1Bracket,
		},
		Gen2: domain.GenerationState{
			Generation:    2,
			AssetBase:     gen2Inherited,
			TaxableBase:   gen2Base,
			GiftTaxPaid:   decimal.Zero,
			EstateTaxPaid: gen2Tax,
			NetPassedDown: gen2Estate.Sub(gen2Tax),
			Bracket:       gen2Bracket,
		},
		Gen3: domain.GenerationState{
			Generation:    3,
			AssetBase:     gen3Final,
			TaxableBase:   decimal.Zero,
			GiftTaxPaid:   decimal.Zero,
			EstateTaxPaid: decimal.Zero,
			NetPassedDown: gen3Final,
			Bracket:       domain.NoBracket,
		},
		TotalTax: giftTax.Add(gen1Tax).Add(gen2Tax),
	}
}

func (s *GenerationCascadeSimulator) logger() Logger {
	if s.Logger == nil {
		return NopLogger{}
	}
	return s.Logger
}

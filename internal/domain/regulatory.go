package domain

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// RegulatoryConfig contains all jurisdiction data that applies uniformly to every
// scenario. It is loaded once (embedded defaults or a regulatory file) and never
// mutated by the engine.
type RegulatoryConfig struct {
	Metadata RegulatoryMetadata `yaml:"metadata" json:"metadata"`
	Tax      TaxRules           `yaml:"tax" json:"tax"`
	Planning PlanningRules      `yaml:"planning" json:"planning"`
}

// RegulatoryMetadata contains information about the regulatory data
type RegulatoryMetadata struct {
	Jurisdiction string `yaml:"jurisdiction" json:"jurisdiction"`
	DataYear     int    `yaml:"data_year" json:"data_year"`
	Description  string `yaml:"description" json:"description"`
}

// TaxRules groups the gift and estate tax constants
type TaxRules struct {
	GiftBrackets     TaxBracketTable  `yaml:"gift_brackets" json:"gift_brackets"`
	GiftDeductions   GiftDeductions   `yaml:"gift_deductions" json:"gift_deductions"`
	EstateBrackets   TaxBracketTable  `yaml:"estate_brackets" json:"estate_brackets"`
	EstateDeductions EstateDeductions `yaml:"estate_deductions" json:"estate_deductions"`
}

// GiftDeductions holds the per-donor annual gift exemption
type GiftDeductions struct {
	AnnualExemption decimal.Decimal `yaml:"annual_exemption" json:"annual_exemption"`
}

// Total returns the exemption available to the given number of donors
func (g GiftDeductions) Total(donors int) decimal.Decimal {
	return g.AnnualExemption.Mul(decimal.NewFromInt(int64(donors)))
}

// EstateDeductions holds the estate tax exemption and deductions
type EstateDeductions struct {
	Exemption     decimal.Decimal `yaml:"exemption" json:"exemption"`
	Spouse        decimal.Decimal `yaml:"spouse" json:"spouse"`
	Funeral       decimal.Decimal `yaml:"funeral" json:"funeral"`
	PerDescendant decimal.Decimal `yaml:"per_descendant" json:"per_descendant"`
}

// Total returns the combined deduction for an estate with the given number of
// lineal descendants
func (e EstateDeductions) Total(descendants int) decimal.Decimal {
	return e.Exemption.
		Add(e.Spouse).
		Add(e.Funeral).
		Add(e.PerDescendant.Mul(decimal.NewFromInt(int64(descendants))))
}

// ChangeValuation approximates the cash surrender value used as the gift amount
// when policy ownership changes: premiums paid so far times 1/Divisor.
type ChangeValuation struct {
	PremiumsPaid int `yaml:"premiums_paid" json:"premiums_paid"`
	Divisor      int `yaml:"divisor" json:"divisor"`
}

// Value returns the approximate policy value for an annual premium
func (c ChangeValuation) Value(annualPremium decimal.Decimal) decimal.Decimal {
	return annualPremium.
		Mul(decimal.NewFromInt(int64(c.PremiumsPaid))).
		Div(decimal.NewFromInt(int64(c.Divisor)))
}

// Multiplier inverts the valuation: the annual premium whose change value equals one unit
func (c ChangeValuation) Multiplier() decimal.Decimal {
	return decimal.NewFromInt(int64(c.Divisor)).Div(decimal.NewFromInt(int64(c.PremiumsPaid)))
}

// PlanningRules contains the strategy planner constants
type PlanningRules struct {
	MaxPerPolicyPremium      decimal.Decimal         `yaml:"max_per_policy_premium" json:"max_per_policy_premium"`
	MaxRPUYear               int                     `yaml:"max_rpu_year" json:"max_rpu_year"`
	IllustrativeFundingYears int                     `yaml:"illustrative_funding_years" json:"illustrative_funding_years"`
	Year1Valuation           ChangeValuation         `yaml:"year1_valuation" json:"year1_valuation"`
	Year2Valuation           ChangeValuation         `yaml:"year2_valuation" json:"year2_valuation"`
	CashValueRatios          map[int]decimal.Decimal `yaml:"cash_value_ratios" json:"cash_value_ratios"`
}

// Validate checks the regulatory configuration
func (r RegulatoryConfig) Validate() error {
	if err := r.Tax.GiftBrackets.Validate(); err != nil {
		return fmt.Errorf("gift brackets: %w", err)
	}
	if err := r.Tax.EstateBrackets.Validate(); err != nil {
		return fmt.Errorf("estate brackets: %w", err)
	}
	if r.Tax.GiftDeductions.AnnualExemption.IsNegative() {
		return fmt.Errorf("%w: gift annual exemption cannot be negative", ErrInvalidInput)
	}
	ed := r.Tax.EstateDeductions
	for name, v := range map[string]decimal.Decimal{
		"exemption":      ed.Exemption,
		"spouse":         ed.Spouse,
		"funeral":        ed.Funeral,
		"per_descendant": ed.PerDescendant,
	} {
		if v.IsNegative() {
			return fmt.Errorf("%w: estate deduction %s cannot be negative", ErrInvalidInput, name)
		}
	}
	if err := r.Planning.Validate(); err != nil {
		return fmt.Errorf("planning rules: %w", err)
	}
	return nil
}

// Validate checks the planning constants
func (p PlanningRules) Validate() error {
	if !p.MaxPerPolicyPremium.IsPositive() {
		return fmt.Errorf("%w: max per-policy premium must be positive", ErrInvalidInput)
	}
	if p.MaxRPUYear < 2 {
		return fmt.Errorf("%w: max RPU year must be at least 2", ErrInvalidInput)
	}
	if p.IllustrativeFundingYears < 0 {
		return fmt.Errorf("%w: illustrative funding years cannot be negative", ErrInvalidInput)
	}
	for name, v := range map[string]ChangeValuation{"year1": p.Year1Valuation, "year2": p.Year2Valuation} {
		if v.PremiumsPaid <= 0 || v.Divisor <= 0 {
			return fmt.Errorf("%w: %s valuation needs positive premiums_paid and divisor", ErrInvalidInput, name)
		}
	}
	for year, ratio := range p.CashValueRatios {
		if year < 1 {
			return fmt.Errorf("%w: cash value ratio year %d must be 1 or later", ErrInvalidInput, year)
		}
		if ratio.IsNegative() {
			return fmt.Errorf("%w: cash value ratio for year %d cannot be negative", ErrInvalidInput, year)
		}
	}
	return nil
}

// RatioYears returns the configured ratio years in ascending order
func (p PlanningRules) RatioYears() []int {
	years := make([]int, 0, len(p.CashValueRatios))
	for y := range p.CashValueRatios {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// DefaultRegulatoryConfig returns the Taiwan 2025 gift and estate tax figures
func DefaultRegulatoryConfig() RegulatoryConfig {
	return RegulatoryConfig{
		Metadata: RegulatoryMetadata{
			Jurisdiction: "TW",
			DataYear:     2025,
			Description:  "Taiwan gift and estate tax, 2025 legislated values",
		},
		Tax: TaxRules{
			GiftBrackets: TaxBracketTable{
				Name: "gift",
				Brackets: []TaxBracket{
					{UpperBound: DecimalPtr(decimal.NewFromInt(28_110_000)), Rate: decimal.NewFromFloat(0.10), QuickDeduction: decimal.Zero},
					{UpperBound: DecimalPtr(decimal.NewFromInt(56_210_000)), Rate: decimal.NewFromFloat(0.15), QuickDeduction: decimal.NewFromInt(1_405_500)},
					{Rate: decimal.NewFromFloat(0.20), QuickDeduction: decimal.NewFromInt(4_216_000)},
				},
			},
			GiftDeductions: GiftDeductions{AnnualExemption: decimal.NewFromInt(2_440_000)},
			EstateBrackets: TaxBracketTable{
				Name: "estate",
				Brackets: []TaxBracket{
					{UpperBound: DecimalPtr(decimal.NewFromInt(56_210_000)), Rate: decimal.NewFromFloat(0.10), QuickDeduction: decimal.Zero},
					{UpperBound: DecimalPtr(decimal.NewFromInt(112_420_000)), Rate: decimal.NewFromFloat(0.15), QuickDeduction: decimal.NewFromInt(2_810_500)},
					{Rate: decimal.NewFromFloat(0.20), QuickDeduction: decimal.NewFromInt(8_431_500)},
				},
			},
			EstateDeductions: EstateDeductions{
				Exemption:     decimal.NewFromInt(13_330_000),
				Spouse:        decimal.NewFromInt(5_330_000),
				Funeral:       decimal.NewFromInt(1_380_000),
				PerDescendant: decimal.NewFromInt(560_000),
			},
		},
		Planning: PlanningRules{
			MaxPerPolicyPremium:      decimal.NewFromInt(6_000_000),
			MaxRPUYear:               10,
			IllustrativeFundingYears: 2,
			Year1Valuation:           ChangeValuation{PremiumsPaid: 1, Divisor: 3},
			Year2Valuation:           ChangeValuation{PremiumsPaid: 2, Divisor: 4},
			// Approximate surrender value as a share of cumulative premium
			CashValueRatios: map[int]decimal.Decimal{
				1:  decimal.NewFromFloat(0.30),
				2:  decimal.NewFromFloat(0.50),
				3:  decimal.NewFromFloat(0.62),
				4:  decimal.NewFromFloat(0.72),
				5:  decimal.NewFromFloat(0.80),
				6:  decimal.NewFromFloat(0.86),
				7:  decimal.NewFromFloat(0.91),
				8:  decimal.NewFromFloat(0.95),
				9:  decimal.NewFromFloat(0.98),
				10: decimal.NewFromFloat(1.01),
			},
		},
	}
}

// DecimalPtr returns a pointer to a copy of d
func DecimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

// Clone returns a deep copy so callers can edit tables without touching the original
func (r RegulatoryConfig) Clone() RegulatoryConfig {
	out := r
	out.Tax.GiftBrackets = r.Tax.GiftBrackets.Clone()
	out.Tax.EstateBrackets = r.Tax.EstateBrackets.Clone()
	if r.Planning.CashValueRatios != nil {
		out.Planning.CashValueRatios = make(map[int]decimal.Decimal, len(r.Planning.CashValueRatios))
		for y, v := range r.Planning.CashValueRatios {
			out.Planning.CashValueRatios[y] = v
		}
	}
	return out
}

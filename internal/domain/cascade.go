package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Branch names used in results and reports
const (
	BranchNoPlan = "no_plan"
	BranchPlan   = "plan"
)

// CascadeInput holds the scalar inputs of a three-generation comparison
type CascadeInput struct {
	TotalAssets        decimal.Decimal `json:"total_assets"`
	Premium            decimal.Decimal `json:"premium"`
	CashValueAtGift    decimal.Decimal `json:"cash_value_at_gift"`
	FaceAmount         decimal.Decimal `json:"face_amount"`
	DonorCount         int             `json:"donor_count"`
	Gen1Descendants    int             `json:"gen1_descendants"`
	Gen2Descendants    int             `json:"gen2_descendants"`
	OwnershipChanged   bool            `json:"ownership_changed"`
	FaceToGen3Directly bool            `json:"face_to_gen3_directly"`
}

// Validate rejects negative amounts and counts
func (c CascadeInput) Validate() error {
	amounts := []struct {
		name  string
		value decimal.Decimal
	}{
		{"total assets", c.TotalAssets},
		{"premium", c.Premium},
		{"cash value at gift", c.CashValueAtGift},
		{"face amount", c.FaceAmount},
	}
	for _, a := range amounts {
		if a.value.IsNegative() {
			return fmt.Errorf("%w: %s cannot be negative", ErrInvalidInput, a.name)
		}
	}
	if c.DonorCount < 1 {
		return fmt.Errorf("%w: donor count must be at least 1", ErrInvalidInput)
	}
	if c.Gen1Descendants < 0 || c.Gen2Descendants < 0 {
		return fmt.Errorf("%w: descendant counts cannot be negative", ErrInvalidInput)
	}
	return nil
}

// GenerationState is one generation's position within a branch
type GenerationState struct {
	Generation    int             `json:"generation"`
	AssetBase     decimal.Decimal `json:"asset_base"`
	TaxableBase   decimal.Decimal `json:"taxable_base"`
	GiftTaxPaid   decimal.Decimal `json:"gift_tax_paid"`
	EstateTaxPaid decimal.Decimal `json:"estate_tax_paid"`
	NetPassedDown decimal.Decimal `json:"net_passed_down"`
	Bracket       string          `json:"bracket"`
}

// BranchResult is the full Gen1 → Gen3 chain for one strategy
type BranchResult struct {
	Branch      string          `json:"branch"`
	GiftBase    decimal.Decimal `json:"gift_base"`
	GiftTax     decimal.Decimal `json:"gift_tax"`
	GiftBracket string          `json:"gift_bracket"`
	Gen1        GenerationState `json:"gen1"`
	Gen2        GenerationState `json:"gen2"`
	Gen3        GenerationState `json:"gen3"`
	TotalTax    decimal.Decimal `json:"total_tax"`
}

// Gen3Final returns the amount finally received by the third generation
func (b BranchResult) Gen3Final() decimal.Decimal {
	return b.Gen3.AssetBase
}

// CascadeResult holds both branches and the aggregate delta
type CascadeResult struct {
	Input   CascadeInput    `json:"input"`
	NoPlan  BranchResult    `json:"no_plan"`
	Plan    BranchResult    `json:"plan"`
	Savings decimal.Decimal `json:"savings"`
}

// IsIncrease reports whether the plan costs more tax than doing nothing
func (r CascadeResult) IsIncrease() bool {
	return r.Savings.IsNegative()
}

// Totals extracts the named totals consumed by report exporters
func (r CascadeResult) Totals() ReportTotals {
	return ReportTotals{
		GiftTaxPlan:         r.Plan.GiftTax,
		Gen1EstateTaxNoPlan: r.NoPlan.Gen1.EstateTaxPaid,
		Gen1EstateTaxPlan:   r.Plan.Gen1.EstateTaxPaid,
		Gen2EstateTaxNoPlan: r.NoPlan.Gen2.EstateTaxPaid,
		Gen2EstateTaxPlan:   r.Plan.Gen2.EstateTaxPaid,
		Gen3FinalNoPlan:     r.NoPlan.Gen3Final(),
		Gen3FinalPlan:       r.Plan.Gen3Final(),
		TotalTaxNoPlan:      r.NoPlan.TotalTax,
		TotalTaxPlan:        r.Plan.TotalTax,
		Savings:             r.Savings,
	}
}

// ReportTotals is the fixed set of figures an exporter may print. Exporters
// read these values; they never recompute them.
type ReportTotals struct {
	GiftTaxPlan         decimal.Decimal `json:"gift_tax_plan"`
	Gen1EstateTaxNoPlan decimal.Decimal `json:"gen1_estate_tax_no_plan"`
	Gen1EstateTaxPlan   decimal.Decimal `json:"gen1_estate_tax_plan"`
	Gen2EstateTaxNoPlan decimal.Decimal `json:"gen2_estate_tax_no_plan"`
	Gen2EstateTaxPlan   decimal.Decimal `json:"gen2_estate_tax_plan"`
	Gen3FinalNoPlan     decimal.Decimal `json:"gen3_final_no_plan"`
	Gen3FinalPlan       decimal.Decimal `json:"gen3_final_plan"`
	TotalTaxNoPlan      decimal.Decimal `json:"total_tax_no_plan"`
	TotalTaxPlan        decimal.Decimal `json:"total_tax_plan"`
	Savings             decimal.Decimal `json:"savings"`
}

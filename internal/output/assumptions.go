package output

import (
	"fmt"

	"github.com/rgehrsitz/tgplan/internal/domain"
)

// DefaultAssumptions lists modeling assumptions that hold for every jurisdiction.
var DefaultAssumptions = []string{
	"Tax amounts are rounded half to even to whole currency units at the final step",
	"The annual gift exemption is applied once per year against that year's combined gifts",
	"Cash value ratios are illustrative stand-ins for insurer valuations",
	"A face amount not paid directly to the third generation joins the second generation's estate",
}

// Assumptions returns DefaultAssumptions preceded by the figures of the
// regulatory data in effect
func Assumptions(reg domain.RegulatoryConfig) []string {
	p := reg.Planning
	out := []string{
		fmt.Sprintf("Tax rules: %s %d", reg.Metadata.Jurisdiction, reg.Metadata.DataYear),
		fmt.Sprintf("Gift annual exemption per donor: %s", FormatCurrency(reg.Tax.GiftDeductions.AnnualExemption)),
		fmt.Sprintf("Ownership change value: year 1 = %d/%d of premium, year 2 = %d/%d of premium",
			p.Year1Valuation.PremiumsPaid, p.Year1Valuation.Divisor,
			p.Year2Valuation.PremiumsPaid, p.Year2Valuation.Divisor),
		fmt.Sprintf("Per-policy premium ceiling: %s", FormatCurrency(p.MaxPerPolicyPremium)),
	}
	return append(out, DefaultAssumptions...)
}

package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rgehrsitz/tgplan/internal/domain"
)

// ConsoleFormatter prints a compact per-scenario summary
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console-lite" }

func (c ConsoleFormatter) Format(results *domain.AnalysisResults) ([]byte, error) {
	var buf bytes.Buffer
	title := results.Branding.Title
	if title == "" {
		title = domain.DefaultReportBranding().Title
	}
	fmt.Fprintln(&buf, strings.ToUpper(title))
	fmt.Fprintln(&buf, strings.Repeat("=", 60))

	if len(results.Scenarios) == 0 {
		fmt.Fprintln(&buf, "No scenarios.")
		return buf.Bytes(), nil
	}

	for _, sc := range results.Scenarios {
		fmt.Fprintf(&buf, "\n%s\n", sc.Name)
		fmt.Fprintln(&buf, strings.Repeat("-", len(sc.Name)))
		if sc.Cascade != nil {
			t := sc.Cascade.Totals()
			fmt.Fprintf(&buf, "  Total tax (no plan / plan): %s / %s\n", FormatCurrency(t.TotalTaxNoPlan), FormatCurrency(t.TotalTaxPlan))
			fmt.Fprintf(&buf, "  Gen3 final (no plan / plan): %s / %s\n", FormatCurrency(t.Gen3FinalNoPlan), FormatCurrency(t.Gen3FinalPlan))
			fmt.Fprintf(&buf, "  %s\n", savingsLine(*sc.Cascade))
		}
		if sc.Plan != nil {
			fmt.Fprintf(&buf, "  Plan (%s): %d policies, total gift tax %s", sc.Plan.Strategy, sc.Plan.NumPolicies, FormatCurrency(sc.Plan.TotalTax))
			if sc.Plan.RPUYear > 0 {
				fmt.Fprintf(&buf, ", RPU in year %d", sc.Plan.RPUYear)
			}
			fmt.Fprintln(&buf)
		}
		if sc.Capacity != nil {
			fmt.Fprintf(&buf, "  Year-2 premium cap: %s (%d policies at cap)\n", FormatCurrency(sc.Capacity.Year2PremiumCap), sc.Capacity.PoliciesAtYear2Cap)
		}
	}
	return buf.Bytes(), nil
}

// savingsLine states the plan's effect, flagging a tax increase explicitly
func savingsLine(r domain.CascadeResult) string {
	if r.IsIncrease() {
		return "Plan increases total tax by " + FormatCurrency(r.Savings.Neg())
	}
	return "Total savings: " + FormatCurrency(r.Savings)
}

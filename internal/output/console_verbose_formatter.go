package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rgehrsitz/tgplan/internal/domain"
	"github.com/shopspring/decimal"
)

// ConsoleVerboseFormatter renders the full audit report: reference tables,
// per-branch cascade detail, plan rows and capacity
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console" }

func (c ConsoleVerboseFormatter) Format(results *domain.AnalysisResults) ([]byte, error) {
	var buf bytes.Buffer
	rule := strings.Repeat("=", 81)

	title := results.Branding.Title
	if title == "" {
		title = domain.DefaultReportBranding().Title
	}
	fmt.Fprintln(&buf, rule)
	fmt.Fprintln(&buf, strings.ToUpper(title))
	if results.Branding.Organization != "" {
		fmt.Fprintln(&buf, results.Branding.Organization)
	}
	fmt.Fprintln(&buf, rule)
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
	for _, a := range Assumptions(results.Regulatory) {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	fmt.Fprintln(&buf)

	writeBracketTable(&buf, "GIFT TAX BRACKETS", results.Regulatory.Tax.GiftBrackets)
	writeBracketTable(&buf, "ESTATE TAX BRACKETS", results.Regulatory.Tax.EstateBrackets)
	writeDeductions(&buf, results.Regulatory.Tax)

	for i, sc := range results.Scenarios {
		fmt.Fprintf(&buf, "SCENARIO %d: %s\n", i+1, sc.Name)
		fmt.Fprintln(&buf, strings.Repeat("=", 50))
		if sc.Description != "" {
			fmt.Fprintln(&buf, sc.Description)
		}
		fmt.Fprintln(&buf)
		if sc.Cascade != nil {
			writeCascade(&buf, *sc.Cascade)
		}
		if sc.Plan != nil {
			writePlan(&buf, *sc.Plan)
		}
		if len(sc.Strategies) > 0 {
			writeStrategies(&buf, sc.Strategies)
		}
		if sc.Capacity != nil {
			writeCapacity(&buf, *sc.Capacity)
		}
	}
	return buf.Bytes(), nil
}

func writeBracketTable(buf *bytes.Buffer, heading string, table domain.TaxBracketTable) {
	fmt.Fprintln(buf, heading)
	fmt.Fprintln(buf, strings.Repeat("-", len(heading)))
	fmt.Fprintf(buf, "%-36s %6s %16s\n", "Net taxable", "Rate", "Quick deduction")
	for i, b := range table.Brackets {
		fmt.Fprintf(buf, "%-36s %6s %16s\n", BracketRange(table, i), b.Label(), FormatCurrency(b.QuickDeduction))
	}
	fmt.Fprintln(buf)
}

func writeDeductions(buf *bytes.Buffer, rules domain.TaxRules) {
	ed := rules.EstateDeductions
	fmt.Fprintln(buf, "DEDUCTIONS")
	fmt.Fprintln(buf, "----------")
	fmt.Fprintf(buf, "  Gift annual exemption (per donor): %s\n", FormatCurrency(rules.GiftDeductions.AnnualExemption))
	fmt.Fprintf(buf, "  Estate exemption:                  %s\n", FormatCurrency(ed.Exemption))
	fmt.Fprintf(buf, "  Spouse deduction:                  %s\n", FormatCurrency(ed.Spouse))
	fmt.Fprintf(buf, "  Funeral deduction:                 %s\n", FormatCurrency(ed.Funeral))
	fmt.Fprintf(buf, "  Per lineal descendant:             %s\n", FormatCurrency(ed.PerDescendant))
	fmt.Fprintln(buf)
}

func writeCascade(buf *bytes.Buffer, r domain.CascadeResult) {
	in := r.Input
	fmt.Fprintln(buf, "THREE-GENERATION COMPARISON")
	fmt.Fprintln(buf, "---------------------------")
	fmt.Fprintf(buf, "  Total assets: %s   Premium: %s   Cash value at gift: %s   Face: %s\n",
		FormatCurrency(in.TotalAssets), FormatCurrency(in.Premium), FormatCurrency(in.CashValueAtGift), FormatCurrency(in.FaceAmount))
	fmt.Fprintf(buf, "  Donors: %d   Gen1 descendants: %d   Gen2 descendants: %d   Ownership changed: %t   Face to Gen3: %t\n\n",
		in.DonorCount, in.Gen1Descendants, in.Gen2Descendants, in.OwnershipChanged, in.FaceToGen3Directly)

	t := r.Totals()
	fmt.Fprintf(buf, "%-28s %18s %18s %18s\n", "", "No plan", "Plan", "Difference")
	cmpRow(buf, "Gift tax", decimal.Zero, t.GiftTaxPlan)
	cmpRow(buf, "Gen1 estate tax", t.Gen1EstateTaxNoPlan, t.Gen1EstateTaxPlan)
	cmpRow(buf, "Gen2 estate tax", t.Gen2EstateTaxNoPlan, t.Gen2EstateTaxPlan)
	cmpRow(buf, "Total tax", t.TotalTaxNoPlan, t.TotalTaxPlan)
	cmpRow(buf, "Gen3 final", t.Gen3FinalNoPlan, t.Gen3FinalPlan)
	fmt.Fprintf(buf, "\n  %s\n\n", savingsLine(r))

	fmt.Fprintln(buf, "STEP DETAIL")
	fmt.Fprintf(buf, "%-28s %18s %18s\n", "", "No plan", "Plan")
	detail := func(label string, f func(domain.BranchResult) string) {
		fmt.Fprintf(buf, "%-28s %18s %18s\n", label, f(r.NoPlan), f(r.Plan))
	}
	detail("Gift base", func(b domain.BranchResult) string { return FormatCurrency(b.GiftBase) })
	detail("Gift tax", func(b domain.BranchResult) string { return withBracket(b.GiftTax, b.GiftBracket) })
	detail("Gen1 estate base", func(b domain.BranchResult) string { return FormatCurrency(b.Gen1.TaxableBase) })
	detail("Gen1 estate tax", func(b domain.BranchResult) string { return withBracket(b.Gen1.EstateTaxPaid, b.Gen1.Bracket) })
	detail("Gen2 inherited", func(b domain.BranchResult) string { return FormatCurrency(b.Gen2.AssetBase) })
	detail("Gen2 estate base", func(b domain.BranchResult) string { return FormatCurrency(b.Gen2.TaxableBase) })
	detail("Gen2 estate tax", func(b domain.BranchResult) string { return withBracket(b.Gen2.EstateTaxPaid, b.Gen2.Bracket) })
	detail("Gen3 final", func(b domain.BranchResult) string { return FormatCurrency(b.Gen3Final()) })
	detail("Total tax", func(b domain.BranchResult) string { return FormatCurrency(b.TotalTax) })
	fmt.Fprintln(buf)
}

func cmpRow(buf *bytes.Buffer, label string, noPlan, plan decimal.Decimal) {
	fmt.Fprintf(buf, "%-28s %18s %18s %18s\n", label, FormatCurrency(noPlan), FormatCurrency(plan), FormatSignedCurrency(plan.Sub(noPlan)))
}

func withBracket(amount decimal.Decimal, bracket string) string {
	return fmt.Sprintf("%s (%s)", FormatCurrency(amount), bracket)
}

func writePlan(buf *bytes.Buffer, p domain.PlanSchedule) {
	fmt.Fprintf(buf, "GIFTING PLAN (%s)\n", p.Strategy)
	fmt.Fprintln(buf, "-------------")
	fmt.Fprintf(buf, "  Target premium: %s   Per-policy cap: %s", FormatCurrency(p.TargetAnnualPremium), FormatCurrency(p.PerPolicyCap))
	if p.CapClamped {
		fmt.Fprint(buf, " (clamped)")
	}
	fmt.Fprintln(buf)
	fmt.Fprintf(buf, "  Policies: %d   Actual premium: %s", p.NumPolicies, FormatCurrency(p.ActualAnnualPremium))
	if p.Year1Batch > 0 {
		fmt.Fprintf(buf, "   Batches: %d in year 1, %d in year 2", p.Year1Batch, p.Year2Batch)
	}
	fmt.Fprintln(buf)
	if p.RPUYear > 0 {
		fmt.Fprintf(buf, "  Reduced paid-up in year %d (%s)\n", p.RPUYear, p.RPU.Mode)
	}
	fmt.Fprintln(buf)

	fmt.Fprintf(buf, "%-16s %-17s %14s %14s %14s %14s %12s %6s\n",
		"Year", "Category", "Change value", "Cash gift", "Gross gift", "Net taxable", "Tax", "Rate")
	for _, row := range p.Rows {
		fmt.Fprintf(buf, "%-16s %-17s %14s %14s %14s %14s %12s %6s\n",
			row.YearLabel, row.Category, FormatCurrency(row.OwnershipChangeValue), FormatCurrency(row.CashGift),
			FormatCurrency(row.GrossGift), FormatCurrency(row.NetTaxable), FormatCurrency(row.TaxDue), row.Bracket)
	}
	fmt.Fprintf(buf, "%-16s %-17s %14s %14s %14s %14s %12s\n\n", "Total", "", "", "", "", "", FormatCurrency(p.TotalTax))

	if len(p.PolicySchedule) > 0 {
		fmt.Fprintln(buf, "POLICY VALUE SCHEDULE (illustrative)")
		fmt.Fprintf(buf, "%6s %16s %18s %16s\n", "Year", "Premium", "Cumulative", "Cash value")
		for _, rec := range p.PolicySchedule {
			fmt.Fprintf(buf, "%6d %16s %18s %16s\n", rec.Year, FormatCurrency(rec.Premium), FormatCurrency(rec.CumulativePremium), FormatCurrency(rec.CashValue))
		}
		fmt.Fprintln(buf)
	}
}

func writeStrategies(buf *bytes.Buffer, schedules []domain.PlanSchedule) {
	fmt.Fprintln(buf, "STRATEGY COMPARISON")
	fmt.Fprintln(buf, "-------------------")
	fmt.Fprintf(buf, "%-18s %10s %16s\n", "Strategy", "RPU year", "Total gift tax")
	best := 0
	for i, s := range schedules {
		if s.TotalTax.LessThan(schedules[best].TotalTax) {
			best = i
		}
	}
	for i, s := range schedules {
		rpu := "-"
		if s.RPUYear > 0 {
			rpu = fmt.Sprintf("%d", s.RPUYear)
		}
		marker := ""
		if i == best {
			marker = " *"
		}
		fmt.Fprintf(buf, "%-18s %10s %16s%s\n", s.Strategy, rpu, FormatCurrency(s.TotalTax), marker)
	}
	fmt.Fprintln(buf)
}

func writeCapacity(buf *bytes.Buffer, c domain.CapacityReference) {
	fmt.Fprintln(buf, "LOWEST-BRACKET CAPACITY")
	fmt.Fprintln(buf, "-----------------------")
	fmt.Fprintf(buf, "  Annual exemption:      %s\n", FormatCurrency(c.AnnualExemption))
	fmt.Fprintf(buf, "  First bracket ceiling: %s\n", FormatCurrency(c.Bracket1UpperBound))
	fmt.Fprintf(buf, "  Gift value cap:        %s\n", FormatCurrency(c.GiftValueCap))
	fmt.Fprintf(buf, "  Year-1 premium cap:    %s\n", FormatCurrency(c.Year1PremiumCap))
	fmt.Fprintf(buf, "  Year-2 premium cap:    %s\n", FormatCurrency(c.Year2PremiumCap))
	fmt.Fprintf(buf, "  Policies at %s:  %d\n", FormatCurrency(c.PerPolicyCap), c.PoliciesAtYear2Cap)
	fmt.Fprintln(buf)
}

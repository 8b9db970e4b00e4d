package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/tgplan/internal/domain"
	"github.com/rgehrsitz/tgplan/internal/output"
	"github.com/rgehrsitz/tgplan/internal/tui/components"
	"github.com/shopspring/decimal"
)

// View renders the current state of the application
func (m Model) View() string {
	var content string
	switch {
	case m.loading:
		content = BorderStyle.Render("Loading " + m.configPath + "...")
	case m.err != nil:
		content = ErrorStyle.Render(fmt.Sprintf("Error: %s\n\nPress any key to continue...", m.err))
	default:
		switch m.currentScene {
		case SceneCascade:
			content = m.renderCascade()
		case ScenePlan:
			content = m.renderPlan()
		case SceneCompare:
			content = m.renderCompare()
		case SceneRules:
			content = m.renderRules()
		case SceneHelp:
			content = m.renderHelp()
		default:
			content = "Unknown scene"
		}
	}
	return m.renderApp(content)
}

// renderApp wraps content with title bar and status bar
func (m Model) renderApp(content string) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitleBar(),
		content,
		m.renderStatusBar(),
	)
}

func (m Model) renderTitleBar() string {
	title := m.branding.Title
	if title == "" {
		title = domain.DefaultReportBranding().Title
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		TitleStyle.Render(title),
		SubtitleStyle.Render(m.currentScene.String()),
	)
}

func (m Model) renderStatusBar() string {
	shortcuts := []string{
		formatShortcut("g", "generations"),
		formatShortcut("p", "plan"),
		formatShortcut("c", "compare"),
		formatShortcut("t", "rules"),
		formatShortcut("?", "help"),
		formatShortcut("q", "quit"),
	}
	bar := StatusBarStyle.Render(strings.Join(shortcuts, " • "))
	if m.status != "" {
		bar += "\n" + SubtitleStyle.Render(m.status)
	}
	return bar
}

func formatShortcut(key, desc string) string {
	return StatusKeyStyle.Render(key) + " " + desc
}

func renderForm(f form, toggles []string) string {
	var lines []string
	for i, fld := range f.fields {
		label := LabelStyle.Render(fmt.Sprintf("%-26s", fld.label))
		if i == f.focus {
			label = FocusedLabelStyle.Render(fmt.Sprintf("%-26s", fld.label))
		}
		lines = append(lines, label+" "+fld.input.View())
	}
	if len(toggles) > 0 {
		lines = append(lines, "")
		lines = append(lines, toggles...)
	}
	return ActiveBorderStyle.Render(strings.Join(lines, "\n"))
}

func toggle(keyName, label string, on bool) string {
	box := "[ ]"
	if on {
		box = "[x]"
	}
	return fmt.Sprintf("%s %s %s", StatusKeyStyle.Render(keyName), box, label)
}

func (m Model) renderCascade() string {
	left := renderForm(m.cascadeForm, []string{
		toggle("o", "Change policy owner (gift cash value to Gen2)", m.ownershipChanged),
		toggle("b", "Face amount paid directly to Gen3", m.faceToGen3Directly),
		formatShortcut("e", "export PDF report"),
	})

	if m.cascadeErr != nil {
		return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", ErrorStyle.Render(m.cascadeErr.Error()))
	}
	r := m.cascadeResult
	t := r.Totals()
	cards := []*components.ComparisonCard{
		components.NewComparisonCard("Gift tax", decimal.Zero, t.GiftTaxPlan),
		components.NewComparisonCard("Gen1 estate tax", t.Gen1EstateTaxNoPlan, t.Gen1EstateTaxPlan),
		components.NewComparisonCard("Gen2 estate tax", t.Gen2EstateTaxNoPlan, t.Gen2EstateTaxPlan),
		components.NewComparisonCard("Total tax", t.TotalTaxNoPlan, t.TotalTaxPlan),
		components.NewComparisonCard("Gen3 final", t.Gen3FinalNoPlan, t.Gen3FinalPlan).Receiving(),
	}

	summary := PositiveStyle.Render("Total savings: " + output.FormatCurrency(r.Savings))
	if r.IsIncrease() {
		summary = NegativeStyle.Render("Plan increases total tax by " + output.FormatCurrency(r.Savings.Neg()))
	}

	detail := components.NewTable([]string{"Step", "No plan", "Plan"}, []int{18, 16, 16})
	step := func(label string, f func(domain.BranchResult) string) {
		detail.AddRow(label, f(r.NoPlan), f(r.Plan))
	}
	step("Gift base", func(b domain.BranchResult) string { return output.FormatCurrency(b.GiftBase) })
	step("Gift tax", func(b domain.BranchResult) string { return output.FormatCurrency(b.GiftTax) })
	step("Gen1 estate base", func(b domain.BranchResult) string { return output.FormatCurrency(b.Gen1.TaxableBase) })
	step("Gen1 estate tax", func(b domain.BranchResult) string { return output.FormatCurrency(b.Gen1.EstateTaxPaid) })
	step("Gen2 inherited", func(b domain.BranchResult) string { return output.FormatCurrency(b.Gen2.AssetBase) })
	step("Gen2 estate base", func(b domain.BranchResult) string { return output.FormatCurrency(b.Gen2.TaxableBase) })
	step("Gen2 estate tax", func(b domain.BranchResult) string { return output.FormatCurrency(b.Gen2.EstateTaxPaid) })
	step("Gen3 final", func(b domain.BranchResult) string { return output.FormatCurrency(b.Gen3Final()) })

	right := lipgloss.JoinVertical(lipgloss.Left,
		components.CardGrid(cards, 3),
		summary,
		"",
		detail.Render(),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
}

func (m Model) renderPlan() string {
	toggles := []string{
		fmt.Sprintf("%s strategy: %s", StatusKeyStyle.Render("s"), ValueStyle.Render(m.strategy.String())),
		toggle("r", "Reduced paid-up conversion", m.rpuEnabled),
		fmt.Sprintf("%s RPU mode: %s", StatusKeyStyle.Render("m"), ValueStyle.Render(m.rpuMode.String())),
	}
	left := renderForm(m.planForm, toggles)

	if m.planErr != nil {
		return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", ErrorStyle.Render(m.planErr.Error()))
	}
	p := m.planResult

	header := fmt.Sprintf("%d policies, actual premium %s", p.NumPolicies, output.FormatCurrency(p.ActualAnnualPremium))
	if p.CapClamped {
		header += fmt.Sprintf(" (cap clamped to %s)", output.FormatCurrency(p.PerPolicyCap))
	}
	if p.RPUYear > 0 {
		header += fmt.Sprintf(", RPU in year %d", p.RPUYear)
	}

	rows := components.NewTable(
		[]string{"Year", "Category", "Gross gift", "Net taxable", "Tax", "Rate"},
		[]int{14, 17, 14, 14, 12, 5},
	)
	for _, row := range p.Rows {
		rows.AddRow(row.YearLabel, row.Category.String(), output.FormatCurrency(row.GrossGift),
			output.FormatCurrency(row.NetTaxable), output.FormatCurrency(row.TaxDue), row.Bracket)
	}
	rows.AddRow("Total", "", "", "", output.FormatCurrency(p.TotalTax), "")
	rows.Highlight = len(rows.Rows) - 1

	parts := []string{ValueStyle.Render(header), "", rows.Render()}
	if c := m.capacity; c != nil {
		parts = append(parts, "",
			SectionStyle.Render("Lowest-bracket capacity"),
			fmt.Sprintf("Gift value cap %s | year-1 premium cap %s | year-2 premium cap %s | %d policies at %s",
				output.FormatCurrency(c.GiftValueCap), output.FormatCurrency(c.Year1PremiumCap),
				output.FormatCurrency(c.Year2PremiumCap), c.PoliciesAtYear2Cap, output.FormatCurrency(c.PerPolicyCap)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m Model) renderCompare() string {
	if m.planErr != nil {
		return ErrorStyle.Render(m.planErr.Error())
	}
	cs := m.comparison
	table := components.NewTable(
		[]string{"Strategy", "RPU year", "Total gift tax", "vs base"},
		[]int{18, 9, 16, 14},
	)
	for i, r := range cs.All() {
		rpu := "-"
		if r.RPUYear > 0 {
			rpu = strconv.Itoa(r.RPUYear)
		}
		delta := "base"
		if i > 0 {
			delta = output.FormatSignedCurrency(r.TaxDiffFromBase)
		}
		table.AddRow(r.Name(), rpu, output.FormatCurrency(r.TotalTax), delta)
		if r.Strategy == cs.Recommended {
			table.Highlight = i
		}
	}

	lines := []string{table.Render(), "", SectionStyle.Render("Recommendations")}
	for _, rec := range cs.Recommendations {
		lines = append(lines, "• "+rec)
	}
	return BorderStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) renderRules() string {
	left := renderForm(m.rulesForm, []string{formatShortcut("x", "restore loaded rules")})

	rules := m.calcEngine.Regulatory.Tax
	var parts []string
	if m.rulesErr != nil {
		parts = append(parts, ErrorStyle.Render(m.rulesErr.Error()+" (previous rules still in effect)"), "")
	}
	for _, table := range []domain.TaxBracketTable{rules.GiftBrackets, rules.EstateBrackets} {
		t := components.NewTable([]string{"Taxable base", "Rate", "Quick deduction"}, []int{34, 6, 16})
		for i, b := range table.Brackets {
			t.AddRow(output.BracketRange(table, i), output.FormatPercentage(b.Rate), output.FormatCurrency(b.QuickDeduction))
		}
		parts = append(parts, SectionStyle.Render(strings.ToUpper(table.Name)+" BRACKETS"), t.Render(), "")
	}
	parts = append(parts,
		fmt.Sprintf("Estate deductions in effect: %s plus %s per descendant",
			output.FormatCurrency(rules.EstateDeductions.Total(0)), output.FormatCurrency(rules.EstateDeductions.PerDescendant)))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m Model) renderHelp() string {
	helpText := `KEYBOARD SHORTCUTS:
  g          Three-generation comparison
  p          Gifting plan
  c          Compare strategies
  t          Tax rules (exemption and deductions for this session)
  ?          Show this help
  esc        Leave help
  q/Ctrl+C   Quit

EDITING:
  tab/down   Next field
  shift+tab  Previous field
  digits     Edit the focused amount; results update as you type

GENERATIONS:
  o          Toggle policy owner change
  b          Toggle face amount paid directly to Gen3
  e          Export the totals as a PDF report

PLAN:
  s          Cycle strategy
  r          Toggle reduced paid-up conversion
  m          Toggle RPU mode (auto/manual)

TAX RULES:
  digits     Edit an exemption or deduction; every result is recomputed
  x          Restore the rules loaded at startup
`
	return BorderStyle.Render(helpText)
}

package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/tgplan/internal/output"
	"github.com/rgehrsitz/tgplan/internal/tui/tuistyles"
	"github.com/shopspring/decimal"
)

// ComparisonCard shows one figure under both branches and the change between them
type ComparisonCard struct {
	Label  string
	NoPlan decimal.Decimal
	Plan   decimal.Decimal
	// HigherIsBetter marks figures such as the amount the third generation keeps
	HigherIsBetter bool
	Width          int
}

// NewComparisonCard creates a card for a tax figure, where lower is better
func NewComparisonCard(label string, noPlan, plan decimal.Decimal) *ComparisonCard {
	return &ComparisonCard{Label: label, NoPlan: noPlan, Plan: plan, Width: 30}
}

// Receiving marks the figure as an amount received rather than paid
func (c *ComparisonCard) Receiving() *ComparisonCard {
	c.HigherIsBetter = true
	return c
}

// WithWidth sets the card width
func (c *ComparisonCard) WithWidth(width int) *ComparisonCard {
	c.Width = width
	return c
}

// Render returns the bordered card
func (c *ComparisonCard) Render() string {
	label := tuistyles.LabelStyle.Render(c.Label)
	values := fmt.Sprintf("%s → %s",
		tuistyles.ValueStyle.Render(output.FormatCurrency(c.NoPlan)),
		tuistyles.ValueStyle.Render(output.FormatCurrency(c.Plan)))

	content := label + "\n" + values
	if delta := c.Plan.Sub(c.NoPlan); !delta.IsZero() {
		favorable := delta.IsPositive() == c.HigherIsBetter
		arrow := tuistyles.TrendIndicator(delta.IsPositive())
		content += "\n" + tuistyles.TrendStyle(favorable).Render(arrow+" "+output.FormatSignedCurrency(delta))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorBorder).
		Padding(0, 1).
		Width(c.Width).
		Render(content)
}

// CardGrid renders cards in rows of the given column count
func CardGrid(cards []*ComparisonCard, columns int) string {
	if len(cards) == 0 || columns < 1 {
		return ""
	}
	var rows, current []string
	for i, card := range cards {
		current = append(current, card.Render())
		if (i+1)%columns == 0 || i == len(cards)-1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, current...))
			current = nil
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

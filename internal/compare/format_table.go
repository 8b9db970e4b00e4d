package compare

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing strategies
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	// Header
	sb.WriteString("GIFTING STRATEGY COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	if compSet.ScenarioName != "" {
		sb.WriteString(fmt.Sprintf("Scenario: %s\n", compSet.ScenarioName))
	}
	sb.WriteString(fmt.Sprintf("Base Strategy: %s\n", compSet.BaseStrategy))
	if compSet.ConfigPath != "" {
		sb.WriteString(fmt.Sprintf("Configuration: %s\n", compSet.ConfigPath))
	}
	sb.WriteString("\n")

	nameWidth := 24
	numWidth := 13

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, "Strategy",
		numWidth, "Total Tax",
		numWidth, "RPU Year",
		numWidth, "Funded Years",
		numWidth, "Total Gifted"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	if compSet.BaseResult != nil {
		sb.WriteString(tf.formatRow(compSet.BaseResult, nameWidth, numWidth, true, compSet.Recommended == compSet.BaseResult.Strategy))
	}

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for i := range compSet.AlternativeResults {
			alt := &compSet.AlternativeResults[i]
			sb.WriteString(tf.formatRow(alt, nameWidth, numWidth, false, compSet.Recommended == alt.Strategy))
		}
	}

	sb.WriteString(strings.Repeat("=", 80) + "\n")

	// Deltas from base
	if compSet.BaseResult != nil && len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\nCOMPARISON TO BASE\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")

		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(fmt.Sprintf("\n%s:\n", alt.Name()))
			sb.WriteString(fmt.Sprintf("  Gift Tax:      %s%s\n",
				tf.deltaSymbol(alt.TaxDiffFromBase), tf.formatDecimal(alt.TaxDiffFromBase.Abs())))
			if alt.FundedYearsFromBase != 0 {
				sb.WriteString(fmt.Sprintf("  Funded Years:  %+d\n", alt.FundedYearsFromBase))
			}
		}
		sb.WriteString("\n")
	}

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatRow formats a single strategy row
func (tf *TableFormatter) formatRow(result *ComparisonResult, nameWidth, numWidth int, isBase, isBest bool) string {
	name := result.Name()
	if isBase {
		name += " (base)"
	}
	if isBest {
		name += " *"
	}

	rpu := "none"
	if result.RPUYear > 0 {
		rpu = fmt.Sprintf("%d", result.RPUYear)
	}

	return fmt.Sprintf("%-*s %*s %*s %*d %*s\n",
		nameWidth, tf.truncate(name, nameWidth),
		numWidth, tf.formatDecimal(result.TotalTax),
		numWidth, rpu,
		numWidth, result.FundedYears,
		numWidth, tf.formatDecimal(result.TotalGifted))
}

// formatDecimal formats a decimal for display in millions or thousands
func (tf *TableFormatter) formatDecimal(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		millions := d.Div(decimal.NewFromInt(1000000))
		return millions.StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		thousands := d.Div(decimal.NewFromInt(1000))
		return thousands.StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

// deltaSymbol returns + for an increase and - for a decrease
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	} else if delta.IsNegative() {
		return "-"
	}
	return " "
}

// truncate truncates a string to maxLen
func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// FormatCompact creates a compact single-line summary for each strategy
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Base: %s | ", compSet.BaseStrategy))

	for i, alt := range compSet.AlternativeResults {
		if i > 0 {
			sb.WriteString(" | ")
		}
		change := "="
		if alt.TaxDiffFromBase.IsPositive() {
			change = "+" + tf.formatDecimal(alt.TaxDiffFromBase)
		} else if alt.TaxDiffFromBase.IsNegative() {
			change = "-" + tf.formatDecimal(alt.TaxDiffFromBase.Abs())
		}
		sb.WriteString(fmt.Sprintf("%s: %s", alt.Name(), change))
	}

	return sb.String()
}

package output

import (
	"strings"

	"github.com/rgehrsitz/tgplan/internal/domain"
	"github.com/shopspring/decimal"
)

// FormatCurrency renders an amount as a thousands-separated whole number,
// rounding half to even
func FormatCurrency(amount decimal.Decimal) string {
	s := amount.RoundBank(0).StringFixed(0)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	if neg && s != "0" {
		return "-" + b.String()
	}
	return b.String()
}

// FormatPercentage renders a ratio such as 0.15 as "15.00%"
func FormatPercentage(ratio decimal.Decimal) string {
	return ratio.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}

// FormatSignedCurrency prefixes positive amounts with "+"
func FormatSignedCurrency(amount decimal.Decimal) string {
	if amount.IsPositive() {
		return "+" + FormatCurrency(amount)
	}
	return FormatCurrency(amount)
}

// BracketRange describes a tier's span in the reference-table form
// "≤ b1", "b1 < ~ ≤ b2" or "> b2"
func BracketRange(table domain.TaxBracketTable, i int) string {
	b := table.Brackets[i]
	if i == 0 {
		if b.Unbounded() {
			return "all"
		}
		return "≤ " + FormatCurrency(*b.UpperBound)
	}
	prev := table.Brackets[i-1].UpperBound
	if b.Unbounded() {
		return "> " + FormatCurrency(*prev)
	}
	return FormatCurrency(*prev) + " < ~ ≤ " + FormatCurrency(*b.UpperBound)
}

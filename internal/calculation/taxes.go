package calculation

import (
	"github.com/rgehrsitz/tgplan/internal/domain"
	"github.com/shopspring/decimal"
)

// TAX CALCULATION ASSUMPTIONS:
//
// 1. Gift and estate tax share one progressive formula:
//    tax = base × rate − quick deduction, using the first tier whose upper
//    bound is at or above the base.
//
// 2. Bases are clamped to zero by callers before the calculator is invoked.
//
// 3. Rounding happens once, on the final tax amount, half to even.

// BracketTaxCalculator applies a progressive bracket table
type BracketTaxCalculator struct {
	Table domain.TaxBracketTable
}

// NewBracketTaxCalculator creates a calculator for the given table
func NewBracketTaxCalculator(table domain.TaxBracketTable) *BracketTaxCalculator {
	return &BracketTaxCalculator{Table: table}
}

// NewGiftTaxCalculator creates a calculator for the configured gift table
func NewGiftTaxCalculator(rules domain.TaxRules) *BracketTaxCalculator {
	return NewBracketTaxCalculator(rules.GiftBrackets)
}

// NewEstateTaxCalculator creates a calculator for the configured estate table
func NewEstateTaxCalculator(rules domain.TaxRules) *BracketTaxCalculator {
	return NewBracketTaxCalculator(rules.EstateBrackets)
}

// Compute returns the tax due on a taxable base and the marginal bracket label
func (c *BracketTaxCalculator) Compute(taxableBase decimal.Decimal) (decimal.Decimal, string) {
	return ComputeTax(taxableBase, c.Table)
}

// ComputeTax returns the tax due on taxableBase under table. A base at or
// below zero owes nothing and reports domain.NoBracket.
func ComputeTax(taxableBase decimal.Decimal, table domain.TaxBracketTable) (decimal.Decimal, string) {
	if taxableBase.LessThanOrEqual(decimal.Zero) || len(table.Brackets) == 0 {
		return decimal.Zero, domain.NoBracket
	}

	bracket := table.Brackets[len(table.Brackets)-1]
	for _, b := range table.Brackets {
		if b.Contains(taxableBase) {
			bracket = b
			break
		}
	}

	tax := taxableBase.Mul(bracket.Rate).Sub(bracket.QuickDeduction).RoundBank(0)
	if tax.IsNegative() {
		tax = decimal.Zero
	}
	return tax, bracket.Label()
}

// ClampedBase returns max(amount − deduction, 0)
func ClampedBase(amount, deduction decimal.Decimal) decimal.Decimal {
	return decimal.Max(amount.Sub(deduction), decimal.Zero)
}

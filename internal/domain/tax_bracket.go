package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// NoBracket is the label reported when no tax is due
const NoBracket = "—"

// continuityTolerance is the largest gap, in currency units, allowed between a
// quick deduction and the value that keeps tax continuous at the boundary below it
var continuityTolerance = decimal.NewFromInt(1)

// TaxBracket is one tier of a progressive table. A nil UpperBound marks the
// final, unbounded tier.
type TaxBracket struct {
	UpperBound     *decimal.Decimal `yaml:"upper_bound,omitempty" json:"upper_bound,omitempty"`
	Rate           decimal.Decimal  `yaml:"rate" json:"rate"`
	QuickDeduction decimal.Decimal  `yaml:"quick_deduction" json:"quick_deduction"`
}

// Unbounded reports whether the tier has no upper bound
func (b TaxBracket) Unbounded() bool {
	return b.UpperBound == nil
}

// Label returns the marginal rate as a percentage label, e.g. "15%"
func (b TaxBracket) Label() string {
	return b.Rate.Mul(decimal.NewFromInt(100)).String() + "%"
}

// Contains reports whether base falls at or below this tier's upper bound
func (b TaxBracket) Contains(base decimal.Decimal) bool {
	return b.Unbounded() || base.LessThanOrEqual(*b.UpperBound)
}

// TaxBracketTable is an ordered list of tiers shared in shape by gift and estate tax
type TaxBracketTable struct {
	Name     string       `yaml:"name" json:"name"`
	Brackets []TaxBracket `yaml:"brackets" json:"brackets"`
}

// NewTaxBracketTable builds a table from ascending boundaries and one more rate
// than boundaries, deriving each quick deduction so tax is continuous.
func NewTaxBracketTable(name string, bounds, rates []decimal.Decimal) (TaxBracketTable, error) {
	if len(rates) != len(bounds)+1 {
		return TaxBracketTable{}, fmt.Errorf("%w: need %d rates for %d bounds, got %d",
			ErrInvalidInput, len(bounds)+1, len(bounds), len(rates))
	}

	table := TaxBracketTable{Name: name, Brackets: make([]TaxBracket, 0, len(rates))}
	qd := decimal.Zero
	for i, rate := range rates {
		if i > 0 {
			qd = qd.Add(bounds[i-1].Mul(rate.Sub(rates[i-1])))
		}
		bracket := TaxBracket{Rate: rate, QuickDeduction: qd}
		if i < len(bounds) {
			bracket.UpperBound = DecimalPtr(bounds[i])
		}
		table.Brackets = append(table.Brackets, bracket)
	}

	if err := table.Validate(); err != nil {
		return TaxBracketTable{}, err
	}
	return table, nil
}

// Validate checks that bounds strictly increase, only the last tier is
// unbounded, rates lie in [0, 1] and quick deductions keep tax continuous.
func (t TaxBracketTable) Validate() error {
	if len(t.Brackets) == 0 {
		return fmt.Errorf("%w: table %q has no brackets", ErrInvalidInput, t.Name)
	}

	last := len(t.Brackets) - 1
	prevBound := decimal.Zero
	prevRate := decimal.Zero
	expectedQD := decimal.Zero
	for i, b := range t.Brackets {
		if b.Rate.IsNegative() || b.Rate.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("%w: table %q tier %d rate must be between 0 and 1", ErrInvalidInput, t.Name, i+1)
		}
		if i == last {
			if !b.Unbounded() {
				return fmt.Errorf("%w: table %q final tier must be unbounded", ErrInvalidInput, t.Name)
			}
		} else {
			if b.Unbounded() {
				return fmt.Errorf("%w: table %q tier %d is unbounded but not last", ErrInvalidInput, t.Name, i+1)
			}
			if b.UpperBound.LessThanOrEqual(prevBound) {
				return fmt.Errorf("%w: table %q tier %d upper bound must exceed %s", ErrInvalidInput, t.Name, i+1, prevBound.String())
			}
		}

		if i > 0 {
			expectedQD = expectedQD.Add(prevBound.Mul(b.Rate.Sub(prevRate)))
		}
		if b.QuickDeduction.Sub(expectedQD).Abs().GreaterThan(continuityTolerance) {
			return fmt.Errorf("%w: table %q tier %d quick deduction %s breaks continuity (expected %s)",
				ErrInvalidInput, t.Name, i+1, b.QuickDeduction.String(), expectedQD.String())
		}

		if !b.Unbounded() {
			prevBound = *b.UpperBound
		}
		prevRate = b.Rate
	}
	return nil
}

// FirstBracketUpperBound returns the top of the lowest tier, or zero when the
// table has a single unbounded tier
func (t TaxBracketTable) FirstBracketUpperBound() decimal.Decimal {
	if len(t.Brackets) == 0 || t.Brackets[0].Unbounded() {
		return decimal.Zero
	}
	return *t.Brackets[0].UpperBound
}

// Clone returns a deep copy of the table
func (t TaxBracketTable) Clone() TaxBracketTable {
	out := TaxBracketTable{Name: t.Name, Brackets: make([]TaxBracket, len(t.Brackets))}
	for i, b := range t.Brackets {
		out.Brackets[i] = b
		if b.UpperBound != nil {
			out.Brackets[i].UpperBound = DecimalPtr(*b.UpperBound)
		}
	}
	return out
}

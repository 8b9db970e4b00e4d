package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rgehrsitz/tgplan/internal/domain"
	"github.com/shopspring/decimal"
)

// Field keys
const (
	fieldTotalAssets     = "total_assets"
	fieldPremium         = "premium"
	fieldCashValue       = "cash_value"
	fieldFaceAmount      = "face_amount"
	fieldDonors          = "donors"
	fieldGen1Descendants = "gen1_descendants"
	fieldGen2Descendants = "gen2_descendants"

	fieldTargetPremium = "target_premium"
	fieldPerPolicyCap  = "per_policy_cap"
	fieldPlanDonors    = "plan_donors"
	fieldYear1Batch    = "year1_batch"
	fieldManualRPUYear = "manual_rpu_year"

	fieldGiftExemption   = "gift_exemption"
	fieldEstateExemption = "estate_exemption"
	fieldSpouse          = "spouse_deduction"
	fieldFuneral         = "funeral_deduction"
	fieldPerDescendant   = "per_descendant_deduction"
)

type field struct {
	key   string
	label string
	input textinput.Model
}

func newField(key, label, value string) field {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 15
	ti.Width = 16
	ti.SetValue(value)
	return field{key: key, label: label, input: ti}
}

// form is an ordered set of numeric inputs with one focused field
type form struct {
	fields []field
	focus  int
}

func newForm(fields ...field) form {
	f := form{fields: fields}
	f.setFocus(0)
	return f
}

func (f *form) setFocus(i int) {
	if len(f.fields) == 0 {
		return
	}
	f.focus = (i + len(f.fields)) % len(f.fields)
	for j := range f.fields {
		if j == f.focus {
			f.fields[j].input.Focus()
		} else {
			f.fields[j].input.Blur()
		}
	}
}

func (f *form) next() { f.setFocus(f.focus + 1) }
func (f *form) prev() { f.setFocus(f.focus - 1) }

// update forwards msg to the focused input
func (f *form) update(msg tea.Msg) tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return cmd
}

func (f *form) index(key string) int {
	for i := range f.fields {
		if f.fields[i].key == key {
			return i
		}
	}
	return -1
}

func (f *form) set(key, value string) {
	if i := f.index(key); i >= 0 {
		f.fields[i].input.SetValue(value)
	}
}

func (f *form) raw(key string) string {
	if i := f.index(key); i >= 0 {
		return strings.ReplaceAll(strings.TrimSpace(f.fields[i].input.Value()), ",", "")
	}
	return ""
}

func (f *form) label(key string) string {
	if i := f.index(key); i >= 0 {
		return f.fields[i].label
	}
	return key
}

// decimal parses a money field; blank means zero
func (f *form) decimal(key string) (decimal.Decimal, error) {
	raw := f.raw(key)
	if raw == "" {
		return decimal.Zero, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s is not a number", domain.ErrInvalidInput, f.label(key))
	}
	return v, nil
}

// int parses a count field; blank means zero
func (f *form) int(key string) (int, error) {
	raw := f.raw(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a whole number", domain.ErrInvalidInput, f.label(key))
	}
	return v, nil
}

// numericRunes reports whether a key press only types characters a numeric
// field accepts
func numericRunes(msg tea.KeyMsg) bool {
	if msg.Type != tea.KeyRunes {
		return false
	}
	for _, r := range msg.Runes {
		if (r < '0' || r > '9') && r != '.' && r != ',' {
			return false
		}
	}
	return true
}

func money(d decimal.Decimal) string {
	return d.String()
}

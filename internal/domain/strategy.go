package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Strategy selects how many years premiums keep being funded after the
// ownership change
type Strategy int

const (
	TaxMinimizing Strategy = iota
	FacePriority
	FaceMaximizing
)

// AllStrategies lists every strategy in enumeration order
var AllStrategies = []Strategy{TaxMinimizing, FacePriority, FaceMaximizing}

func (s Strategy) String() string {
	switch s {
	case TaxMinimizing:
		return "tax_minimizing"
	case FacePriority:
		return "face_priority"
	case FaceMaximizing:
		return "face_maximizing"
	default:
		return "unknown"
	}
}

// ExtraYears is the number of funding years after the ownership change
func (s Strategy) ExtraYears() int {
	switch s {
	case FacePriority:
		return 1
	case FaceMaximizing:
		return 2
	default:
		return 0
	}
}

// Description returns a short human-readable summary
func (s Strategy) Description() string {
	switch s {
	case TaxMinimizing:
		return "Convert to reduced paid-up in the change year"
	case FacePriority:
		return "Fund one more year after the change, then convert"
	case FaceMaximizing:
		return "Fund two more years after the change, then convert"
	default:
		return ""
	}
}

// MarshalText implements encoding.TextMarshaler
func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *Strategy) UnmarshalText(text []byte) error {
	parsed, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseStrategy converts a strategy name; the empty string means tax_minimizing
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "tax_minimizing":
		return TaxMinimizing, nil
	case "face_priority":
		return FacePriority, nil
	case "face_maximizing":
		return FaceMaximizing, nil
	default:
		return TaxMinimizing, fmt.Errorf("%w: unknown strategy %q", ErrInvalidInput, name)
	}
}

// RPUMode chooses between the strategy-implied and an explicit RPU year
type RPUMode int

const (
	RPUAuto RPUMode = iota
	RPUManual
)

func (m RPUMode) String() string {
	if m == RPUManual {
		return "manual"
	}
	return "auto"
}

// MarshalText implements encoding.TextMarshaler
func (m RPUMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (m *RPUMode) UnmarshalText(text []byte) error {
	parsed, err := ParseRPUMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseRPUMode converts a mode name; the empty string means auto
func ParseRPUMode(name string) (RPUMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return RPUAuto, nil
	case "manual":
		return RPUManual, nil
	default:
		return RPUAuto, fmt.Errorf("%w: unknown RPU mode %q", ErrInvalidInput, name)
	}
}

// RPUOption configures reduced paid-up conversion
type RPUOption struct {
	Enabled    bool    `json:"enabled"`
	Mode       RPUMode `json:"mode"`
	ManualYear int     `json:"manual_year,omitempty"`
}

// GiftCategory classifies a schedule row
type GiftCategory int

const (
	GiftNone GiftCategory = iota
	GiftOwnershipChange
	GiftCash
	GiftRPU
)

func (g GiftCategory) String() string {
	switch g {
	case GiftOwnershipChange:
		return "ownership_change"
	case GiftCash:
		return "cash_gift"
	case GiftRPU:
		return "rpu"
	default:
		return "none"
	}
}

// MarshalText implements encoding.TextMarshaler
func (g GiftCategory) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (g *GiftCategory) UnmarshalText(text []byte) error {
	switch string(text) {
	case "none":
		*g = GiftNone
	case "ownership_change":
		*g = GiftOwnershipChange
	case "cash_gift":
		*g = GiftCash
	case "rpu":
		*g = GiftRPU
	default:
		return fmt.Errorf("%w: unknown gift category %q", ErrInvalidInput, string(text))
	}
	return nil
}

// PlanInput holds the inputs of the accumulation/gifting schedule
type PlanInput struct {
	TargetAnnualPremium decimal.Decimal `json:"target_annual_premium"`
	PerPolicyCap        decimal.Decimal `json:"per_policy_cap"`
	Strategy            Strategy        `json:"strategy"`
	RPU                 RPUOption       `json:"rpu"`
	DonorCount          int             `json:"donor_count"`
	// Year1Batch is the number of policies whose ownership changes in year 1;
	// zero means every policy changes in year 2.
	Year1Batch int `json:"year1_batch,omitempty"`
}

// Validate rejects inputs the planner cannot compute on
func (p PlanInput) Validate() error {
	if p.TargetAnnualPremium.IsNegative() || p.TargetAnnualPremium.IsZero() {
		return fmt.Errorf("%w: target annual premium must be positive", ErrInvalidInput)
	}
	if !p.PerPolicyCap.IsPositive() {
		return fmt.Errorf("%w: per-policy cap must be positive", ErrInvalidInput)
	}
	if p.DonorCount < 1 {
		return fmt.Errorf("%w: donor count must be at least 1", ErrInvalidInput)
	}
	if p.Year1Batch < 0 {
		return fmt.Errorf("%w: year-1 batch cannot be negative", ErrInvalidInput)
	}
	return nil
}

// PlanScheduleRow is one year's gift event
type PlanScheduleRow struct {
	Year                 int             `json:"year"`
	YearLabel            string          `json:"year_label"`
	Category             GiftCategory    `json:"category"`
	OwnershipChangeValue decimal.Decimal `json:"ownership_change_value"`
	CashGift             decimal.Decimal `json:"cash_gift"`
	GrossGift            decimal.Decimal `json:"gross_gift"`
	NetTaxable           decimal.Decimal `json:"net_taxable"`
	TaxDue               decimal.Decimal `json:"tax_due"`
	Bracket              string          `json:"bracket"`
}

// PlanSchedule is the ordered audit trail of a plan; rows sum to TotalTax
type PlanSchedule struct {
	Strategy            Strategy           `json:"strategy"`
	TargetAnnualPremium decimal.Decimal    `json:"target_annual_premium"`
	PerPolicyCap        decimal.Decimal    `json:"per_policy_cap"`
	CapClamped          bool               `json:"cap_clamped"`
	NumPolicies         int                `json:"num_policies"`
	ActualAnnualPremium decimal.Decimal    `json:"actual_annual_premium"`
	Year1Batch          int                `json:"year1_batch"`
	Year2Batch          int                `json:"year2_batch"`
	RPU                 RPUOption          `json:"rpu_option"`
	RPUYear             int                `json:"rpu_year,omitempty"`
	Rows                []PlanScheduleRow  `json:"rows"`
	TotalTax            decimal.Decimal    `json:"total_tax"`
	PolicySchedule      []PolicyYearRecord `json:"policy_schedule"`
}

// LastYear returns the last year covered by the schedule rows
func (p PlanSchedule) LastYear() int {
	last := 0
	for _, r := range p.Rows {
		if r.Year > last {
			last = r.Year
		}
	}
	return last
}

// CapacityReference is the read-only report of the largest premiums whose
// change-year gift stays inside the lowest bracket
type CapacityReference struct {
	AnnualExemption    decimal.Decimal `json:"annual_exemption"`
	Bracket1UpperBound decimal.Decimal `json:"bracket1_upper_bound"`
	GiftValueCap       decimal.Decimal `json:"gift_value_cap"`
	Year1PremiumCap    decimal.Decimal `json:"year1_premium_cap"`
	Year2PremiumCap    decimal.Decimal `json:"year2_premium_cap"`
	PerPolicyCap       decimal.Decimal `json:"per_policy_cap"`
	PoliciesAtYear2Cap int             `json:"policies_at_year2_cap"`
}

package domain

import "github.com/shopspring/decimal"

// Configuration is the top-level scenario file
type Configuration struct {
	// Regulatory overrides the default jurisdiction data when present
	Regulatory *RegulatoryConfig `yaml:"regulatory,omitempty" json:"regulatory,omitempty"`
	Report     ReportBranding    `yaml:"report" json:"report"`
	Scenarios  []Scenario        `yaml:"scenarios" json:"scenarios" validate:"required,min=1,dive"`
}

// Scenario is one named set of inputs. At least one of Cascade or Plan is set.
type Scenario struct {
	Name        string           `yaml:"name" json:"name" validate:"required"`
	Description string           `yaml:"description,omitempty" json:"description,omitempty"`
	Cascade     *CascadeScenario `yaml:"cascade,omitempty" json:"cascade,omitempty" validate:"required_without=Plan"`
	Plan        *PlanScenario    `yaml:"plan,omitempty" json:"plan,omitempty" validate:"required_without=Cascade"`
}

// CascadeScenario is the file form of CascadeInput. When CashValueAtGift is
// omitted the cash value is read from the policy schedule at ValuationYear.
type CascadeScenario struct {
	TotalAssets        decimal.Decimal         `yaml:"total_assets" json:"total_assets" validate:"gte=0"`
	Premium            decimal.Decimal         `yaml:"premium" json:"premium" validate:"gte=0"`
	CashValueAtGift    *decimal.Decimal        `yaml:"cash_value_at_gift,omitempty" json:"cash_value_at_gift,omitempty"`
	ValuationYear      int                     `yaml:"valuation_year,omitempty" json:"valuation_year,omitempty" validate:"min=0"`
	CashValueOverrides map[int]decimal.Decimal `yaml:"cash_value_overrides,omitempty" json:"cash_value_overrides,omitempty"`
	FaceAmount         decimal.Decimal         `yaml:"face_amount" json:"face_amount" validate:"gte=0"`
	DonorCount         int                     `yaml:"donor_count" json:"donor_count" validate:"min=1"`
	Gen1Descendants    int                     `yaml:"gen1_descendants" json:"gen1_descendants" validate:"min=0"`
	Gen2Descendants    int                     `yaml:"gen2_descendants" json:"gen2_descendants" validate:"min=0"`
	OwnershipChanged   bool                    `yaml:"ownership_changed" json:"ownership_changed"`
	FaceToGen3Directly bool                    `yaml:"face_to_gen3_directly" json:"face_to_gen3_directly"`
}

// PlanScenario is the file form of PlanInput
type PlanScenario struct {
	TargetAnnualPremium decimal.Decimal `yaml:"target_annual_premium" json:"target_annual_premium" validate:"gt=0"`
	PerPolicyCap        decimal.Decimal `yaml:"per_policy_cap" json:"per_policy_cap" validate:"gt=0"`
	Strategy            string          `yaml:"strategy,omitempty" json:"strategy,omitempty" validate:"omitempty,oneof=tax_minimizing face_priority face_maximizing"`
	RPUEnabled          bool            `yaml:"rpu_enabled" json:"rpu_enabled"`
	RPUMode             string          `yaml:"rpu_mode,omitempty" json:"rpu_mode,omitempty" validate:"omitempty,oneof=auto manual"`
	ManualRPUYear       int             `yaml:"manual_rpu_year,omitempty" json:"manual_rpu_year,omitempty" validate:"min=0"`
	DonorCount          int             `yaml:"donor_count" json:"donor_count" validate:"min=1"`
	Year1Batch          int             `yaml:"year1_batch,omitempty" json:"year1_batch,omitempty" validate:"min=0"`
	CompareStrategies   bool            `yaml:"compare_strategies,omitempty" json:"compare_strategies,omitempty"`
}

// ReportBranding is the static text printed on exported reports
type ReportBranding struct {
	Title        string `yaml:"title,omitempty" json:"title,omitempty"`
	Organization string `yaml:"organization,omitempty" json:"organization,omitempty"`
	Tagline      string `yaml:"tagline,omitempty" json:"tagline,omitempty"`
	Contact      string `yaml:"contact,omitempty" json:"contact,omitempty"`
	LogoPath     string `yaml:"logo_path,omitempty" json:"logo_path,omitempty"`
	FontPath     string `yaml:"font_path,omitempty" json:"font_path,omitempty"`
}

// DefaultReportBranding returns the branding used when a file sets none
func DefaultReportBranding() ReportBranding {
	return ReportBranding{
		Title:   "Three-Generation Gift and Estate Tax Plan",
		Tagline: "Policy-value gift versus no plan",
	}
}

// ScenarioResult carries every computed output for one scenario
type ScenarioResult struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Cascade     *CascadeResult     `json:"cascade,omitempty"`
	Plan        *PlanSchedule      `json:"plan,omitempty"`
	Capacity    *CapacityReference `json:"capacity,omitempty"`
	// Strategies holds one schedule per strategy when comparison was requested
	Strategies []PlanSchedule `json:"strategies,omitempty"`
}

// AnalysisResults is the output of running a whole configuration
type AnalysisResults struct {
	Regulatory RegulatoryConfig `json:"regulatory"`
	Branding   ReportBranding   `json:"branding"`
	Scenarios  []ScenarioResult `json:"scenarios"`
}

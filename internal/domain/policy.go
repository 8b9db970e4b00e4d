package domain

import "github.com/shopspring/decimal"

// PolicyYearRecord is one year of a policy valuation schedule
type PolicyYearRecord struct {
	Year              int             `json:"year"`
	Premium           decimal.Decimal `json:"premium"`
	CumulativePremium decimal.Decimal `json:"cumulative_premium"`
	CashValue         decimal.Decimal `json:"cash_value"`
}

// PolicyScheduleRequest describes a schedule to build. Overrides replace the
// ratio-derived cash value for the given years.
type PolicyScheduleRequest struct {
	AnnualPremium decimal.Decimal
	HorizonYears  int
	Overrides     map[int]decimal.Decimal
	Ratios        map[int]decimal.Decimal
}

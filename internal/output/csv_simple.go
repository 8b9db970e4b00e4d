package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rgehrsitz/tgplan/internal/domain"
	"github.com/shopspring/decimal"
)

// CSVSummarizer writes one row per scenario with the report totals and the
// plan's total gift tax
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(results *domain.AnalysisResults) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{
		"Scenario", "GiftTaxPlan", "Gen1EstateTaxNoPlan", "Gen1EstateTaxPlan",
		"Gen2EstateTaxNoPlan", "Gen2EstateTaxPlan", "Gen3FinalNoPlan", "Gen3FinalPlan",
		"TotalTaxNoPlan", "TotalTaxPlan", "Savings", "PlanStrategy", "PlanPolicies", "PlanRPUYear", "PlanTotalTax",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, sc := range results.Scenarios {
		row := []string{sc.Name}
		if sc.Cascade != nil {
			t := sc.Cascade.Totals()
			row = append(row, amounts(t.GiftTaxPlan, t.Gen1EstateTaxNoPlan, t.Gen1EstateTaxPlan,
				t.Gen2EstateTaxNoPlan, t.Gen2EstateTaxPlan, t.Gen3FinalNoPlan, t.Gen3FinalPlan,
				t.TotalTaxNoPlan, t.TotalTaxPlan, t.Savings)...)
		} else {
			row = append(row, make([]string, 10)...)
		}
		if sc.Plan != nil {
			row = append(row, sc.Plan.Strategy.String(), strconv.Itoa(sc.Plan.NumPolicies),
				strconv.Itoa(sc.Plan.RPUYear), sc.Plan.TotalTax.StringFixed(0))
		} else {
			row = append(row, make([]string, 4)...)
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func amounts(values ...decimal.Decimal) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.StringFixed(0)
	}
	return out
}

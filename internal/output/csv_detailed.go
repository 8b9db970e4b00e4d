package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rgehrsitz/tgplan/internal/domain"
)

// DetailedCSVFormatter writes every plan row and every branch generation as
// its own record, one section per row kind
type DetailedCSVFormatter struct{}

func (d DetailedCSVFormatter) Name() string { return "detailed-csv" }

func (d DetailedCSVFormatter) Format(results *domain.AnalysisResults) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	header := []string{"Scenario", "Record", "Branch", "Year", "Label", "Category",
		"AssetBase", "ChangeValue", "CashGift", "GrossGift", "NetTaxable", "Tax", "Bracket"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, sc := range results.Scenarios {
		if sc.Cascade != nil {
			for _, b := range []domain.BranchResult{sc.Cascade.NoPlan, sc.Cascade.Plan} {
				gift := []string{sc.Name, "gift", b.Branch, "", "Gen1 gift", "",
					"", "", "", b.GiftBase.StringFixed(0), b.GiftBase.StringFixed(0), b.GiftTax.StringFixed(0), b.GiftBracket}
				if err := w.Write(gift); err != nil {
					return nil, err
				}
				for _, g := range []domain.GenerationState{b.Gen1, b.Gen2, b.Gen3} {
					rec := []string{sc.Name, "generation", b.Branch, strconv.Itoa(g.Generation),
						"Gen" + strconv.Itoa(g.Generation), "", g.AssetBase.StringFixed(0), "", "", "",
						g.TaxableBase.StringFixed(0), g.EstateTaxPaid.StringFixed(0), g.Bracket}
					if err := w.Write(rec); err != nil {
						return nil, err
					}
				}
			}
		}
		for _, p := range planSchedules(sc) {
			for _, row := range p.Rows {
				rec := []string{sc.Name, "plan_row", p.Strategy.String(), strconv.Itoa(row.Year), row.YearLabel,
					row.Category.String(), "", row.OwnershipChangeValue.StringFixed(0), row.CashGift.StringFixed(0),
					row.GrossGift.StringFixed(0), row.NetTaxable.StringFixed(0), row.TaxDue.StringFixed(0), row.Bracket}
				if err := w.Write(rec); err != nil {
					return nil, err
				}
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// planSchedules returns the strategy comparison when present, otherwise the
// single configured plan
func planSchedules(sc domain.ScenarioResult) []domain.PlanSchedule {
	if len(sc.Strategies) > 0 {
		return sc.Strategies
	}
	if sc.Plan != nil {
		return []domain.PlanSchedule{*sc.Plan}
	}
	return nil
}

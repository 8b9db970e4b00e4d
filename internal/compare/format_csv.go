package compare

import (
	"encoding/csv"
	"fmt"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Strategy",
		"Type",
		"Recommended",
		"Total Tax",
		"RPU Year",
		"Funded Years",
		"Total Gifted",
		"Peak Year Tax",
		"Peak Year Bracket",
		"Tax Diff from Base",
		"Funded Years Diff",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if compSet.BaseResult != nil {
		if err := writer.Write(cf.formatRow(compSet.BaseResult, "base", compSet)); err != nil {
			return "", err
		}
	}

	for i := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&compSet.AlternativeResults[i], "alternative", compSet)); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// formatRow formats a comparison result as a CSV row
func (cf *CSVFormatter) formatRow(result *ComparisonResult, kind string, compSet *ComparisonSet) []string {
	return []string{
		result.Name(),
		kind,
		fmt.Sprintf("%t", result.Strategy == compSet.Recommended),
		result.TotalTax.StringFixed(0),
		formatInt(result.RPUYear),
		formatInt(result.FundedYears),
		result.TotalGifted.StringFixed(0),
		result.PeakYearTax.StringFixed(0),
		result.PeakYearBracket,
		result.TaxDiffFromBase.StringFixed(0),
		formatInt(result.FundedYearsFromBase),
	}
}

func formatInt(i int) string {
	return fmt.Sprintf("%d", i)
}

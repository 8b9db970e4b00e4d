package breakeven

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rgehrsitz/tgplan/internal/output"
	"github.com/shopspring/decimal"
)

// TableFormatter formats solver results as a console table
type TableFormatter struct{}

// Format generates a formatted table for a solver result
func (tf *TableFormatter) Format(result *SolveResult) string {
	var sb strings.Builder

	sb.WriteString("GIFT TAX BUDGET SOLVER\n")
	sb.WriteString(strings.Repeat("=", 60) + "\n")

	sb.WriteString(fmt.Sprintf("Solve For:   %s\n", result.Request.Target))
	sb.WriteString(fmt.Sprintf("Tax Budget:  %s\n", output.FormatCurrency(result.Request.Constraints.TaxBudget)))
	sb.WriteString(fmt.Sprintf("Status:      %s\n", tf.formatStatus(result.Success)))
	sb.WriteString(fmt.Sprintf("Iterations:  %d\n", result.Iterations))
	if result.ConvergenceInfo != "" {
		sb.WriteString(fmt.Sprintf("Convergence: %s\n", result.ConvergenceInfo))
	}
	sb.WriteString("\n")

	sb.WriteString("SOLVED PARAMETER\n")
	sb.WriteString(strings.Repeat("-", 60) + "\n")
	if result.TargetPremium != nil {
		sb.WriteString(fmt.Sprintf("Target Annual Premium: %s\n", output.FormatCurrency(*result.TargetPremium)))
	}
	if result.DonorCount != nil {
		sb.WriteString(fmt.Sprintf("Donor Count:           %d\n", *result.DonorCount))
	}
	sb.WriteString("\n")

	if s := result.Schedule; s != nil {
		sb.WriteString("PLAN AT SOLUTION\n")
		sb.WriteString(strings.Repeat("-", 60) + "\n")
		sb.WriteString(fmt.Sprintf("Strategy:        %s\n", s.Strategy))
		sb.WriteString(fmt.Sprintf("Policies:        %d (%s each)\n", s.NumPolicies, tf.formatShort(s.ActualAnnualPremium.Div(decimal.NewFromInt(int64(max(s.NumPolicies, 1)))))))
		if s.RPUYear > 0 {
			sb.WriteString(fmt.Sprintf("RPU Year:        %d\n", s.RPUYear))
		}
		sb.WriteString(fmt.Sprintf("Total Gift Tax:  %s\n", output.FormatCurrency(result.TotalTax)))
		sb.WriteString(fmt.Sprintf("Budget Headroom: %s\n", output.FormatCurrency(result.Headroom)))
		sb.WriteString("\n")
	}

	return sb.String()
}

// JSONFormatter formats results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format generates JSON output
func (jf *JSONFormatter) Format(result *SolveResult) (string, error) {
	var data []byte
	var err error

	if jf.Pretty {
		data, err = json.MarshalIndent(result, "", "  ")
	} else {
		data, err = json.Marshal(result)
	}

	if err != nil {
		return "", err
	}

	return string(data), nil
}

func (tf *TableFormatter) formatStatus(success bool) string {
	if success {
		return "✓ Converged"
	}
	return "⚠ Did not converge"
}

func (tf *TableFormatter) formatShort(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		return d.Div(decimal.NewFromInt(1000000)).StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		return d.Div(decimal.NewFromInt(1000)).StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

package main

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/tgplan/internal/breakeven"
)

func breakevenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "breakeven",
		Short: "Solve for the largest premium or fewest donors within a gift tax budget",
		Long: "Holds the plan flags fixed and searches one parameter against a total gift tax budget:\n" +
			"  target_premium  largest target annual premium whose plan stays within the budget\n" +
			"  donors          smallest donor count whose plan stays within the budget",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := regulatoryFromFlags(cmd)
			if err != nil {
				return err
			}
			base, err := planInputFromFlags(cmd)
			if err != nil {
				return err
			}
			budget, err := decimalFlag(cmd, "budget")
			if err != nil {
				return err
			}

			req := breakeven.SolveRequest{
				Base:        base,
				Target:      breakeven.SolveTarget(strings.ToLower(mustString(cmd, "solve"))),
				Constraints: breakeven.Constraints{TaxBudget: budget},
			}
			if cmd.Flags().Changed("max-premium") {
				maxPremium, err := decimalFlag(cmd, "max-premium")
				if err != nil {
					return err
				}
				req.Constraints.MaxPremium = &maxPremium
			}
			if cmd.Flags().Changed("min-premium") {
				minPremium, err := decimalFlag(cmd, "min-premium")
				if err != nil {
					return err
				}
				req.Constraints.MinPremium = &minPremium
			}
			if cmd.Flags().Changed("max-donors") {
				maxDonors, _ := cmd.Flags().GetInt("max-donors")
				req.Constraints.MaxDonors = &maxDonors
			}
			if tol := mustString(cmd, "tolerance"); tol != "" {
				if req.Tolerance, err = decimal.NewFromString(tol); err != nil {
					return fmt.Errorf("invalid --tolerance %q: %w", tol, err)
				}
			}

			result, err := breakeven.NewDefaultSolver(newEngine(reg)).Solve(cmd.Context(), req)
			if err != nil {
				return err
			}
			logger.Debugw("budget solved", "target", req.Target, "iterations", result.Iterations, "success", result.Success)

			var out string
			switch strings.ToLower(mustString(cmd, "format")) {
			case "table":
				out = (&breakeven.TableFormatter{}).Format(result)
			case "json":
				if out, err = (&breakeven.JSONFormatter{Pretty: true}).Format(result); err != nil {
					return err
				}
				out += "\n"
			default:
				return fmt.Errorf("unknown breakeven format %q (valid: table, json)", mustString(cmd, "format"))
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	addPlanFlags(cmd)
	cmd.Flags().String("solve", string(breakeven.SolveTargetPremium), "Parameter to solve for (target_premium, donors)")
	cmd.Flags().String("budget", "0", "Largest acceptable plan total gift tax")
	cmd.Flags().String("min-premium", "1", "Lower bound of the premium search")
	cmd.Flags().String("max-premium", "0", "Upper bound of the premium search (defaults to 10x the per-policy cap)")
	cmd.Flags().Int("max-donors", 10, "Upper bound of the donor search")
	cmd.Flags().String("tolerance", "", "Premium convergence width (defaults to 1000)")
	cmd.Flags().StringP("format", "f", "table", "Output format (table, json)")
	return cmd
}

func mustString(cmd *cobra.Command, name string) string {
	s, _ := cmd.Flags().GetString(name)
	return s
}

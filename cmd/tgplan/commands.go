package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/tgplan/internal/calculation"
	"github.com/rgehrsitz/tgplan/internal/compare"
	"github.com/rgehrsitz/tgplan/internal/config"
	"github.com/rgehrsitz/tgplan/internal/domain"
	"github.com/rgehrsitz/tgplan/internal/output"
)

// decimalFlag reads a string flag as an exact decimal amount
func decimalFlag(cmd *cobra.Command, name string) (decimal.Decimal, error) {
	raw, _ := cmd.Flags().GetString(name)
	d, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", ""))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: --%s %q is not a number", domain.ErrInvalidInput, name, raw)
	}
	return d, nil
}

// singleScenario wraps an ad-hoc result so the report formatters can render it
func singleScenario(reg domain.RegulatoryConfig, result domain.ScenarioResult) *domain.AnalysisResults {
	return &domain.AnalysisResults{
		Regulatory: reg,
		Branding:   domain.DefaultReportBranding(),
		Scenarios:  []domain.ScenarioResult{result},
	}
}

func cascadeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cascade",
		Short: "Compare no plan against the policy-gifting plan across three generations",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := regulatoryFromFlags(cmd)
			if err != nil {
				return err
			}
			input := domain.CascadeInput{}
			for name, dst := range map[string]*decimal.Decimal{
				"assets":     &input.TotalAssets,
				"premium":    &input.Premium,
				"cash-value": &input.CashValueAtGift,
				"face":       &input.FaceAmount,
			} {
				if *dst, err = decimalFlag(cmd, name); err != nil {
					return err
				}
			}
			input.DonorCount, _ = cmd.Flags().GetInt("donors")
			input.Gen1Descendants, _ = cmd.Flags().GetInt("gen1-descendants")
			input.Gen2Descendants, _ = cmd.Flags().GetInt("gen2-descendants")
			input.OwnershipChanged, _ = cmd.Flags().GetBool("ownership-changed")
			input.FaceToGen3Directly, _ = cmd.Flags().GetBool("face-to-gen3")

			engine := newEngine(reg)
			result, err := engine.SimulateCascade(input)
			if err != nil {
				return err
			}
			logger.Debugw("cascade simulated", "savings", result.Savings.String())

			format, _ := cmd.Flags().GetString("format")
			return writeResults(cmd, singleScenario(reg, domain.ScenarioResult{Name: "cascade", Cascade: result}), format, false)
		},
	}
	cmd.Flags().String("assets", "0", "Total assets of the first generation")
	cmd.Flags().String("premium", "0", "Premiums paid into the policy")
	cmd.Flags().String("cash-value", "0", "Policy cash value at the time of the gift")
	cmd.Flags().String("face", "0", "Policy face amount paid on death")
	cmd.Flags().Int("donors", 1, "Number of donors sharing the gift")
	cmd.Flags().Int("gen1-descendants", 0, "Descendants deductible in the Gen1 estate")
	cmd.Flags().Int("gen2-descendants", 0, "Descendants deductible in the Gen2 estate")
	cmd.Flags().Bool("ownership-changed", true, "Policy ownership is transferred as a gift")
	cmd.Flags().Bool("face-to-gen3", true, "Face amount is paid directly to Gen3")
	cmd.Flags().StringP("format", "f", "console", "Output format")
	return cmd
}

// planInputFromFlags reads the flags shared by plan and compare
func planInputFromFlags(cmd *cobra.Command) (domain.PlanInput, error) {
	target, err := decimalFlag(cmd, "target")
	if err != nil {
		return domain.PlanInput{}, err
	}
	perPolicyCap, err := decimalFlag(cmd, "cap")
	if err != nil {
		return domain.PlanInput{}, err
	}
	scenario := &domain.PlanScenario{TargetAnnualPremium: target, PerPolicyCap: perPolicyCap}
	scenario.Strategy, _ = cmd.Flags().GetString("strategy")
	scenario.RPUEnabled, _ = cmd.Flags().GetBool("rpu")
	scenario.RPUMode, _ = cmd.Flags().GetString("rpu-mode")
	scenario.ManualRPUYear, _ = cmd.Flags().GetInt("rpu-year")
	scenario.DonorCount, _ = cmd.Flags().GetInt("donors")
	scenario.Year1Batch, _ = cmd.Flags().GetInt("year1-batch")
	return calculation.PlanInputFromScenario(scenario)
}

func addPlanFlags(cmd *cobra.Command) {
	cmd.Flags().String("target", "10000000", "Target annual premium across all policies")
	cmd.Flags().String("cap", "6000000", "Per-policy annual premium cap")
	cmd.Flags().String("strategy", "tax_minimizing", "Strategy (tax_minimizing, face_priority, face_maximizing)")
	cmd.Flags().Bool("rpu", true, "Convert policies to reduced paid-up")
	cmd.Flags().String("rpu-mode", "auto", "RPU year selection (auto, manual)")
	cmd.Flags().Int("rpu-year", 0, "RPU year when --rpu-mode=manual")
	cmd.Flags().Int("donors", 1, "Number of donors")
	cmd.Flags().Int("year1-batch", 0, "Policies whose ownership changes in year 1")
}

func planCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Schedule premium-funding gifts and ownership changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := regulatoryFromFlags(cmd)
			if err != nil {
				return err
			}
			input, err := planInputFromFlags(cmd)
			if err != nil {
				return err
			}
			engine := newEngine(reg)
			schedule, err := engine.Plan(input)
			if err != nil {
				return err
			}
			capacity := engine.Capacity(input.DonorCount, input.PerPolicyCap)
			result := domain.ScenarioResult{Name: "plan", Plan: schedule, Capacity: &capacity}
			if all, _ := cmd.Flags().GetBool("all-strategies"); all {
				if result.Strategies, err = engine.PlanAllStrategies(input); err != nil {
					return err
				}
			}
			format, _ := cmd.Flags().GetString("format")
			return writeResults(cmd, singleScenario(reg, result), format, false)
		},
	}
	addPlanFlags(cmd)
	cmd.Flags().Bool("all-strategies", false, "Also plan every strategy for comparison")
	cmd.Flags().StringP("format", "f", "console", "Output format")
	return cmd
}

func compareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [input-file]",
		Short: "Compare gifting strategies for a plan",
		Long: "Compare every gifting strategy for one plan, either from a scenario in a\n" +
			"configuration file or from the plan flags when no file is given.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				cs  *compare.ComparisonSet
				err error
			)
			if len(args) == 1 {
				cs, err = compareFromFile(cmd, args[0])
			} else {
				cs, err = compareFromFlags(cmd)
			}
			if err != nil {
				return err
			}

			format, _ := cmd.Flags().GetString("format")
			var out string
			switch strings.ToLower(format) {
			case "table":
				out = (&compare.TableFormatter{}).Format(cs)
			case "compact":
				out = (&compare.TableFormatter{}).FormatCompact(cs)
			case "csv":
				out, err = (&compare.CSVFormatter{}).Format(cs)
			case "json":
				out, err = (&compare.JSONFormatter{Pretty: true}).Format(cs)
			default:
				return fmt.Errorf("unknown compare format %q (valid: table, compact, csv, json)", format)
			}
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	addPlanFlags(cmd)
	cmd.Flags().StringP("scenario", "s", "", "Scenario name (defaults to the first scenario with a plan)")
	cmd.Flags().StringP("format", "f", "table", "Output format (table, compact, csv, json)")
	return cmd
}

func compareFromFile(cmd *cobra.Command, inputFile string) (*compare.ComparisonSet, error) {
	cfg, err := loadConfiguration(cmd, inputFile)
	if err != nil {
		return nil, err
	}
	name, _ := cmd.Flags().GetString("scenario")
	if name == "" {
		for _, s := range cfg.Scenarios {
			if s.Plan != nil {
				name = s.Name
				break
			}
		}
		if name == "" {
			return nil, fmt.Errorf("%w: no scenario in %s has a plan", domain.ErrInvalidInput, inputFile)
		}
	}
	optimizer := compare.NewStrategyOptimizer(newEngine(config.Regulatory(cfg)))
	cs, err := optimizer.CompareScenario(cmd.Context(), cfg, name)
	if err != nil {
		return nil, err
	}
	cs.ConfigPath = inputFile
	return cs, nil
}

func compareFromFlags(cmd *cobra.Command) (*compare.ComparisonSet, error) {
	reg, err := regulatoryFromFlags(cmd)
	if err != nil {
		return nil, err
	}
	input, err := planInputFromFlags(cmd)
	if err != nil {
		return nil, err
	}
	return compare.NewStrategyOptimizer(newEngine(reg)).Optimize(input)
}

func capacityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "capacity",
		Short: "Show the largest premiums whose gifts stay in the lowest bracket",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := regulatoryFromFlags(cmd)
			if err != nil {
				return err
			}
			perPolicyCap, err := decimalFlag(cmd, "cap")
			if err != nil {
				return err
			}
			donors, _ := cmd.Flags().GetInt("donors")
			if donors < 1 {
				return fmt.Errorf("%w: --donors must be at least 1", domain.ErrInvalidInput)
			}
			c := newEngine(reg).Capacity(donors, perPolicyCap)

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "LOWEST-BRACKET CAPACITY")
			fmt.Fprintln(w, strings.Repeat("=", 40))
			fmt.Fprintf(w, "%-24s %15s\n", "Annual exemption", output.FormatCurrency(c.AnnualExemption))
			fmt.Fprintf(w, "%-24s %15s\n", "Bracket 1 upper bound", output.FormatCurrency(c.Bracket1UpperBound))
			fmt.Fprintf(w, "%-24s %15s\n", "Gift value cap", output.FormatCurrency(c.GiftValueCap))
			fmt.Fprintf(w, "%-24s %15s\n", "Year-1 premium cap", output.FormatCurrency(c.Year1PremiumCap))
			fmt.Fprintf(w, "%-24s %15s\n", "Year-2 premium cap", output.FormatCurrency(c.Year2PremiumCap))
			fmt.Fprintf(w, "%-24s %15s\n", "Per-policy cap", output.FormatCurrency(c.PerPolicyCap))
			fmt.Fprintf(w, "%-24s %15d\n", "Policies at year-2 cap", c.PoliciesAtYear2Cap)
			return nil
		},
	}
	cmd.Flags().Int("donors", 1, "Number of donors")
	cmd.Flags().String("cap", "6000000", "Per-policy annual premium cap")
	return cmd
}

// parseOverrides reads repeated year=value cash value overrides
func parseOverrides(raw []string) (map[int]decimal.Decimal, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	overrides := make(map[int]decimal.Decimal, len(raw))
	for _, item := range raw {
		year, value, ok := strings.Cut(item, "=")
		if !ok {
			return nil, fmt.Errorf("%w: override %q must be year=value", domain.ErrInvalidInput, item)
		}
		y, err := strconv.Atoi(strings.TrimSpace(year))
		if err != nil {
			return nil, fmt.Errorf("%w: override year %q: %v", domain.ErrInvalidInput, year, err)
		}
		v, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("%w: override value %q: %v", domain.ErrInvalidInput, value, err)
		}
		overrides[y] = v
	}
	return overrides, nil
}

func scheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Project a policy's cumulative premium and cash value by year",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := regulatoryFromFlags(cmd)
			if err != nil {
				return err
			}
			premium, err := decimalFlag(cmd, "premium")
			if err != nil {
				return err
			}
			years, _ := cmd.Flags().GetInt("years")
			rawOverrides, _ := cmd.Flags().GetStringArray("override")
			overrides, err := parseOverrides(rawOverrides)
			if err != nil {
				return err
			}
			records, err := newEngine(reg).PolicySchedule(premium, years, overrides)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%-6s %15s %18s %15s\n", "Year", "Premium", "Cumulative", "Cash value")
			fmt.Fprintln(w, strings.Repeat("-", 57))
			for _, r := range records {
				fmt.Fprintf(w, "%-6d %15s %18s %15s\n", r.Year,
					output.FormatCurrency(r.Premium), output.FormatCurrency(r.CumulativePremium), output.FormatCurrency(r.CashValue))
			}
			return nil
		},
	}
	cmd.Flags().String("premium", "0", "Annual premium")
	cmd.Flags().Int("years", 6, "Number of policy years")
	cmd.Flags().StringArray("override", nil, "Cash value override as year=value (repeatable)")
	return cmd
}

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [input-file]",
		Short: "Write a branded PDF report for every scenario with a cascade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfiguration(cmd, args[0])
			if err != nil {
				return err
			}
			results, err := newEngine(config.Regulatory(cfg)).RunScenarios(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			data, reportID, err := output.GeneratePDFReport(results.Branding, output.ReportPages(results), time.Now())
			if err != nil {
				return err
			}
			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				out = fmt.Sprintf("tgplan_report_%s.pdf", time.Now().Format("20060102_150405"))
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}
			logger.Infow("report written", "file", out, "report_id", reportID)
			fmt.Fprintf(cmd.OutOrStdout(), "Report %s written to %s\n", reportID, out)
			return nil
		},
	}
	cmd.Flags().StringP("out", "o", "", "Output PDF path (defaults to a timestamped name)")
	return cmd
}

package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rgehrsitz/tgplan/internal/calculation"
	"github.com/rgehrsitz/tgplan/internal/config"
	"github.com/rgehrsitz/tgplan/internal/domain"
	"github.com/rgehrsitz/tgplan/internal/output"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// logger is replaced by the root command's PersistentPreRunE
var logger = zap.NewNop().Sugar()

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tgplan %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.Main.Path + " " + bi.Main.Version
	}
	return ""
}

func newLogger(debugMode bool) (*zap.SugaredLogger, error) {
	cfg := zap.NewProductionConfig()
	if debugMode {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return l.Sugar(), nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tgplan",
		Short: "Three-generation gift and estate tax planner",
		Long: "Compares a life-insurance policy-value gifting plan against doing nothing across three\n" +
			"generations, schedules premium-funding gifts, and reports tax under progressive gift and estate tables.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debugMode, _ := cmd.Flags().GetBool("debug")
			l, err := newLogger(debugMode)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}
	root.PersistentFlags().Bool("debug", false, "Enable debug logging of each calculation step")
	root.PersistentFlags().String("regulatory-config", "", "Path to a regulatory data file replacing the built-in tables")

	root.AddCommand(calculateCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(cascadeCmd())
	root.AddCommand(planCmd())
	root.AddCommand(compareCmd())
	root.AddCommand(capacityCmd())
	root.AddCommand(breakevenCmd())
	root.AddCommand(scheduleCmd())
	root.AddCommand(reportCmd())
	root.AddCommand(versionCmd())
	return root
}

// loadConfiguration reads a scenario file, applying --regulatory-config when set
func loadConfiguration(cmd *cobra.Command, inputFile string) (*domain.Configuration, error) {
	parser := config.NewInputParser()
	regulatoryFile, _ := cmd.Flags().GetString("regulatory-config")
	if regulatoryFile != "" {
		logger.Infow("loading regulatory config", "file", regulatoryFile)
	}
	return parser.LoadFromFileWithRegulatory(inputFile, regulatoryFile)
}

// regulatoryFromFlags returns the --regulatory-config data or the built-in defaults
func regulatoryFromFlags(cmd *cobra.Command) (domain.RegulatoryConfig, error) {
	regulatoryFile, _ := cmd.Flags().GetString("regulatory-config")
	if regulatoryFile == "" {
		return domain.DefaultRegulatoryConfig(), nil
	}
	reg, err := config.NewInputParser().LoadRegulatoryConfig(regulatoryFile)
	if err != nil {
		return domain.RegulatoryConfig{}, err
	}
	return *reg, nil
}

func newEngine(reg domain.RegulatoryConfig) *calculation.CalculationEngine {
	engine := calculation.NewCalculationEngineWithConfig(reg)
	engine.SetLogger(logger)
	return engine
}

// writeResults formats results with the named formatter, to stdout or to a
// timestamped file when save is set
func writeResults(cmd *cobra.Command, results *domain.AnalysisResults, format string, save bool) error {
	f := output.GetFormatterByName(strings.ToLower(format))
	if f == nil {
		return fmt.Errorf("unknown output format %q (valid: %s; aliases: %s)", format,
			strings.Join(output.AvailableFormatterNames(), ", "), strings.Join(output.AvailableFormatAliases(), ", "))
	}
	if save || f.Name() == "pdf" {
		filename, err := output.WriteFormatted(f, results, output.ExtensionFor(f.Name()))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", filename)
		return nil
	}
	data, err := f.Format(results)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func calculateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calculate [input-file]",
		Short: "Run every scenario of a configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfiguration(cmd, args[0])
			if err != nil {
				return err
			}
			engine := newEngine(config.Regulatory(cfg))
			results, err := engine.RunScenarios(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			logger.Debugw("scenarios calculated", "count", len(results.Scenarios))

			format, _ := cmd.Flags().GetString("format")
			save, _ := cmd.Flags().GetBool("save")
			return writeResults(cmd, results, format, save)
		},
	}
	cmd.Flags().StringP("format", "f", "console", "Output format ("+strings.Join(output.AvailableFormatterNames(), ", ")+")")
	cmd.Flags().Bool("save", false, "Write the report to a timestamped file instead of stdout")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [input-file]",
		Short: "Validate a configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadConfiguration(cmd, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration file %s is valid\n", args[0])
			return nil
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger.Errorw("command failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

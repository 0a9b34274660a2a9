package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rgehrsitz/taxpilot/internal/calculation"
	"github.com/rgehrsitz/taxpilot/internal/compare"
	"github.com/rgehrsitz/taxpilot/internal/config"
	"github.com/rgehrsitz/taxpilot/internal/domain"
	"github.com/rgehrsitz/taxpilot/internal/extract"
	"github.com/rgehrsitz/taxpilot/internal/output"
	"github.com/rgehrsitz/taxpilot/internal/planner"
	"github.com/rgehrsitz/taxpilot/internal/strategy"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func compareRegimesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare-regimes",
		Short: "Compare tax owed under the old and new regimes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, debugMode := cliLogger(cmd)
			income, err := parseAmount(cmd, "income")
			if err != nil {
				return err
			}

			cfg := config.DefaultConfiguration()
			if path, _ := cmd.Flags().GetString("config"); path != "" {
				if cfg, err = loadConfig(cmd, path, logger); err != nil {
					return err
				}
			}
			engine, err := cfg.RegimeEngine()
			if err != nil {
				return err
			}
			engine.SetLogger(logger)
			engine.Debug = debugMode

			cfg.Profile.Income = income
			result := engine.CompareProfile(cfg.Profile)
			return writeReport(cmd, &output.Report{Comparison: &result})
		},
	}
	cmd.Flags().String("income", "", "Annual income (required)")
	cmd.Flags().String("config", "", "Profile file supplying custom regime tables")
	_ = cmd.MarkFlagRequired("income")
	return cmd
}

func slabTaxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slab-tax",
		Short: "Compute progressive slab tax on an amount",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(cmd, "amount")
			if err != nil {
				return err
			}
			tableName, _ := cmd.Flags().GetString("table")
			table, ok := calculation.BuiltInTables()[tableName]
			if !ok {
				return fmt.Errorf("unknown slab table %q (valid: %s)", tableName, strings.Join(tableNames(), ", "))
			}

			tax := calculation.ComputeSlabTax(amount, table)
			if deduct, _ := cmd.Flags().GetBool("standard-deduction"); deduct {
				sc := calculation.NewSlabCalculator()
				sc.Table = table
				tax = sc.Calculate(amount)
				amount = calculation.ResolveTaxableIncome(amount, sc.StandardDeduction)
			}

			return writeReport(cmd, &output.Report{SlabTax: &output.SlabTaxResult{
				Table:        tableName,
				Amount:       amount,
				Tax:          tax,
				MarginalRate: calculation.MarginalRate(amount, table),
				Breakdown:    calculation.ComputeSlabBreakdown(amount, table),
			}})
		},
	}
	cmd.Flags().String("amount", "", "Taxable amount (required)")
	cmd.Flags().String("table", calculation.OldRegimeKey, "Slab table ("+strings.Join(tableNames(), ", ")+")")
	cmd.Flags().Bool("standard-deduction", false, "Apply the 75,000 standard deduction and truncate to 2 places")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func tableNames() []string {
	names := make([]string, 0, len(calculation.BuiltInTables()))
	for name := range calculation.BuiltInTables() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func liabilityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "liability",
		Short: "Compute liability on income less expenses and deductions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var amounts [3]decimal.Decimal
			for i, name := range []string{"income", "expenses", "deductions"} {
				v, err := parseAmount(cmd, name)
				if err != nil {
					return err
				}
				amounts[i] = v
			}
			result := calculation.CalculateLiability(amounts[0], amounts[1], amounts[2])
			return writeReport(cmd, &output.Report{Liability: &result})
		},
	}
	cmd.Flags().String("income", "", "Gross income (required)")
	cmd.Flags().String("expenses", "", "Business expenses")
	cmd.Flags().String("deductions", "", "Deductions claimed")
	_ = cmd.MarkFlagRequired("income")
	return cmd
}

func strategyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "strategy [profile-file]",
		Short: "Generate rule-based tax saving recommendations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, debugMode := cliLogger(cmd)
			cfg, err := loadConfig(cmd, args[0], logger)
			if err != nil {
				return err
			}
			engine, strat, err := engines(cfg, logger, debugMode)
			if err != nil {
				return err
			}

			report := cachedAnalyzer(cmd, cfg, engine, strat, logger).Generate(cmd.Context(), cfg.Profile)
			if minImpact, _ := cmd.Flags().GetString("min-impact"); minImpact != "" {
				impact, err := domain.ParseImpact(minImpact)
				if err != nil {
					return fmt.Errorf("invalid --min-impact: %w", err)
				}
				report = strategy.FilterByImpact(report, impact)
			}
			out := &output.Report{Strategy: &report}

			if narrative, _ := cmd.Flags().GetBool("narrative"); narrative {
				text, err := strat.Narrative(cfg.Profile)
				if err != nil {
					return err
				}
				out.Narrative = text
			}
			return writeReport(cmd, out)
		},
	}
	cmd.Flags().Bool("narrative", false, "Include the plain-text strategy narrative")
	cmd.Flags().String("min-impact", "", "Only list recommendations rated at least this impact (high, medium, low)")
	return cmd
}

func extractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract [file|-]",
		Short: "Extract recommendations from free-form model output",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			cfg := extract.DefaultConfig()
			cfg.MinResults, _ = cmd.Flags().GetInt("min")
			cfg.MaxResults, _ = cmd.Flags().GetInt("max")
			if fallbacks, _ := cmd.Flags().GetStringArray("fallback"); len(fallbacks) > 0 {
				cfg.Fallbacks = fallbacks
			}
			ex, err := extract.NewWithConfig(cfg)
			if err != nil {
				return err
			}
			return writeReport(cmd, &output.Report{Extracted: ex.Extract(text)})
		},
	}
	cmd.Flags().Int("min", extract.DefaultConfig().MinResults, "Minimum recommendations (padded with fallbacks)")
	cmd.Flags().Int("max", extract.DefaultConfig().MaxResults, "Maximum recommendations")
	cmd.Flags().StringArray("fallback", nil, "Padding statement used when the text yields too few (repeatable)")
	return cmd
}

// readInput reads the named file, or stdin for "-" or no argument
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", args[0], err)
	}
	return string(data), nil
}

func planCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan [profile-file]",
		Short: "Build a complete tax plan from a profile and captured model output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, debugMode := cliLogger(cmd)
			cfg, err := loadConfig(cmd, args[0], logger)
			if err != nil {
				return err
			}
			engine, strat, err := engines(cfg, logger, debugMode)
			if err != nil {
				return err
			}

			var source planner.TextSource
			modelOutput, _ := cmd.Flags().GetString("model-output")
			if modelOutput == "-" {
				text, err := readInput(cmd, nil)
				if err != nil {
					return err
				}
				source = planner.StaticTextSource{Text: text}
			} else {
				source = planner.FileTextSource{Path: modelOutput}
			}

			p := planner.NewPlannerWithAnalyzer(cachedAnalyzer(cmd, cfg, engine, strat, logger))
			p.SetLogger(logger)

			timeout, _ := cmd.Flags().GetDuration("timeout")
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			plan, err := p.Build(ctx, cfg.Profile, source)
			if err != nil {
				return err
			}
			return writeReport(cmd, &output.Report{Plan: plan})
		},
	}
	cmd.Flags().String("model-output", "", "File holding model output, or - for stdin (required)")
	cmd.Flags().Duration("timeout", 30*time.Second, "Overall time limit for building the plan")
	_ = cmd.MarkFlagRequired("model-output")
	return cmd
}

func scenariosCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenarios [profile-file]",
		Short: "Compare the named scenarios in a profile file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, debugMode := cliLogger(cmd)
			cfg, err := loadConfig(cmd, args[0], logger)
			if err != nil {
				return err
			}
			if len(cfg.Scenarios) == 0 {
				return fmt.Errorf("no scenarios defined in %s", args[0])
			}
			engine, _, err := engines(cfg, logger, debugMode)
			if err != nil {
				return err
			}

			base, _ := cmd.Flags().GetString("base")
			if base == "" {
				base = cfg.Scenarios[0].Name
			}
			var alternatives []string
			if with, _ := cmd.Flags().GetString("with"); with != "" {
				for _, name := range strings.Split(with, ",") {
					alternatives = append(alternatives, strings.TrimSpace(name))
				}
			}

			mf, err := moneyFormatter(cmd)
			if err != nil {
				return err
			}
			ce := compare.NewCompareEngine(engine)
			ce.Money = mf
			ce.SetLogger(logger)

			set, err := ce.Compare(cmd.Context(), cfg.Scenarios, compare.CompareOptions{
				BaseScenarioName: base,
				Alternatives:     alternatives,
				ConfigPath:       args[0],
			})
			if err != nil {
				return err
			}
			return writeReport(cmd, &output.Report{Scenarios: set})
		},
	}
	cmd.Flags().String("base", "", "Base scenario name (default: first scenario)")
	cmd.Flags().String("with", "", "Comma-separated scenarios to compare (default: all others)")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [profile-file]",
		Short: "Validate a profile file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			strict, _ := cmd.Flags().GetBool("strict")
			parser := &config.InputParser{Strict: strict}
			cfg, err := parser.LoadFromFile(args[0])
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}

			out := cmd.OutOrStdout()
			for _, w := range cfg.Warnings {
				fmt.Fprintf(out, "warning: %s\n", w)
			}
			fmt.Fprintf(out, "Configuration is valid (%d scenarios)\n", len(cfg.Scenarios))
			return nil
		},
	}
}

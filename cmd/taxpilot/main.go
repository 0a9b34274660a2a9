package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/rgehrsitz/taxpilot/internal/cache"
	"github.com/rgehrsitz/taxpilot/internal/calculation"
	"github.com/rgehrsitz/taxpilot/internal/config"
	"github.com/rgehrsitz/taxpilot/internal/money"
	"github.com/rgehrsitz/taxpilot/internal/output"
	"github.com/rgehrsitz/taxpilot/internal/strategy"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "taxpilot %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.Main.Path + " " + bi.GoVersion
	}
	return ""
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "taxpilot",
		Short:         "Tax planning calculator CLI",
		Long:          "Regime comparison, slab tax, liability and rule-based savings strategies for business and individual profiles",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringP("format", "f", "console", "Output format (console, json, csv)")
	pf.Int32("precision", 2, "Decimal places for displayed amounts")
	pf.String("rounding", string(money.ModeRound), "How displayed amounts are reduced to --precision (round, truncate, exact)")
	pf.Bool("truncate", false, "Shorthand for --rounding truncate")
	pf.Bool("debug", false, "Enable debug logging on stderr")
	pf.Bool("strict", false, "Reject negative amounts instead of clamping them")
	pf.String("redis-addr", "", "Cache results in Redis at this address (default: in-memory)")

	root.AddCommand(
		compareRegimesCmd(),
		slabTaxCmd(),
		liabilityCmd(),
		strategyCmd(),
		extractCmd(),
		planCmd(),
		scenariosCmd(),
		validateCmd(),
		versionCmd(),
	)
	return root
}

// moneyFormatter builds the display formatter from the global flags
func moneyFormatter(cmd *cobra.Command) (money.Formatter, error) {
	f := money.DefaultFormatter()
	if p, err := cmd.Flags().GetInt32("precision"); err == nil && p >= 0 {
		f.Precision = p
	}
	rounding, _ := cmd.Flags().GetString("rounding")
	mode, err := money.ParseMode(rounding)
	if err != nil {
		return f, fmt.Errorf("invalid --rounding: %w", err)
	}
	f.Mode = mode
	if t, _ := cmd.Flags().GetBool("truncate"); t {
		f.Mode = money.ModeTruncate
	}
	return f, nil
}

func cliLogger(cmd *cobra.Command) (calculation.Logger, bool) {
	debugMode, _ := cmd.Flags().GetBool("debug")
	return newSlogLogger(cmd.ErrOrStderr(), debugMode), debugMode
}

// writeReport renders report in the selected format to stdout
func writeReport(cmd *cobra.Command, report *output.Report) error {
	format, _ := cmd.Flags().GetString("format")
	mf, err := moneyFormatter(cmd)
	if err != nil {
		return err
	}
	f := output.GetFormatterByName(format, mf)
	if f == nil {
		return fmt.Errorf("unsupported format %q (valid: %v)", format, output.AvailableFormatAliases())
	}
	data, err := f.Format(report)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

// parseAmount reads a decimal flag; empty means zero
func parseAmount(cmd *cobra.Command, name string) (decimal.Decimal, error) {
	s, _ := cmd.Flags().GetString(name)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid --%s %q: %w", name, s, err)
	}
	return d, nil
}

// loadConfig parses a profile file, honouring --strict, and logs any
// lenient-mode adjustments.
func loadConfig(cmd *cobra.Command, path string, logger calculation.Logger) (*config.Configuration, error) {
	strict, _ := cmd.Flags().GetBool("strict")
	parser := &config.InputParser{Strict: strict}
	cfg, err := parser.LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	for _, w := range cfg.Warnings {
		logger.Warnf("%s", w)
	}
	return cfg, nil
}

// engines builds the calculation engine and strategy engine for cfg
func engines(cfg *config.Configuration, logger calculation.Logger, debugMode bool) (*calculation.CalculationEngine, *strategy.Engine, error) {
	engine, err := cfg.RegimeEngine()
	if err != nil {
		return nil, nil, err
	}
	engine.SetLogger(logger)
	engine.Debug = debugMode

	strat, err := strategy.NewEngineWithRules(cfg.Rules)
	if err != nil {
		return nil, nil, err
	}
	return engine, strat, nil
}

// cachedAnalyzer wraps the engines with the configured result cache. An
// unreachable Redis server degrades to the in-memory cache.
func cachedAnalyzer(cmd *cobra.Command, cfg *config.Configuration, engine *calculation.CalculationEngine, strat *strategy.Engine, logger calculation.Logger) *cache.CachedComparator {
	var repo cache.Repository = cache.NewMemoryCache()

	if addr, _ := cmd.Flags().GetString("redis-addr"); addr != "" {
		rc := cache.NewRedisCache(addr)
		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Second)
		defer cancel()
		if err := rc.Ping(ctx); err != nil {
			logger.Warnf("redis at %s unavailable, using in-memory cache: %v", addr, err)
			_ = rc.Close()
		} else {
			repo = rc
		}
	}

	cc := cache.NewCachedComparator(repo, engine, strat)
	cc.SetLogger(logger)
	if ns, err := cache.NamespaceFor(cfg.Regimes, cfg.Rules, cfg.Subtractors); err == nil {
		cc.Namespace = ns
	}
	return cc
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

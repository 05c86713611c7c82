package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/gilchrisn/annealing-heatmaps/pkg/analysis"
)

func main() {
	cfg := analysis.NewConfig()
	if err := newRootCommand(cfg).Execute(); err != nil {
		logger := cfg.CreateLogger()
		logger.Fatal().Err(err).Msg("heatmaps failed")
	}
}

func newRootCommand(cfg *analysis.Config) *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:   "heatmaps",
		Short: "Render heatmaps from annealing research results",
		Long: "heatmaps reads the processors/works/law result files written by the\n" +
			"research cycle and renders execution time and relative improvement heatmaps.\n" +
			"Without a subcommand both studies run with their configured files.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configFile != "" {
				if err := cfg.LoadFromFile(configFile); err != nil {
					return err
				}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := runContext(cmd.Context(), cfg)
			if err := runTime(ctx, cfg); err != nil {
				return err
			}
			return runLaw(ctx, cfg)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "configuration file (yaml, json, toml)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.Bool("summary", false, "print aggregated tables to stdout")
	must(cfg.Viper().BindPFlag("logging.level", flags.Lookup("log-level")))
	must(cfg.Viper().BindPFlag("summary.enabled", flags.Lookup("summary")))

	root.AddCommand(newTimeCommand(cfg), newLawCommand(cfg))
	return root
}

func newTimeCommand(cfg *analysis.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "time",
		Short: "Heatmap of mean execution time per processors and works",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTime(runContext(cmd.Context(), cfg), cfg)
		},
	}
	cmd.Flags().String("in", cfg.TimeInput(), "time research results")
	cmd.Flags().String("out", cfg.TimeOutput(), "output image")
	must(cfg.Viper().BindPFlag("time.input", cmd.Flags().Lookup("in")))
	must(cfg.Viper().BindPFlag("time.output", cmd.Flags().Lookup("out")))
	return cmd
}

func newLawCommand(cfg *analysis.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "law",
		Short: "Heatmaps of execution time and relative improvement per temperature law",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLaw(runContext(cmd.Context(), cfg), cfg)
		},
	}
	cmd.Flags().String("in", cfg.LawInput(), "law research results")
	cmd.Flags().String("out", cfg.LawOutput(), "output image")
	must(cfg.Viper().BindPFlag("law.input", cmd.Flags().Lookup("in")))
	must(cfg.Viper().BindPFlag("law.output", cmd.Flags().Lookup("out")))
	return cmd
}

func runTime(ctx context.Context, cfg *analysis.Config) error {
	report, err := analysis.AnalyzeTime(ctx, cfg, cfg.TimeInput(), cfg.TimeOutput())
	if err != nil {
		return fmt.Errorf("time analysis: %w", err)
	}
	if cfg.SummaryEnabled() {
		return analysis.WriteTimeSummary(os.Stdout, report.Rows, cfg.FloatFormat())
	}
	return nil
}

func runLaw(ctx context.Context, cfg *analysis.Config) error {
	report, err := analysis.AnalyzeLaw(ctx, cfg, cfg.LawInput(), cfg.LawOutput())
	if err != nil {
		return fmt.Errorf("law analysis: %w", err)
	}
	if cfg.SummaryEnabled() {
		return analysis.WriteLawSummary(os.Stdout, report.Rows, cfg.FloatFormat(), cfg.LawLabels())
	}
	return nil
}

// runContext attaches a run-scoped logger to ctx.
func runContext(ctx context.Context, cfg *analysis.Config) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := cfg.CreateLogger().With().Str("run_id", uuid.NewString()).Logger()
	return logger.WithContext(ctx)
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Package main provides the CLI entry point for ghostbench, the
// GhostDB benchmark orchestration and reporting tool.
package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ghostdb/ghostbench/harness"
	"github.com/ghostdb/ghostbench/report"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	root := newRootCmd(logger)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:   "ghostbench",
		Short: "GhostDB benchmark orchestration and reporting tool",
		Long: `Ghostbench runs the GhostDB workload driver across a fixed set of
record-count scales, parses its JSON results, and renders performance charts,
a database comparison chart, and a plain-text summary report.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newRunCmd(logger))

	return root
}

func newRunCmd(logger *slog.Logger) *cobra.Command {
	var (
		nodeBin    string
		timeout    time.Duration
		outDir     string
		useSample  bool
		outputJSON bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the GhostDB benchmark and generate reports",
		Long: `Run the workload driver and write three artifacts: a six-panel
benchmark chart, a database comparison chart, and a text summary report. If
the driver fails for any reason the fixed sample dataset is used instead.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBenchmark(cmd.Context(), logger, runConfig{
				nodeBin:    nodeBin,
				timeout:    timeout,
				outDir:     outDir,
				useSample:  useSample,
				outputJSON: outputJSON,
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&nodeBin, "node-bin", "node",
		"JavaScript interpreter used to execute the workload driver")
	flags.DurationVar(&timeout, "timeout", harness.DefaultTimeout,
		"Maximum wall time for the workload driver")
	flags.StringVar(&outDir, "out-dir", ".",
		"Directory for generated artifacts")
	flags.BoolVar(&useSample, "sample", false,
		"Skip the driver and report on the fixed sample dataset")
	flags.BoolVar(&outputJSON, "json", false,
		"Also print the result structure as JSON to stdout")

	return cmd
}

type runConfig struct {
	nodeBin    string
	timeout    time.Duration
	outDir     string
	useSample  bool
	outputJSON bool
}

func runBenchmark(
	ctx context.Context,
	logger *slog.Logger,
	cfg runConfig,
) error {
	logger.InfoContext(ctx, "starting benchmark",
		slog.String("node_bin", cfg.nodeBin),
		slog.Duration("timeout", cfg.timeout),
		slog.Bool("sample", cfg.useSample),
	)

	var res *harness.Result

	if cfg.useSample {
		res = harness.SampleResult()
	} else {
		runner := harness.NewRunner(
			cfg.nodeBin, harness.DefaultSizes(), cfg.timeout, logger,
		)

		var cause harness.FailureCause

		res, cause = runner.Run(ctx)
		if cause != harness.FailureNone {
			logger.WarnContext(ctx, "reporting on fallback dataset",
				slog.String("cause", cause.String()),
			)
		}
	}

	if err := os.MkdirAll(cfg.outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	if cfg.outputJSON {
		if err := report.WriteJSON(os.Stdout, res); err != nil {
			return fmt.Errorf("write JSON: %w", err)
		}
	}

	ts := time.Now().Format(report.TimestampLayout)

	chartPath := filepath.Join(cfg.outDir,
		fmt.Sprintf("benchmark_results_%s.png", ts))
	if err := report.RenderCharts(res, chartPath); err != nil {
		return fmt.Errorf("render charts: %w", err)
	}

	logger.InfoContext(ctx, "charts written",
		slog.String("path", chartPath))

	comparisonPath := filepath.Join(cfg.outDir,
		fmt.Sprintf("database_comparison_%s.png", ts))
	if err := report.RenderComparison(res, comparisonPath); err != nil {
		return fmt.Errorf("render comparison: %w", err)
	}

	logger.InfoContext(ctx, "comparison chart written",
		slog.String("path", comparisonPath))

	var buf bytes.Buffer
	if err := report.WriteSummary(&buf, res); err != nil {
		return fmt.Errorf("generate summary: %w", err)
	}

	summaryPath := filepath.Join(cfg.outDir,
		fmt.Sprintf("benchmark_report_%s.txt", ts))
	if err := os.WriteFile(summaryPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	if _, err := os.Stdout.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("echo summary: %w", err)
	}

	logger.InfoContext(ctx, "summary report written",
		slog.String("path", summaryPath))

	logger.InfoContext(ctx, "benchmark complete")

	return nil
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/DjordjeVuckovic/pipeline-sweep/internal/storage/pg"
	"github.com/DjordjeVuckovic/pipeline-sweep/internal/sweep/baseline"
	"github.com/DjordjeVuckovic/pipeline-sweep/internal/sweep/build"
	"github.com/DjordjeVuckovic/pipeline-sweep/internal/sweep/device"
	"github.com/DjordjeVuckovic/pipeline-sweep/internal/sweep/invoker"
	"github.com/DjordjeVuckovic/pipeline-sweep/internal/sweep/pipeconfig"
	"github.com/DjordjeVuckovic/pipeline-sweep/internal/sweep/report"
	"github.com/DjordjeVuckovic/pipeline-sweep/internal/sweep/results"
	"github.com/DjordjeVuckovic/pipeline-sweep/internal/sweep/runner"
	"github.com/DjordjeVuckovic/pipeline-sweep/internal/sweep/spec"
	"github.com/DjordjeVuckovic/pipeline-sweep/pkg/config/env"
	"github.com/google/uuid"
)

func main() {
	if err := env.LoadDotEnv(os.Getenv("SWEEP_ENV"), false, ".env"); err != nil {
		slog.Error("Failed to load .env", "error", err)
		os.Exit(1)
	}

	cfg, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		os.Exit(2)
	}
	if cfg.Verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	s, err := spec.LoadOrDefault(cfg.SpecPath)
	if err != nil {
		slog.Error("Failed to load sweep spec", "path", cfg.SpecPath, "error", err)
		os.Exit(1)
	}
	if err := cfg.apply(s); err != nil {
		slog.Error("Invalid sweep settings", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, s, cfg); err != nil {
		slog.Error("Sweep failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, s *spec.SweepSpec, cfg cliConfig) error {
	if err := results.ResetDir(s.Results.Dir); err != nil {
		return err
	}

	store, err := pipeconfig.NewStore(s.Config)
	if err != nil {
		return err
	}

	w, err := results.Create(s.ResultsPath())
	if err != nil {
		return err
	}

	runID := uuid.New()
	var recorder results.Recorder = w
	if s.Mirror.PgConn != "" {
		pool, err := pg.NewConnectionPool(ctx, pg.PoolConfig{ConnStr: s.Mirror.PgConn})
		if err != nil {
			w.Close()
			return fmt.Errorf("connect measurement mirror: %w", err)
		}
		defer pool.Close()
		recorder = results.Tee(w, pg.NewMeasurementStore(ctx, pool, runID, 0))
		slog.Info("Mirroring measurements to postgres", "run_id", runID)
	}

	var progress runner.Progress
	if !cfg.NoProgress {
		progress = runner.NewBar(os.Stderr, s.TotalWork())
	}

	slog.Info("Starting sweep",
		"run_id", runID,
		"binary", s.Binary.Path,
		"config", s.Config,
		"max_iterations", s.Axes.MaxIterations,
		"max_threads", s.Axes.MaxThreads)

	ctrl := runner.New(s, runner.Deps{
		Store:    store,
		Invoker:  invoker.New(s.Timeout),
		Baseline: baseline.NewRunner(s.Baseline.Seed),
		Builder:  build.New(s.Binary.BuildDir, s.Binary.SourceDir),
		Recorder: recorder,
		Progress: progress,
		RunID:    runID,
	})
	sum, runErr := ctrl.Run(ctx)
	fmt.Fprintln(os.Stderr)

	if err := recorder.Close(); err != nil {
		slog.Error("Failed to close result store", "error", err)
		runErr = errors.Join(runErr, err)
	}

	if err := writeReport(ctx, s, sum, os.Stdout); err != nil {
		slog.Error("Failed to write report", "error", err)
		runErr = errors.Join(runErr, err)
	}
	return runErr
}

func writeReport(ctx context.Context, s *spec.SweepSpec, sum *runner.Summary, out io.Writer) error {
	records, err := results.ReadAll(s.ResultsPath())
	if err != nil {
		return err
	}

	host := device.Detect(ctx)
	rpt := report.Generate(sum, host, records)

	if len(records) > 0 {
		charts := report.BuildCharts(records, host)
		for _, out := range []struct {
			chart report.Chart
			path  string
		}{
			{charts.Stage, s.StageChartPath()},
			{charts.Total, s.TotalChartPath()},
		} {
			if err := report.Render(out.chart, out.path); err != nil {
				return err
			}
			rpt.Charts = append(rpt.Charts, out.path)
			slog.Info("Chart written", "path", out.path)
		}
	}

	report.WriteTable(rpt, out)
	if err := report.WriteJSON(rpt, s.SummaryPath()); err != nil {
		return err
	}
	slog.Info("Summary written", "path", s.SummaryPath(), "results", s.ResultsPath())
	return nil
}

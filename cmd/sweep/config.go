package main

import (
	"flag"
	"time"

	"github.com/DjordjeVuckovic/pipeline-sweep/internal/sweep/spec"
	"github.com/DjordjeVuckovic/pipeline-sweep/pkg/config/env"
)

type cliConfig struct {
	SpecPath      string
	ConfigPath    string
	BinaryPath    string
	ResultsDir    string
	MaxIterations int
	MaxThreads    int
	Timeout       time.Duration
	BaselineInput string
	Seed          int64
	PgConnStr     string
	NoProgress    bool
	Verbose       bool

	set map[string]bool
}

func parseFlags(args []string) (cliConfig, error) {
	cfg := cliConfig{}
	fs := flag.NewFlagSet("sweep", flag.ContinueOnError)

	fs.StringVar(&cfg.SpecPath, "spec", env.Lookup("SWEEP_SPEC", "configs/sweep.yaml"), "Path to sweep spec YAML (defaults are used when the file is missing)")
	fs.StringVar(&cfg.ConfigPath, "config", "", "Path to the pipeline configuration JSON")
	fs.StringVar(&cfg.BinaryPath, "binary", "", "Path to the pipeline binary")
	fs.StringVar(&cfg.ResultsDir, "results", "", "Results directory (cleared at start)")
	fs.IntVar(&cfg.MaxIterations, "max-iterations", 0, "Largest iteration count to sweep")
	fs.IntVar(&cfg.MaxThreads, "max-threads", 0, "Largest thread count to sweep (default: number of CPUs)")
	fs.DurationVar(&cfg.Timeout, "timeout", 0, "Per-invocation timeout, 0 for none")
	fs.StringVar(&cfg.BaselineInput, "baseline-input", "", "Image directory for the baseline (default: image_paths from the pipeline config)")
	fs.Int64Var(&cfg.Seed, "seed", 0, "Baseline RNG seed, 0 for time-based")
	fs.StringVar(&cfg.PgConnStr, "pg", env.Lookup("SWEEP_PG_CONN", ""), "PostgreSQL connection string for mirroring measurements")
	fs.BoolVar(&cfg.NoProgress, "no-progress", false, "Disable the progress bar")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Enable debug logging")

	if err := fs.Parse(args); err != nil {
		return cliConfig{}, err
	}

	cfg.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { cfg.set[f.Name] = true })
	return cfg, nil
}

// apply overrides spec values with explicitly set flags.
func (c cliConfig) apply(s *spec.SweepSpec) error {
	if c.set["config"] {
		s.Config = c.ConfigPath
	}
	if c.set["binary"] {
		s.Binary.Path = c.BinaryPath
	}
	if c.set["results"] {
		s.Results.Dir = c.ResultsDir
	}
	if c.set["max-iterations"] {
		s.Axes.MaxIterations = c.MaxIterations
	}
	if c.set["max-threads"] {
		s.Axes.MaxThreads = c.MaxThreads
	}
	if c.set["timeout"] {
		s.Timeout = c.Timeout
	}
	if c.set["baseline-input"] {
		s.Baseline.InputDir = c.BaselineInput
	}
	if c.set["seed"] {
		s.Baseline.Seed = c.Seed
	}
	if c.PgConnStr != "" {
		s.Mirror.PgConn = c.PgConnStr
	}
	return s.Validate()
}

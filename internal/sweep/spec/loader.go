package spec

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/DjordjeVuckovic/pipeline-sweep/internal/apperr"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBinary        = "./build/benchmark"
	DefaultBuildDir      = "./build"
	DefaultSourceDir     = "."
	DefaultConfig        = "./test/config_template.json"
	DefaultResultsDir    = "./results"
	DefaultResultsFile   = "benchmark_results.csv"
	DefaultStageChart    = "stage_time.png"
	DefaultTotalChart    = "total_time.png"
	DefaultSummary       = "summary.json"
	DefaultMaxIterations = 15
	fallbackMaxThreads   = 8
)

func LoadFromFile(path string) (*SweepSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.NewConfigWrap("read sweep spec", err)
	}
	return Parse(data)
}

// LoadOrDefault loads path when it exists and falls back to Default otherwise.
func LoadOrDefault(path string) (*SweepSpec, error) {
	if path == "" {
		return Default(), nil
	}
	s, err := LoadFromFile(path)
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return s, err
}

func Parse(data []byte) (*SweepSpec, error) {
	var s SweepSpec
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, apperr.NewConfigWrap("parse sweep spec YAML", err)
	}
	if err := validate(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

func Default() *SweepSpec {
	s := &SweepSpec{}
	_ = validate(s)
	return s
}

// DefaultMaxThreads is the host's available parallelism.
func DefaultMaxThreads() int {
	if n := runtime.NumCPU(); n > 0 {
		return n
	}
	return fallbackMaxThreads
}

func validate(s *SweepSpec) error {
	if s.Axes.MaxIterations < 0 {
		return apperr.NewConfig(fmt.Sprintf("axes.max_iterations must be positive, got %d", s.Axes.MaxIterations))
	}
	if s.Axes.MaxThreads < 0 {
		return apperr.NewConfig(fmt.Sprintf("axes.max_threads must be positive, got %d", s.Axes.MaxThreads))
	}
	if s.Timeout < 0 {
		return apperr.NewConfig(fmt.Sprintf("timeout must not be negative, got %s", s.Timeout))
	}
	if s.Axes.MaxIterations == 0 {
		s.Axes.MaxIterations = DefaultMaxIterations
	}
	if s.Axes.MaxThreads == 0 {
		s.Axes.MaxThreads = DefaultMaxThreads()
	}
	if s.Binary.Path == "" {
		s.Binary.Path = DefaultBinary
	}
	if s.Binary.BuildDir == "" {
		s.Binary.BuildDir = DefaultBuildDir
	}
	if s.Binary.SourceDir == "" {
		s.Binary.SourceDir = DefaultSourceDir
	}
	if s.Config == "" {
		s.Config = DefaultConfig
	}
	if s.Results.Dir == "" {
		s.Results.Dir = DefaultResultsDir
	}
	if s.Results.File == "" {
		s.Results.File = DefaultResultsFile
	}
	if s.Results.StageChart == "" {
		s.Results.StageChart = DefaultStageChart
	}
	if s.Results.TotalChart == "" {
		s.Results.TotalChart = DefaultTotalChart
	}
	if s.Results.Summary == "" {
		s.Results.Summary = DefaultSummary
	}
	return nil
}

// Validate re-applies defaults and bounds checks, e.g. after CLI overrides.
func (s *SweepSpec) Validate() error {
	return validate(s)
}

// TotalWork is the number of progress units a full sweep advances.
func (s *SweepSpec) TotalWork() int {
	return s.Axes.MaxIterations + s.Axes.MaxIterations*s.Axes.MaxThreads
}

func (s *SweepSpec) ResultsPath() string {
	return filepath.Join(s.Results.Dir, s.Results.File)
}

func (s *SweepSpec) StageChartPath() string {
	return filepath.Join(s.Results.Dir, s.Results.StageChart)
}

func (s *SweepSpec) TotalChartPath() string {
	return filepath.Join(s.Results.Dir, s.Results.TotalChart)
}

func (s *SweepSpec) SummaryPath() string {
	return filepath.Join(s.Results.Dir, s.Results.Summary)
}

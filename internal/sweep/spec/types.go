package spec

import "time"

// SweepSpec is the harness context: every path and axis bound the sweep
// needs, built once at startup and handed to each component.
type SweepSpec struct {
	Binary   BinaryConfig   `yaml:"binary"`
	Config   string         `yaml:"config"`
	Results  ResultsConfig  `yaml:"results"`
	Axes     AxesConfig     `yaml:"axes"`
	Baseline BaselineConfig `yaml:"baseline"`
	Timeout  time.Duration  `yaml:"timeout"`
	Mirror   MirrorConfig   `yaml:"mirror"`
}

type BinaryConfig struct {
	Path      string `yaml:"path"`
	BuildDir  string `yaml:"build_dir"`
	SourceDir string `yaml:"source_dir"`
}

type ResultsConfig struct {
	Dir        string `yaml:"dir"`
	File       string `yaml:"file"`
	StageChart string `yaml:"stage_chart"`
	TotalChart string `yaml:"total_chart"`
	Summary    string `yaml:"summary"`
}

type AxesConfig struct {
	MaxIterations int `yaml:"max_iterations"`
	MaxThreads    int `yaml:"max_threads"`
}

type BaselineConfig struct {
	InputDir  string `yaml:"input_dir"`
	OutputDir string `yaml:"output_dir"`
	Seed      int64  `yaml:"seed"`
}

type MirrorConfig struct {
	PgConn string `yaml:"pg"`
}

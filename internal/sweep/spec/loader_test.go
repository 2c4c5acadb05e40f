package spec

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/pipeline-sweep/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("valid spec", func(t *testing.T) {
		yaml := `
binary:
  path: ./out/benchmark
  build_dir: ./out
config: ./configs/pipeline.json
results:
  dir: ./bench-results
  file: sweep.csv
axes:
  max_iterations: 4
  max_threads: 3
baseline:
  input_dir: ./images
  output_dir: ./baseline-out
  seed: 42
timeout: 30s
`
		s, err := Parse([]byte(yaml))
		require.NoError(t, err)
		assert.Equal(t, "./out/benchmark", s.Binary.Path)
		assert.Equal(t, "./out", s.Binary.BuildDir)
		assert.Equal(t, "./configs/pipeline.json", s.Config)
		assert.Equal(t, 4, s.Axes.MaxIterations)
		assert.Equal(t, 3, s.Axes.MaxThreads)
		assert.Equal(t, "./images", s.Baseline.InputDir)
		assert.Equal(t, int64(42), s.Baseline.Seed)
		assert.Equal(t, 30*time.Second, s.Timeout)
		assert.Equal(t, filepath.Join("./bench-results", "sweep.csv"), s.ResultsPath())
	})

	t.Run("defaults applied", func(t *testing.T) {
		s, err := Parse([]byte(`axes: {}`))
		require.NoError(t, err)
		assert.Equal(t, DefaultMaxIterations, s.Axes.MaxIterations)
		assert.Equal(t, DefaultMaxThreads(), s.Axes.MaxThreads)
		assert.Equal(t, DefaultBinary, s.Binary.Path)
		assert.Equal(t, DefaultConfig, s.Config)
		assert.Equal(t, DefaultResultsDir, s.Results.Dir)
		assert.Equal(t, DefaultResultsFile, s.Results.File)
		assert.Equal(t, time.Duration(0), s.Timeout)
	})

	t.Run("negative axis", func(t *testing.T) {
		_, err := Parse([]byte("axes:\n  max_threads: -1\n"))
		require.Error(t, err)
		var ce *apperr.ConfigError
		assert.True(t, errors.As(err, &ce))
		assert.Contains(t, err.Error(), "max_threads")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Parse([]byte("axes: [unclosed"))
		require.Error(t, err)
		var ce *apperr.ConfigError
		assert.True(t, errors.As(err, &ce))
	})
}

func TestTotalWork(t *testing.T) {
	s := &SweepSpec{Axes: AxesConfig{MaxIterations: 2, MaxThreads: 3}}
	assert.Equal(t, 2+2*3, s.TotalWork())
}

func TestLoadOrDefault(t *testing.T) {
	t.Run("missing file falls back to defaults", func(t *testing.T) {
		s, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, DefaultMaxIterations, s.Axes.MaxIterations)
	})

	t.Run("existing file is parsed", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sweep.yaml")
		require.NoError(t, os.WriteFile(path, []byte("axes:\n  max_iterations: 2\n"), 0644))

		s, err := LoadOrDefault(path)
		require.NoError(t, err)
		assert.Equal(t, 2, s.Axes.MaxIterations)
	})

	t.Run("broken file is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sweep.yaml")
		require.NoError(t, os.WriteFile(path, []byte("axes: [unclosed"), 0644))

		_, err := LoadOrDefault(path)
		assert.Error(t, err)
	})
}

func TestValidate_AfterOverride(t *testing.T) {
	s := Default()
	s.Axes.MaxThreads = 0
	s.Results.File = ""
	require.NoError(t, s.Validate())
	assert.Equal(t, DefaultMaxThreads(), s.Axes.MaxThreads)
	assert.Equal(t, DefaultResultsFile, s.Results.File)

	s.Timeout = -time.Second
	assert.Error(t, s.Validate())
}

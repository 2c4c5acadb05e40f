package results

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DjordjeVuckovic/pipeline-sweep/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMeasurements() []Measurement {
	return []Measurement{
		Baseline(1, 1234.5),
		Baseline(2, 2200),
		Pipeline(1, 2, 80, 300),
		Pipeline(1, 1, 100, 400),
		Pipeline(2, 1, 150, 610),
		Pipeline(2, 2, 90, 350),
	}
}

func TestWriter_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "results.csv")
	w, err := Create(path)
	require.NoError(t, err)

	want := sampleMeasurements()
	for _, m := range want {
		require.NoError(t, w.Append(m))
	}
	assert.Equal(t, len(want), w.Count())
	require.NoError(t, w.Close())

	got, err := ReadAll(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestWriter_Format(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	w, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, w.Append(Baseline(1, 1500)))
	require.NoError(t, w.Append(Pipeline(1, 4, 120, 450)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"framework,iteration,num_threads,stage_time_us,total_time_us\n"+
			"baseline,1,,,1500\n"+
			"pipeline,1,4,120,450\n",
		string(data), "rows are on disk before Close")
	require.NoError(t, w.Close())
}

func TestCreate_Truncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale,data\n1,2\n"), 0644))

	w, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	got, err := ReadAll(path)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRead_SchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		line int
	}{
		{"empty file", "", 0},
		{"wrong header", "a,b,c,d,e\n", 1},
		{"bad iteration", "framework,iteration,num_threads,stage_time_us,total_time_us\npipeline,x,1,2,3\n", 2},
		{"unknown framework", "framework,iteration,num_threads,stage_time_us,total_time_us\npipeline,1,1,2,3\nopencv,1,,,3\n", 3},
		{"short row", "framework,iteration,num_threads,stage_time_us,total_time_us\nbaseline,1\n", 2},
		{"missing total", "framework,iteration,num_threads,stage_time_us,total_time_us\nbaseline,1,,,\n", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.data))
			require.Error(t, err)
			var se *apperr.SchemaError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.line, se.Line)
		})
	}
}

func TestMeasurementAccessors(t *testing.T) {
	b := Baseline(3, 10)
	assert.True(t, b.IsBaseline())
	assert.Zero(t, b.Threads())
	assert.Zero(t, b.StageTime())

	p := Pipeline(3, 5, 7, 11)
	assert.False(t, p.IsBaseline())
	assert.Equal(t, 5, p.Threads())
	assert.Equal(t, int64(7), p.StageTime())
	assert.Equal(t, 11.0, p.TotalTimeUS)
}

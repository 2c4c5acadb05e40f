package report

import (
	"bytes"
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/DjordjeVuckovic/pipeline-sweep/internal/sweep/device"
	"github.com/DjordjeVuckovic/pipeline-sweep/internal/sweep/results"
	"github.com/DjordjeVuckovic/pipeline-sweep/internal/sweep/runner"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/plotutil"
)

var testHost = device.Host{Processor: "Test CPU @ 3.0GHz", MemoryB: 16 << 30}

func sweepRecords() []results.Measurement {
	return []results.Measurement{
		results.Baseline(1, 900),
		results.Baseline(2, 1800),
		results.Pipeline(1, 1, 100, 200),
		results.Pipeline(1, 2, 100, 200),
		results.Pipeline(2, 1, 100, 200),
		results.Pipeline(2, 2, 100, 200),
	}
}

func TestGroup_SortsByThreads(t *testing.T) {
	g := Group([]results.Measurement{
		results.Pipeline(3, 3, 30, 300),
		results.Baseline(3, 1000),
		results.Pipeline(3, 1, 10, 100),
		results.Pipeline(3, 2, 20, 200),
	})

	require.Len(t, g.Pipeline[3], 3)
	var threads []int
	for _, r := range g.Pipeline[3] {
		threads = append(threads, r.Threads())
	}
	assert.Equal(t, []int{1, 2, 3}, threads)
	assert.Equal(t, 1000.0, g.Baseline[3].TotalTimeUS)
	assert.Equal(t, []int{3}, g.Iterations())

	lo, hi, ok := g.ThreadRange()
	require.True(t, ok)
	assert.Equal(t, 1, lo)
	assert.Equal(t, 3, hi)
}

func TestGroup_Empty(t *testing.T) {
	g := Group(nil)
	_, _, ok := g.ThreadRange()
	assert.False(t, ok)
	assert.Empty(t, g.Iterations())
}

func TestBuildCharts_EndToEnd(t *testing.T) {
	charts := BuildCharts(sweepRecords(), testHost)

	assert.Equal(t, StageChartTitle, charts.Stage.Title)
	assert.Equal(t, "Device: Test CPU @ 3.0GHz, RAM: 16.0 GB", charts.Total.Subtitle)

	pipeline := charts.Total.PipelineSeries()
	require.Len(t, pipeline, 2)
	for i, s := range pipeline {
		assert.Equal(t, i+1, s.Iteration)
		assert.Len(t, s.Points, 2)
		assert.Equal(t, []Point{{1, 200}, {2, 200}}, s.Points)
	}
	assert.Equal(t, "Iteration 1", pipeline[0].Label)

	refs := charts.Total.ReferenceSeries()
	require.Len(t, refs, 2)
	assert.Equal(t, []Point{{1, 900}, {2, 900}}, refs[0].Points)
	assert.Equal(t, []Point{{1, 1800}, {2, 1800}}, refs[1].Points)

	require.Len(t, charts.Stage.Series, 2)
	assert.Empty(t, charts.Stage.ReferenceSeries())
	assert.Equal(t, []Point{{1, 100}, {2, 100}}, charts.Stage.Series[0].Points)
}

func TestBuildCharts_FileOrderIrrelevant(t *testing.T) {
	recs := []results.Measurement{
		results.Pipeline(1, 3, 5, 50),
		results.Pipeline(1, 1, 7, 70),
		results.Pipeline(1, 2, 6, 60),
	}
	charts := BuildCharts(recs, testHost)
	require.Len(t, charts.Total.Series, 1)
	assert.Equal(t, []Point{{1, 70}, {2, 60}, {3, 50}}, charts.Total.Series[0].Points)
}

func TestBuildCharts_BaselineOnly(t *testing.T) {
	charts := BuildCharts([]results.Measurement{results.Baseline(1, 10)}, testHost)
	assert.Empty(t, charts.Total.Series, "no thread range to span without pipeline records")
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	charts := BuildCharts(sweepRecords(), testHost)

	for name, c := range map[string]Chart{"stage.png": charts.Stage, "total.png": charts.Total} {
		path := filepath.Join(dir, "charts", name)
		require.NoError(t, Render(c, path))

		f, err := os.Open(path)
		require.NoError(t, err)
		img, err := png.Decode(f)
		f.Close()
		require.NoError(t, err)
		assert.Greater(t, img.Bounds().Dx(), 0)
	}
}

func TestSeriesColor_ReferenceMatchesIteration(t *testing.T) {
	charts := BuildCharts(sweepRecords(), testHost)
	pipeline := charts.Total.PipelineSeries()
	refs := charts.Total.ReferenceSeries()
	require.Len(t, refs, 2)

	for _, ref := range refs {
		var matched bool
		for _, s := range pipeline {
			if s.Iteration == ref.Iteration {
				assert.Equal(t, seriesColor(s.Iteration), seriesColor(ref.Iteration))
				matched = true
			}
		}
		assert.True(t, matched, "reference %q has no pipeline series", ref.Label)
	}
	assert.NotEqual(t, seriesColor(1), seriesColor(2))
	assert.Equal(t, plotutil.Color(0), seriesColor(1))
}

func TestAggregate(t *testing.T) {
	rows := Aggregate([]results.Measurement{
		results.Baseline(1, 1200),
		results.Pipeline(1, 1, 100, 600),
		results.Pipeline(1, 2, 60, 400),
		results.Pipeline(1, 4, 70, 300),
		results.Baseline(2, 500),
	})
	require.Len(t, rows, 2)

	r := rows[0]
	assert.Equal(t, 3, r.Points)
	assert.Equal(t, int64(60), *r.BestStageUS)
	assert.Equal(t, 2, r.BestStageThreads)
	assert.Equal(t, 300.0, *r.BestTotalUS)
	assert.Equal(t, 4, r.BestTotalThreads)
	assert.InDelta(t, 4.0, *r.Speedup, 1e-9)
	assert.InDelta(t, 2.0, *r.Scaling, 1e-9)

	assert.Equal(t, 0, rows[1].Points)
	assert.Nil(t, rows[1].BestTotalUS)
	assert.Nil(t, rows[1].Speedup)
	assert.Equal(t, 500.0, *rows[1].BaselineTotalUS)
}

func TestWriteTable(t *testing.T) {
	sum := &runner.Summary{RunID: uuid.New(), State: runner.Done, BaselineRecords: 2, PipelineRecords: 4}
	var buf bytes.Buffer
	WriteTable(Generate(sum, testHost, sweepRecords()), &buf)

	out := buf.String()
	assert.Contains(t, out, "=== Pipeline Sweep ===")
	assert.Contains(t, out, "Device: Test CPU @ 3.0GHz, RAM: 16.0 GB")
	assert.Contains(t, out, "done (2 baseline, 4 pipeline records)")
	assert.Contains(t, out, "4.50x")
	assert.Contains(t, out, "9.00x")
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.json")
	sum := &runner.Summary{RunID: uuid.New(), State: runner.Aborted}
	require.NoError(t, WriteJSON(Generate(sum, testHost, sweepRecords()), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	s := decoded["summary"].(map[string]any)
	assert.Equal(t, "aborted", s["state"])
	assert.Equal(t, sum.RunID.String(), s["run_id"])
	assert.Len(t, decoded["iterations"], 2)
}

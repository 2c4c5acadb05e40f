package report

import (
	"fmt"

	"github.com/DjordjeVuckovic/pipeline-sweep/internal/sweep/device"
	"github.com/DjordjeVuckovic/pipeline-sweep/internal/sweep/results"
)

const (
	StageChartTitle = "Stage Time by Thread Count and Iteration"
	TotalChartTitle = "Total Time by Thread Count and Iteration"
	threadsLabel    = "Number of Threads"
)

type Point struct {
	X, Y float64
}

// Series is one line of a chart. Reference series are baseline levels and
// are drawn dashed.
type Series struct {
	Label     string
	Iteration int
	Points    []Point
	Reference bool
}

type Chart struct {
	Title    string
	Subtitle string
	XLabel   string
	YLabel   string
	Series   []Series
}

// PipelineSeries returns the non-reference series.
func (c Chart) PipelineSeries() []Series {
	var out []Series
	for _, s := range c.Series {
		if !s.Reference {
			out = append(out, s)
		}
	}
	return out
}

func (c Chart) ReferenceSeries() []Series {
	var out []Series
	for _, s := range c.Series {
		if s.Reference {
			out = append(out, s)
		}
	}
	return out
}

type Charts struct {
	Stage Chart
	Total Chart
}

// BuildCharts derives both chart models from the result records.
func BuildCharts(records []results.Measurement, host device.Info) Charts {
	g := Group(records)
	subtitle := device.Label(host)

	stage := Chart{
		Title:    StageChartTitle,
		Subtitle: subtitle,
		XLabel:   threadsLabel,
		YLabel:   "Stage Time (microseconds)",
	}
	total := Chart{
		Title:    TotalChartTitle,
		Subtitle: subtitle,
		XLabel:   threadsLabel,
		YLabel:   "Total Time (microseconds)",
	}

	for _, it := range g.PipelineIterations() {
		rs := g.Pipeline[it]
		sp := make([]Point, 0, len(rs))
		tp := make([]Point, 0, len(rs))
		for _, r := range rs {
			x := float64(r.Threads())
			if r.StageTimeUS != nil {
				sp = append(sp, Point{X: x, Y: float64(*r.StageTimeUS)})
			}
			tp = append(tp, Point{X: x, Y: r.TotalTimeUS})
		}
		label := fmt.Sprintf("Iteration %d", it)
		stage.Series = append(stage.Series, Series{Label: label, Iteration: it, Points: sp})
		total.Series = append(total.Series, Series{Label: label, Iteration: it, Points: tp})
	}

	if lo, hi, ok := g.ThreadRange(); ok {
		for _, it := range g.BaselineIterations() {
			y := g.Baseline[it].TotalTimeUS
			total.Series = append(total.Series, Series{
				Label:     fmt.Sprintf("Baseline %d", it),
				Iteration: it,
				Points:    []Point{{X: float64(lo), Y: y}, {X: float64(hi), Y: y}},
				Reference: true,
			})
		}
	}

	return Charts{Stage: stage, Total: total}
}

package report

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

const (
	chartWidth  = 10 * vg.Inch
	chartHeight = 6 * vg.Inch
)

// Render rasterizes c to path. The image format follows the extension.
func Render(c Chart, path string) error {
	p := plot.New()
	p.Title.Text = c.Title
	if c.Subtitle != "" {
		p.Title.Text += "\n" + c.Subtitle
	}
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel
	p.Add(plotter.NewGrid())

	for _, s := range c.Series {
		if len(s.Points) == 0 {
			continue
		}
		pts := make(plotter.XYs, len(s.Points))
		for j, pt := range s.Points {
			pts[j].X = pt.X
			pts[j].Y = pt.Y
		}

		col := seriesColor(s.Iteration)
		if s.Reference {
			line, err := plotter.NewLine(pts)
			if err != nil {
				return fmt.Errorf("series %q: %w", s.Label, err)
			}
			line.Color = col
			line.Width = vg.Points(1.5)
			line.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
			p.Add(line)
			p.Legend.Add(s.Label, line)
			continue
		}

		line, marks, err := plotter.NewLinePoints(pts)
		if err != nil {
			return fmt.Errorf("series %q: %w", s.Label, err)
		}
		line.Color = col
		line.Width = vg.Points(2)
		marks.Color = col
		marks.Shape = plotutil.Shape(0)
		p.Add(line, marks)
		p.Legend.Add(s.Label, line, marks)
	}

	p.Legend.Top = true
	p.X.Tick.Marker = integerTicks{}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create chart dir: %w", err)
		}
	}
	if err := p.Save(chartWidth, chartHeight, path); err != nil {
		return fmt.Errorf("save chart %s: %w", path, err)
	}
	return nil
}

// seriesColor is keyed on iteration. A baseline reference shares the color
// of its pipeline line.
func seriesColor(iteration int) color.Color {
	if iteration < 1 {
		iteration = 1
	}
	return plotutil.Color(iteration - 1)
}

// integerTicks labels every whole thread count in range.
type integerTicks struct{}

func (integerTicks) Ticks(min, max float64) []plot.Tick {
	if max-min > 32 {
		return plot.DefaultTicks{}.Ticks(min, max)
	}
	var ticks []plot.Tick
	for v := int(min); float64(v) <= max; v++ {
		if float64(v) < min {
			continue
		}
		ticks = append(ticks, plot.Tick{Value: float64(v), Label: fmt.Sprintf("%d", v)})
	}
	return ticks
}

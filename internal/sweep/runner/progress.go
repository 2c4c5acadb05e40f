package runner

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"
)

// Progress receives one Advance per completed work unit.
type Progress interface {
	Advance(iteration int, threads *int)
	Finish()
}

type nopProgress struct{}

func (nopProgress) Advance(int, *int) {}
func (nopProgress) Finish()           {}

// Bar renders sweep progress as a terminal progress bar.
type Bar struct {
	bar *progressbar.ProgressBar
}

func NewBar(w io.Writer, total int) *Bar {
	return &Bar{bar: progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Running benchmarks"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
	)}
}

func (b *Bar) Advance(iteration int, threads *int) {
	if threads == nil {
		b.bar.Describe(fmt.Sprintf("Running benchmarks [baseline iter=%d]", iteration))
	} else {
		b.bar.Describe(fmt.Sprintf("Running benchmarks [iter=%d threads=%d]", iteration, *threads))
	}
	_ = b.bar.Add(1)
}

func (b *Bar) Finish() {
	_ = b.bar.Finish()
}

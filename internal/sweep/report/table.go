package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

func WriteTable(r *RunReport, w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "\n=== Pipeline Sweep ===\n")
	if r.Host.Processor != "" || r.Host.MemoryB > 0 {
		fmt.Fprintf(tw, "%s\n", r.HostLabel)
	}
	if r.Summary != nil {
		fmt.Fprintf(tw, "Run %s: %s (%d baseline, %d pipeline records)\n",
			r.Summary.RunID, r.Summary.State, r.Summary.BaselineRecords, r.Summary.PipelineRecords)
	}
	fmt.Fprintln(tw)

	header := []string{"Iteration", "Best Stage", "@Threads", "Best Total", "@Threads", "1-Thread Total", "Baseline", "Speedup", "Scaling"}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	fmt.Fprintln(tw, strings.Join(sep, "\t"))

	for _, row := range r.Iterations {
		cols := []string{
			fmt.Sprintf("%d", row.Iteration),
			fmtStage(row.BestStageUS),
			fmtThreads(row.BestStageUS != nil, row.BestStageThreads),
			fmtMicros(row.BestTotalUS),
			fmtThreads(row.BestTotalUS != nil, row.BestTotalThreads),
			fmtMicros(row.SingleThreadTotal),
			fmtMicros(row.BaselineTotalUS),
			fmtRatio(row.Speedup),
			fmtRatio(row.Scaling),
		}
		fmt.Fprintln(tw, strings.Join(cols, "\t"))
	}

	fmt.Fprintln(tw)
	tw.Flush()
}

func fmtStage(v *int64) string {
	if v == nil {
		return "-"
	}
	f := float64(*v)
	return fmtMicros(&f)
}

func fmtMicros(v *float64) string {
	if v == nil {
		return "-"
	}
	us := *v
	switch {
	case us < 1000:
		return fmt.Sprintf("%.0fµs", us)
	case us < 1_000_000:
		return fmt.Sprintf("%.2fms", us/1000)
	}
	return fmt.Sprintf("%.2fs", us/1_000_000)
}

func fmtThreads(ok bool, n int) string {
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%d", n)
}

func fmtRatio(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2fx", *v)
}

package report

import "github.com/DjordjeVuckovic/pipeline-sweep/internal/sweep/results"

// IterationRow compares the best pipeline point of one iteration against
// the baseline run of the same iteration.
type IterationRow struct {
	Iteration         int      `json:"iteration"`
	Points            int      `json:"points"`
	BestStageUS       *int64   `json:"best_stage_time_us,omitempty"`
	BestStageThreads  int      `json:"best_stage_threads,omitempty"`
	BestTotalUS       *float64 `json:"best_total_time_us,omitempty"`
	BestTotalThreads  int      `json:"best_total_threads,omitempty"`
	SingleThreadTotal *float64 `json:"single_thread_total_time_us,omitempty"`
	BaselineTotalUS   *float64 `json:"baseline_total_time_us,omitempty"`
	// Speedup is baseline total over best pipeline total.
	Speedup *float64 `json:"speedup,omitempty"`
	// Scaling is single-thread total over best pipeline total.
	Scaling *float64 `json:"scaling,omitempty"`
}

func Aggregate(records []results.Measurement) []IterationRow {
	g := Group(records)
	var rows []IterationRow

	for _, it := range g.Iterations() {
		row := IterationRow{Iteration: it}
		for _, r := range g.Pipeline[it] {
			row.Points++
			if r.StageTimeUS != nil && (row.BestStageUS == nil || *r.StageTimeUS < *row.BestStageUS) {
				v := *r.StageTimeUS
				row.BestStageUS = &v
				row.BestStageThreads = r.Threads()
			}
			if row.BestTotalUS == nil || r.TotalTimeUS < *row.BestTotalUS {
				v := r.TotalTimeUS
				row.BestTotalUS = &v
				row.BestTotalThreads = r.Threads()
			}
			if r.Threads() == 1 {
				v := r.TotalTimeUS
				row.SingleThreadTotal = &v
			}
		}

		if b, ok := g.Baseline[it]; ok {
			v := b.TotalTimeUS
			row.BaselineTotalUS = &v
		}
		row.Speedup = ratio(row.BaselineTotalUS, row.BestTotalUS)
		row.Scaling = ratio(row.SingleThreadTotal, row.BestTotalUS)
		rows = append(rows, row)
	}
	return rows
}

func ratio(num, den *float64) *float64 {
	if num == nil || den == nil || *den == 0 {
		return nil
	}
	v := *num / *den
	return &v
}

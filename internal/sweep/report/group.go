package report

import (
	"maps"
	"slices"
	"sort"

	"github.com/DjordjeVuckovic/pipeline-sweep/internal/sweep/results"
)

// Grouped holds records keyed by iteration. Pipeline groups are sorted by
// thread count.
type Grouped struct {
	Pipeline map[int][]results.Measurement
	Baseline map[int]results.Measurement
}

func Group(records []results.Measurement) Grouped {
	g := Grouped{
		Pipeline: make(map[int][]results.Measurement),
		Baseline: make(map[int]results.Measurement),
	}
	for _, r := range records {
		if r.IsBaseline() {
			g.Baseline[r.Iteration] = r
			continue
		}
		g.Pipeline[r.Iteration] = append(g.Pipeline[r.Iteration], r)
	}
	for _, rs := range g.Pipeline {
		sort.SliceStable(rs, func(i, j int) bool { return rs[i].Threads() < rs[j].Threads() })
	}
	return g
}

// PipelineIterations lists iterations with pipeline records, ascending.
func (g Grouped) PipelineIterations() []int {
	return slices.Sorted(maps.Keys(g.Pipeline))
}

func (g Grouped) BaselineIterations() []int {
	return slices.Sorted(maps.Keys(g.Baseline))
}

// Iterations is the union of pipeline and baseline iterations, ascending.
func (g Grouped) Iterations() []int {
	seen := make(map[int]struct{}, len(g.Pipeline)+len(g.Baseline))
	for it := range g.Pipeline {
		seen[it] = struct{}{}
	}
	for it := range g.Baseline {
		seen[it] = struct{}{}
	}
	return slices.Sorted(maps.Keys(seen))
}

// ThreadRange is the smallest and largest thread count among pipeline
// records. ok is false when there are none.
func (g Grouped) ThreadRange() (lo, hi int, ok bool) {
	for _, rs := range g.Pipeline {
		for _, r := range rs {
			t := r.Threads()
			if !ok {
				lo, hi, ok = t, t, true
				continue
			}
			lo = min(lo, t)
			hi = max(hi, t)
		}
	}
	return lo, hi, ok
}

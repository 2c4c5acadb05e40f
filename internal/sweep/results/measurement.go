package results

const (
	FrameworkPipeline = "pipeline"
	FrameworkBaseline = "baseline"
)

// Header is the fixed column order of the result file.
var Header = []string{"framework", "iteration", "num_threads", "stage_time_us", "total_time_us"}

// Measurement is one row of the result file. NumThreads and StageTimeUS are
// nil for baseline rows.
type Measurement struct {
	Framework   string  `json:"framework"`
	Iteration   int     `json:"iteration"`
	NumThreads  *int    `json:"num_threads,omitempty"`
	StageTimeUS *int64  `json:"stage_time_us,omitempty"`
	TotalTimeUS float64 `json:"total_time_us"`
}

func Pipeline(iteration, threads int, stageUS, totalUS int64) Measurement {
	return Measurement{
		Framework:   FrameworkPipeline,
		Iteration:   iteration,
		NumThreads:  &threads,
		StageTimeUS: &stageUS,
		TotalTimeUS: float64(totalUS),
	}
}

func Baseline(iteration int, totalUS float64) Measurement {
	return Measurement{
		Framework:   FrameworkBaseline,
		Iteration:   iteration,
		TotalTimeUS: totalUS,
	}
}

func (m Measurement) IsBaseline() bool {
	return m.Framework == FrameworkBaseline
}

// Threads returns NumThreads or 0 when absent.
func (m Measurement) Threads() int {
	if m.NumThreads == nil {
		return 0
	}
	return *m.NumThreads
}

// StageTime returns StageTimeUS or 0 when absent.
func (m Measurement) StageTime() int64 {
	if m.StageTimeUS == nil {
		return 0
	}
	return *m.StageTimeUS
}

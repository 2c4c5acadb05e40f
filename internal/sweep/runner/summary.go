package runner

import (
	"time"

	"github.com/google/uuid"
)

// GridPoint locates a failure. Threads is nil for baseline points.
type GridPoint struct {
	Phase     State  `json:"phase"`
	Iteration int    `json:"iteration"`
	Threads   *int   `json:"num_threads,omitempty"`
	Error     string `json:"error"`
}

type Summary struct {
	RunID           uuid.UUID  `json:"run_id"`
	StartedAt       time.Time  `json:"started_at"`
	FinishedAt      time.Time  `json:"finished_at"`
	State           State      `json:"state"`
	Built           bool       `json:"built"`
	MaxIterations   int        `json:"max_iterations"`
	MaxThreads      int        `json:"max_threads"`
	BaselineRecords int        `json:"baseline_records"`
	PipelineRecords int        `json:"pipeline_records"`
	Failure         *GridPoint `json:"failure,omitempty"`
}

func (s *Summary) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

package runner

// State is the controller's position in the sweep lifecycle.
type State int

const (
	Idle State = iota
	BaselineSweep
	PipelineSweep
	Done
	Aborted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case BaselineSweep:
		return "baseline_sweep"
	case PipelineSweep:
		return "pipeline_sweep"
	case Done:
		return "done"
	case Aborted:
		return "aborted"
	}
	return "unknown"
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

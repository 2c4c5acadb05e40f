package report

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/DjordjeVuckovic/pipeline-sweep/internal/sweep/device"
	"github.com/DjordjeVuckovic/pipeline-sweep/internal/sweep/results"
	"github.com/DjordjeVuckovic/pipeline-sweep/internal/sweep/runner"
)

// RunReport is the persisted summary of one sweep.
type RunReport struct {
	Summary    *runner.Summary `json:"summary,omitempty"`
	Host       device.Host     `json:"host"`
	HostLabel  string          `json:"host_label"`
	Iterations []IterationRow  `json:"iterations"`
	Charts     []string        `json:"charts,omitempty"`
}

func Generate(sum *runner.Summary, host device.Host, records []results.Measurement) *RunReport {
	return &RunReport{
		Summary:    sum,
		Host:       host,
		HostLabel:  device.Label(host),
		Iterations: Aggregate(records),
	}
}

func WriteJSON(r *RunReport, path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

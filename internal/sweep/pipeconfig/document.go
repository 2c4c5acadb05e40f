package pipeconfig

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

const (
	keyIterations = "iterations"
	keyNumThreads = "num_threads"
	keyPipeline   = "pipeline"
)

// Document is the pipeline configuration file. Iterations and NumThreads are
// the fields the sweep rewrites; Pipeline is read by the baseline. Every
// other key is carried through untouched in passthrough.
type Document struct {
	Iterations int
	NumThreads *int
	Pipeline   []StageSpec

	passthrough map[string]json.RawMessage
	hasPipeline bool
}

// StageSpec is one pipeline entry. Keys other than name, prob and params are
// kept and written back unchanged.
type StageSpec struct {
	Name   string    `json:"name"`
	Prob   *float64  `json:"prob,omitempty"`
	Params []float64 `json:"params,omitempty"`

	extra map[string]json.RawMessage
}

type plainStage StageSpec

func (s *StageSpec) UnmarshalJSON(data []byte) error {
	var p plainStage
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	delete(raw, "name")
	delete(raw, "prob")
	delete(raw, "params")

	*s = StageSpec(p)
	s.extra = nil
	if len(raw) > 0 {
		s.extra = raw
	}
	return nil
}

func (s StageSpec) MarshalJSON() ([]byte, error) {
	if len(s.extra) == 0 {
		return json.Marshal(plainStage(s))
	}
	out := make(map[string]any, len(s.extra)+3)
	for k, v := range s.extra {
		out[k] = v
	}
	out["name"] = s.Name
	if s.Prob != nil {
		out["prob"] = *s.Prob
	}
	if len(s.Params) > 0 {
		out["params"] = s.Params
	}
	return json.Marshal(out)
}

// Extra returns the raw value of a stage key the harness does not interpret.
func (s StageSpec) Extra(key string) (json.RawMessage, bool) {
	v, ok := s.extra[key]
	return v, ok
}

// Probability returns the stage probability, 1.0 when unset.
func (s StageSpec) Probability() float64 {
	if s.Prob == nil {
		return 1.0
	}
	return *s.Prob
}

func (d *Document) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("configuration document must be a JSON object")
	}

	*d = Document{}
	if v, ok := raw[keyIterations]; ok && !isNull(v) {
		if err := json.Unmarshal(v, &d.Iterations); err != nil {
			return fmt.Errorf("field %q: %w", keyIterations, err)
		}
	}
	if v, ok := raw[keyNumThreads]; ok && !isNull(v) {
		var n int
		if err := json.Unmarshal(v, &n); err != nil {
			return fmt.Errorf("field %q: %w", keyNumThreads, err)
		}
		d.NumThreads = &n
	}
	if v, ok := raw[keyPipeline]; ok && !isNull(v) {
		if err := json.Unmarshal(v, &d.Pipeline); err != nil {
			return fmt.Errorf("field %q: %w", keyPipeline, err)
		}
		d.hasPipeline = true
	}

	delete(raw, keyIterations)
	delete(raw, keyNumThreads)
	delete(raw, keyPipeline)
	d.passthrough = raw
	return nil
}

func (d Document) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.passthrough)+3)
	for k, v := range d.passthrough {
		out[k] = v
	}
	out[keyIterations] = d.Iterations
	if d.NumThreads != nil {
		out[keyNumThreads] = *d.NumThreads
	}
	if d.hasPipeline || d.Pipeline != nil {
		pipeline := d.Pipeline
		if pipeline == nil {
			pipeline = []StageSpec{}
		}
		out[keyPipeline] = pipeline
	}
	return json.Marshal(out)
}

// Passthrough returns the raw value of a key the harness does not interpret.
func (d *Document) Passthrough(key string) (json.RawMessage, bool) {
	v, ok := d.passthrough[key]
	return v, ok
}

// PassthroughKeys lists the uninterpreted keys in sorted order.
func (d *Document) PassthroughKeys() []string {
	return slices.Sorted(maps.Keys(d.passthrough))
}

// Clone returns a deep copy.
func (d *Document) Clone() *Document {
	c := &Document{
		Iterations:  d.Iterations,
		hasPipeline: d.hasPipeline,
	}
	if d.NumThreads != nil {
		n := *d.NumThreads
		c.NumThreads = &n
	}
	if d.Pipeline != nil {
		c.Pipeline = make([]StageSpec, len(d.Pipeline))
		for i, st := range d.Pipeline {
			cp := StageSpec{Name: st.Name, Params: slices.Clone(st.Params)}
			if st.extra != nil {
				cp.extra = make(map[string]json.RawMessage, len(st.extra))
				for k, v := range st.extra {
					cp.extra[k] = slices.Clone(v)
				}
			}
			if st.Prob != nil {
				p := *st.Prob
				cp.Prob = &p
			}
			c.Pipeline[i] = cp
		}
	}
	if d.passthrough != nil {
		c.passthrough = make(map[string]json.RawMessage, len(d.passthrough))
		for k, v := range d.passthrough {
			c.passthrough[k] = slices.Clone(v)
		}
	}
	return c
}

func isNull(v json.RawMessage) bool {
	return string(v) == "null"
}

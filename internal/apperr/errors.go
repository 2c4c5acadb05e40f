package apperr

import (
	"strconv"
	"strings"
)

// ConfigError reports an unreadable or malformed configuration document or
// sweep spec. It is raised before any invocation happens.
type ConfigError struct {
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func NewConfig(msg string) *ConfigError {
	return &ConfigError{Message: msg}
}

func NewConfigWrap(msg string, err error) *ConfigError {
	return &ConfigError{Message: msg, Err: err}
}

// BuildError reports that the pipeline binary could not be built.
type BuildError struct {
	Step string
	Err  error
}

func (e *BuildError) Error() string {
	msg := "build pipeline binary"
	if e.Step != "" {
		msg += " (" + e.Step + ")"
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// InvocationError reports that the pipeline process could not be launched
// or was killed before it produced output.
type InvocationError struct {
	Binary string
	Err    error
}

func (e *InvocationError) Error() string {
	if e.Err != nil {
		return "invoke " + e.Binary + ": " + e.Err.Error()
	}
	return "invoke " + e.Binary
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

// PipelineReportedError carries the message the pipeline printed after its
// error marker. Error returns the message verbatim.
type PipelineReportedError struct {
	Message string
}

func (e *PipelineReportedError) Error() string {
	return e.Message
}

// IncompleteTimingData means the pipeline output lacked one or both timing
// fields. Missing lists the absent field names.
type IncompleteTimingData struct {
	Missing []string
}

func (e *IncompleteTimingData) Error() string {
	if len(e.Missing) == 0 {
		return "incomplete timing data"
	}
	return "incomplete timing data: missing " + strings.Join(e.Missing, ", ")
}

// SchemaError reports a result file that does not match the record schema.
type SchemaError struct {
	Message string
	Line    int
}

func (e *SchemaError) Error() string {
	if e.Line > 0 {
		return "result schema: line " + strconv.Itoa(e.Line) + ": " + e.Message
	}
	return "result schema: " + e.Message
}

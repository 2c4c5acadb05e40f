package invoker

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"time"

	"github.com/DjordjeVuckovic/pipeline-sweep/internal/apperr"
)

// Invocation is the captured result of one pipeline run.
type Invocation struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

type Invoker interface {
	Run(ctx context.Context, binary, configPath string) (*Invocation, error)
}

// ProcessInvoker launches the pipeline binary as `<binary> --config <path>`
// and waits for it to exit.
type ProcessInvoker struct {
	timeout time.Duration
}

// New returns a ProcessInvoker. A zero timeout leaves each run unbounded.
func New(timeout time.Duration) *ProcessInvoker {
	return &ProcessInvoker{timeout: timeout}
}

func (p *ProcessInvoker) Run(ctx context.Context, binary, configPath string) (*Invocation, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, "--config", configPath)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	inv := &Invocation{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return inv, &apperr.InvocationError{Binary: binary, Err: ctxErr}
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		inv.ExitCode = exitErr.ExitCode()
	default:
		return nil, &apperr.InvocationError{Binary: binary, Err: err}
	}

	slog.Debug("pipeline finished", "binary", binary, "exit_code", inv.ExitCode, "duration", inv.Duration)
	return inv, nil
}

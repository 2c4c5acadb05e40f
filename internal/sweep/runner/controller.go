package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/DjordjeVuckovic/pipeline-sweep/internal/sweep/invoker"
	"github.com/DjordjeVuckovic/pipeline-sweep/internal/sweep/parser"
	"github.com/DjordjeVuckovic/pipeline-sweep/internal/sweep/pipeconfig"
	"github.com/DjordjeVuckovic/pipeline-sweep/internal/sweep/results"
	"github.com/DjordjeVuckovic/pipeline-sweep/internal/sweep/spec"
	"github.com/google/uuid"
)

type ConfigStore interface {
	Path() string
	Apply(iteration int, threads *int) (*pipeconfig.Document, error)
}

type Baseline interface {
	RunOnce(ctx context.Context, doc *pipeconfig.Document, inputDir, outputDir string) (float64, error)
}

type Builder interface {
	EnsureBuilt(ctx context.Context, binary string) (bool, error)
}

// Deps are the collaborators a Controller drives. Builder and Progress are
// optional.
type Deps struct {
	Store    ConfigStore
	Invoker  invoker.Invoker
	Baseline Baseline
	Builder  Builder
	Recorder results.Recorder
	Progress Progress
	RunID    uuid.UUID
}

// Controller runs the baseline sweep followed by the pipeline sweep. Points
// are visited one at a time and the first failure aborts the run.
type Controller struct {
	spec  *spec.SweepSpec
	deps  Deps
	state State
	sum   Summary
}

func New(s *spec.SweepSpec, deps Deps) *Controller {
	if deps.Progress == nil {
		deps.Progress = nopProgress{}
	}
	if deps.RunID == uuid.Nil {
		deps.RunID = uuid.New()
	}
	return &Controller{spec: s, deps: deps}
}

func (c *Controller) State() State { return c.state }

func (c *Controller) RunID() uuid.UUID { return c.deps.RunID }

// Run executes the full sweep. The returned Summary is non-nil even when
// the sweep aborts.
func (c *Controller) Run(ctx context.Context) (*Summary, error) {
	c.sum = Summary{
		RunID:         c.deps.RunID,
		StartedAt:     time.Now(),
		MaxIterations: c.spec.Axes.MaxIterations,
		MaxThreads:    c.spec.Axes.MaxThreads,
	}
	defer c.deps.Progress.Finish()

	var buildErr error
	if c.deps.Builder != nil {
		built, err := c.deps.Builder.EnsureBuilt(ctx, c.spec.Binary.Path)
		c.sum.Built = built
		if err != nil {
			buildErr = err
			slog.Warn("pipeline build failed", "error", err)
		}
	}

	c.transition(BaselineSweep)
	for iteration := 1; iteration <= c.spec.Axes.MaxIterations; iteration++ {
		if err := c.baselinePoint(ctx, iteration); err != nil {
			return c.abort(iteration, nil, fmt.Errorf("baseline sweep at iteration %d: %w", iteration, err))
		}
	}

	c.transition(PipelineSweep)
	if buildErr != nil {
		if _, err := os.Stat(c.spec.Binary.Path); err != nil {
			return c.abort(0, nil, buildErr)
		}
	}

	for iteration := 1; iteration <= c.spec.Axes.MaxIterations; iteration++ {
		for threads := 1; threads <= c.spec.Axes.MaxThreads; threads++ {
			if err := c.pipelinePoint(ctx, iteration, threads); err != nil {
				th := threads
				return c.abort(iteration, &th, fmt.Errorf("pipeline sweep at iteration %d, threads %d: %w", iteration, threads, err))
			}
		}
	}

	c.transition(Done)
	c.sum.FinishedAt = time.Now()
	slog.Info("sweep finished",
		"run_id", c.sum.RunID,
		"baseline_records", c.sum.BaselineRecords,
		"pipeline_records", c.sum.PipelineRecords,
		"duration", c.sum.Duration())
	return c.summary(), nil
}

func (c *Controller) baselinePoint(ctx context.Context, iteration int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	doc, err := c.deps.Store.Apply(iteration, nil)
	if err != nil {
		return err
	}

	totalUS, err := c.deps.Baseline.RunOnce(ctx, doc, c.spec.Baseline.InputDir, c.spec.Baseline.OutputDir)
	if err != nil {
		return err
	}
	if err := c.deps.Recorder.Append(results.Baseline(iteration, totalUS)); err != nil {
		return err
	}

	c.sum.BaselineRecords++
	c.deps.Progress.Advance(iteration, nil)
	slog.Debug("baseline point", "iteration", iteration, "total_us", totalUS)
	return nil
}

func (c *Controller) pipelinePoint(ctx context.Context, iteration, threads int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := c.deps.Store.Apply(iteration, &threads); err != nil {
		return err
	}

	inv, err := c.deps.Invoker.Run(ctx, c.spec.Binary.Path, c.deps.Store.Path())
	if err != nil {
		return err
	}

	timing, err := parser.Parse(inv.Stdout)
	if err != nil {
		if inv.ExitCode != 0 {
			slog.Debug("pipeline failed", "exit_code", inv.ExitCode, "stderr", inv.Stderr)
		}
		return err
	}
	if inv.ExitCode != 0 {
		slog.Warn("pipeline exited non-zero but reported timings",
			"iteration", iteration, "threads", threads, "exit_code", inv.ExitCode)
	}

	m := results.Pipeline(iteration, threads, timing.StageTimeUS, timing.TotalTimeUS)
	if err := c.deps.Recorder.Append(m); err != nil {
		return err
	}

	c.sum.PipelineRecords++
	c.deps.Progress.Advance(iteration, &threads)
	slog.Debug("pipeline point",
		"iteration", iteration,
		"threads", threads,
		"stage_us", timing.StageTimeUS,
		"total_us", timing.TotalTimeUS,
		"wall", inv.Duration)
	return nil
}

func (c *Controller) abort(iteration int, threads *int, err error) (*Summary, error) {
	phase := c.state
	c.transition(Aborted)
	c.sum.FinishedAt = time.Now()
	c.sum.Failure = &GridPoint{
		Phase:     phase,
		Iteration: iteration,
		Threads:   threads,
		Error:     err.Error(),
	}
	if errors.Is(err, context.Canceled) {
		slog.Warn("sweep cancelled", "phase", phase, "iteration", iteration)
	}
	return c.summary(), err
}

func (c *Controller) transition(to State) {
	slog.Debug("sweep state", "from", c.state, "to", to)
	c.state = to
	c.sum.State = to
}

func (c *Controller) summary() *Summary {
	s := c.sum
	return &s
}

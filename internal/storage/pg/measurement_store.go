package pg

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/pipeline-sweep/internal/sweep/results"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultBatchSize = 16

var measurementColumns = []string{"run_id", "framework", "iteration", "num_threads", "stage_time_us", "total_time_us"}

// MeasurementStore mirrors sweep measurements into the measurements table.
// Rows are buffered and written with COPY; Close writes whatever is left.
type MeasurementStore struct {
	ctx       context.Context
	db        *pgxpool.Pool
	runID     uuid.UUID
	batchSize int
	pending   []results.Measurement
}

func NewMeasurementStore(ctx context.Context, pool *ConnectionPool, runID uuid.UUID, batchSize int) *MeasurementStore {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &MeasurementStore{
		ctx:       ctx,
		db:        pool.GetConn(),
		runID:     runID,
		batchSize: batchSize,
	}
}

func (s *MeasurementStore) RunID() uuid.UUID { return s.runID }

func (s *MeasurementStore) Append(m results.Measurement) error {
	s.pending = append(s.pending, m)
	if len(s.pending) < s.batchSize {
		return nil
	}
	return s.flush()
}

// Close flushes buffered rows. It does not close the pool.
func (s *MeasurementStore) Close() error {
	return s.flush()
}

func (s *MeasurementStore) flush() error {
	if len(s.pending) == 0 {
		return nil
	}
	if err := s.SaveBulk(context.WithoutCancel(s.ctx), s.pending); err != nil {
		return err
	}
	s.pending = s.pending[:0]
	return nil
}

func (s *MeasurementStore) SaveBulk(ctx context.Context, ms []results.Measurement) error {
	rows := make([][]any, len(ms))
	for i, m := range ms {
		rows[i] = []any{s.runID, m.Framework, m.Iteration, m.NumThreads, m.StageTimeUS, m.TotalTimeUS}
	}

	n, err := s.db.CopyFrom(
		ctx,
		pgx.Identifier{"measurements"},
		measurementColumns,
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to copy measurements: %w", err)
	}
	slog.Debug("mirrored measurements", "run_id", s.runID, "rows", n)
	return nil
}

// LoadRun returns the measurements of one run in insertion order.
func (s *MeasurementStore) LoadRun(ctx context.Context, runID uuid.UUID) ([]results.Measurement, error) {
	rows, err := s.db.Query(ctx, `
		SELECT framework, iteration, num_threads, stage_time_us, total_time_us
		FROM measurements
		WHERE run_id = $1
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query measurements: %w", err)
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (results.Measurement, error) {
		var m results.Measurement
		err := row.Scan(&m.Framework, &m.Iteration, &m.NumThreads, &m.StageTimeUS, &m.TotalTimeUS)
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan measurements: %w", err)
	}
	return out, nil
}

package pg

import (
	"context"
	"testing"

	"github.com/DjordjeVuckovic/pipeline-sweep/internal/sweep/results"
	pkgtesting "github.com/DjordjeVuckovic/pipeline-sweep/pkg/testing"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPool(t *testing.T) *ConnectionPool {
	t.Helper()
	ctx := context.Background()
	c := pkgtesting.NewPGContainerWithCleanup(ctx, t)

	pool, err := NewConnectionPool(ctx, PoolConfig{ConnStr: c.ConnString})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func TestMeasurementStore_RoundTrip(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()

	runID := uuid.New()
	store := NewMeasurementStore(ctx, pool, runID, 3)

	want := []results.Measurement{
		results.Baseline(1, 1500.25),
		results.Baseline(2, 2900),
		results.Pipeline(1, 1, 100, 400),
		results.Pipeline(1, 2, 80, 310),
		results.Pipeline(2, 1, 190, 780),
	}
	for i, m := range want {
		require.NoError(t, store.Append(m))
		if i == 1 {
			got, err := store.LoadRun(ctx, runID)
			require.NoError(t, err)
			assert.Empty(t, got, "rows stay buffered below the batch size")
		}
	}
	require.NoError(t, store.Close())

	got, err := store.LoadRun(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	other, err := store.LoadRun(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestNewConnectionPool_BadConnString(t *testing.T) {
	_, err := NewConnectionPool(context.Background(), PoolConfig{ConnStr: "postgres://%zz"})
	assert.Error(t, err)
}

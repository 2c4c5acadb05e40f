package invoker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/pipeline-sweep/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	path := filepath.Join(t.TempDir(), "pipeline.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755))
	return path
}

func TestProcessInvoker_Run(t *testing.T) {
	t.Run("captures output and passes config flag", func(t *testing.T) {
		bin := writeScript(t, `echo "args: $1 $2"
echo "[TIMING] Total(us): 10"
echo "warn" 1>&2
`)
		inv, err := New(0).Run(context.Background(), bin, "/tmp/cfg.json")
		require.NoError(t, err)
		assert.Equal(t, "args: --config /tmp/cfg.json\n[TIMING] Total(us): 10\n", inv.Stdout)
		assert.Equal(t, "warn\n", inv.Stderr)
		assert.Equal(t, 0, inv.ExitCode)
		assert.Greater(t, inv.Duration, time.Duration(0))
	})

	t.Run("non-zero exit is not an error", func(t *testing.T) {
		bin := writeScript(t, "echo partial\nexit 3\n")
		inv, err := New(0).Run(context.Background(), bin, "cfg.json")
		require.NoError(t, err)
		assert.Equal(t, 3, inv.ExitCode)
		assert.Equal(t, "partial\n", inv.Stdout)
	})

	t.Run("missing binary", func(t *testing.T) {
		_, err := New(0).Run(context.Background(), filepath.Join(t.TempDir(), "absent"), "cfg.json")
		require.Error(t, err)
		var ie *apperr.InvocationError
		assert.True(t, errors.As(err, &ie))
	})

	t.Run("timeout kills the process", func(t *testing.T) {
		bin := writeScript(t, "sleep 5\n")
		_, err := New(50*time.Millisecond).Run(context.Background(), bin, "cfg.json")
		require.Error(t, err)
		var ie *apperr.InvocationError
		require.True(t, errors.As(err, &ie))
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("cancelled context", func(t *testing.T) {
		bin := writeScript(t, "sleep 5\n")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := New(0).Run(ctx, bin, "cfg.json")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

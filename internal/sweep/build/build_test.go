package build

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/DjordjeVuckovic/pipeline-sweep/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	dir  string
	name string
	args []string
}

func fakeBuilder(t *testing.T, goos string, onRun func(c call) error) (*Builder, *[]call) {
	t.Helper()
	var calls []call
	root := t.TempDir()
	b := &Builder{
		buildDir:  filepath.Join(root, "build"),
		sourceDir: root,
		goos:      goos,
		run: func(_ context.Context, dir, name string, args ...string) ([]byte, error) {
			c := call{dir: dir, name: name, args: args}
			calls = append(calls, c)
			if onRun != nil {
				return []byte("compiler output"), onRun(c)
			}
			return nil, nil
		},
	}
	return b, &calls
}

func TestEnsureBuilt_BinaryPresent(t *testing.T) {
	b, calls := fakeBuilder(t, "linux", nil)
	bin := filepath.Join(t.TempDir(), "benchmark")
	require.NoError(t, os.WriteFile(bin, []byte("x"), 0755))

	built, err := b.EnsureBuilt(context.Background(), bin)
	require.NoError(t, err)
	assert.False(t, built)
	assert.Empty(t, *calls)
}

func TestEnsureBuilt_UnsupportedPlatform(t *testing.T) {
	b, calls := fakeBuilder(t, "windows", nil)

	built, err := b.EnsureBuilt(context.Background(), filepath.Join(t.TempDir(), "benchmark"))
	require.NoError(t, err)
	assert.False(t, built)
	assert.Empty(t, *calls)
}

func TestEnsureBuilt_RunsCmakeThenMake(t *testing.T) {
	var bin string
	b, calls := fakeBuilder(t, "darwin", func(c call) error {
		if c.name == "make" {
			return os.WriteFile(bin, []byte("x"), 0755)
		}
		return nil
	})
	bin = filepath.Join(b.buildDir, "benchmark")

	built, err := b.EnsureBuilt(context.Background(), bin)
	require.NoError(t, err)
	assert.True(t, built)

	require.Len(t, *calls, 2)
	assert.Equal(t, "cmake", (*calls)[0].name)
	assert.Equal(t, b.buildDir, (*calls)[0].dir)
	assert.Equal(t, []string{b.sourceDir}, (*calls)[0].args)
	assert.Equal(t, "make", (*calls)[1].name)

	info, err := os.Stat(b.buildDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestEnsureBuilt_StepFails(t *testing.T) {
	b, calls := fakeBuilder(t, "linux", func(c call) error {
		if c.name == "cmake" {
			return errors.New("exit status 1")
		}
		return nil
	})

	_, err := b.EnsureBuilt(context.Background(), filepath.Join(b.buildDir, "benchmark"))
	require.Error(t, err)
	var be *apperr.BuildError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, "cmake", be.Step)
	assert.Contains(t, err.Error(), "compiler output")
	assert.Len(t, *calls, 1, "make is not attempted after cmake fails")
}

func TestEnsureBuilt_BinaryStillMissing(t *testing.T) {
	b, _ := fakeBuilder(t, "linux", nil)

	built, err := b.EnsureBuilt(context.Background(), filepath.Join(b.buildDir, "benchmark"))
	assert.True(t, built)
	var be *apperr.BuildError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, "verify", be.Step)
}

package build

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/DjordjeVuckovic/pipeline-sweep/internal/apperr"
)

type runFunc func(ctx context.Context, dir, name string, args ...string) ([]byte, error)

// Builder produces the pipeline binary with cmake and make when it is
// missing.
type Builder struct {
	buildDir  string
	sourceDir string
	goos      string
	run       runFunc
}

func New(buildDir, sourceDir string) *Builder {
	return &Builder{
		buildDir:  buildDir,
		sourceDir: sourceDir,
		goos:      runtime.GOOS,
		run:       runCommand,
	}
}

// EnsureBuilt reports whether a build ran. Platforms other than linux and
// darwin are a silent no-op; the missing binary surfaces at invocation.
func (b *Builder) EnsureBuilt(ctx context.Context, binary string) (bool, error) {
	if _, err := os.Stat(binary); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, &apperr.BuildError{Step: "stat", Err: err}
	}

	if b.goos != "linux" && b.goos != "darwin" {
		slog.Warn("automatic build not supported on this platform", "os", b.goos, "binary", binary)
		return false, nil
	}

	src, err := filepath.Abs(b.sourceDir)
	if err != nil {
		return false, &apperr.BuildError{Step: "resolve source dir", Err: err}
	}

	slog.Info("building pipeline binary", "build_dir", b.buildDir, "source_dir", src)
	if err := os.MkdirAll(b.buildDir, 0755); err != nil {
		return false, &apperr.BuildError{Step: "mkdir", Err: err}
	}

	steps := []struct {
		name string
		args []string
	}{
		{"cmake", []string{src}},
		{"make", nil},
	}
	for _, s := range steps {
		out, err := b.run(ctx, b.buildDir, s.name, s.args...)
		if err != nil {
			return false, &apperr.BuildError{Step: s.name, Err: withOutput(err, out)}
		}
	}

	if _, err := os.Stat(binary); err != nil {
		return true, &apperr.BuildError{Step: "verify", Err: err}
	}
	return true, nil
}

func runCommand(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

func withOutput(err error, out []byte) error {
	tail := strings.TrimSpace(string(out))
	if tail == "" {
		return err
	}
	if len(tail) > 2000 {
		tail = tail[len(tail)-2000:]
	}
	return fmt.Errorf("%w\n%s", err, tail)
}

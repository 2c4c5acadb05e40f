package baseline

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/pipeline-sweep/internal/apperr"
	"github.com/DjordjeVuckovic/pipeline-sweep/internal/sweep/pipeconfig"
	"github.com/disintegration/imaging"
)

var imageExts = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff"}

// Runner executes the reference implementation of the image pipeline in a
// single stream.
type Runner struct {
	rng *rand.Rand
}

// NewRunner seeds the runner. A zero seed uses the current time.
func NewRunner(seed int64) *Runner {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Runner{rng: rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1))}
}

// RunOnce processes every image doc.Iterations times and returns the elapsed
// wall time in microseconds. When inputDir is empty the document's
// image_paths are used. Output images are written as PNG to outputDir when it
// is set.
func (r *Runner) RunOnce(ctx context.Context, doc *pipeconfig.Document, inputDir, outputDir string) (float64, error) {
	entries, err := Compose(doc.Pipeline)
	if err != nil {
		return 0, err
	}

	paths, err := imagePaths(doc, inputDir)
	if err != nil {
		return 0, err
	}
	if len(paths) == 0 {
		slog.Warn("baseline has no input images", "input_dir", inputDir)
	}

	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return 0, fmt.Errorf("create baseline output dir: %w", err)
		}
	}

	iterations := max(doc.Iterations, 1)
	start := time.Now()
	processed := 0

	for i := 0; i < iterations; i++ {
		for _, p := range paths {
			if err := ctx.Err(); err != nil {
				return 0, err
			}

			img, err := load(p)
			if err != nil {
				slog.Warn("skipping unreadable image", "path", p, "error", err)
				continue
			}

			out, err := Process(img, entries, r.rng)
			if err != nil {
				return 0, fmt.Errorf("baseline %s: %w", p, err)
			}

			if outputDir != "" {
				name := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p)) + ".png"
				if err := imaging.Save(out, filepath.Join(outputDir, name)); err != nil {
					return 0, fmt.Errorf("save baseline output: %w", err)
				}
			}
			processed++
		}
	}

	elapsed := time.Since(start)
	if processed == 0 && len(paths) > 0 {
		slog.Warn("baseline could not read any input image", "candidates", len(paths))
	}

	slog.Debug("baseline pass finished", "iterations", iterations, "images", processed, "elapsed", elapsed)
	return float64(elapsed.Nanoseconds()) / 1e3, nil
}

func load(path string) (*image.NRGBA, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, err
	}
	return imaging.Clone(img), nil
}

func imagePaths(doc *pipeconfig.Document, inputDir string) ([]string, error) {
	if inputDir != "" {
		return listImages(inputDir)
	}

	raw, ok := doc.Passthrough("image_paths")
	if !ok {
		return nil, nil
	}
	var listed []string
	if err := json.Unmarshal(raw, &listed); err != nil {
		return nil, apperr.NewConfigWrap("image_paths must be a list of paths", err)
	}

	var paths []string
	for _, p := range listed {
		info, err := os.Stat(p)
		if err != nil {
			slog.Warn("skipping missing image path", "path", p, "error", err)
			continue
		}
		if info.IsDir() {
			found, err := listImages(p)
			if err != nil {
				return nil, err
			}
			paths = append(paths, found...)
			continue
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, apperr.NewConfigWrap("read baseline input dir", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if slices.Contains(imageExts, strings.ToLower(filepath.Ext(e.Name()))) {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	return paths, nil
}

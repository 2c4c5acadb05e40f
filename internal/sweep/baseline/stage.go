package baseline

import (
	"fmt"
	"image"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/DjordjeVuckovic/pipeline-sweep/internal/apperr"
	"github.com/DjordjeVuckovic/pipeline-sweep/internal/sweep/pipeconfig"
)

// Stage is one image transform of the reference pipeline.
type Stage interface {
	Name() string
	Apply(img *image.NRGBA, rng *rand.Rand) (*image.NRGBA, error)
}

// Entry pairs a stage with the probability that it fires on an image.
type Entry struct {
	Stage Stage
	Prob  float64
}

// Compose builds the transform chain for a pipeline description. Stage names
// the baseline does not know are skipped.
func Compose(specs []pipeconfig.StageSpec) ([]Entry, error) {
	entries := make([]Entry, 0, len(specs))
	for _, s := range specs {
		st, err := NewStage(s.Name, s.Params)
		if err != nil {
			return nil, err
		}
		if st == nil {
			slog.Debug("skipping unsupported baseline stage", "stage", s.Name)
			continue
		}
		entries = append(entries, Entry{Stage: st, Prob: s.Probability()})
	}
	return entries, nil
}

// NewStage returns nil, nil for an unrecognized name.
func NewStage(name string, params []float64) (Stage, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	n := len(params)

	switch key {
	case "rotate":
		if n != 3 {
			return nil, paramCount(name, "3", n)
		}
		if params[0] > params[1] {
			return nil, apperr.NewConfig("rotate: min angle cannot be greater than max angle")
		}
		mode := rotateMode(params[2])
		if mode < rotateNoCrop || mode > rotateFill {
			return nil, apperr.NewConfig(fmt.Sprintf("rotate: invalid rotation type %g", params[2]))
		}
		return &rotate{min: params[0], max: params[1], mode: mode}, nil

	case "reflect":
		if n != 0 {
			return nil, paramCount(name, "0", n)
		}
		return reflection{}, nil

	case "resize":
		switch n {
		case 2:
			if params[0] > params[1] || params[0] <= 0 {
				return nil, apperr.NewConfig("resize: invalid scale range")
			}
			return &resize{minScale: params[0], maxScale: params[1]}, nil
		case 4:
			r := &resize{minW: int(params[0]), maxW: int(params[1]), minH: int(params[2]), maxH: int(params[3]), absolute: true}
			if r.minW > r.maxW || r.minH > r.maxH || r.minW < 1 || r.minH < 1 {
				return nil, apperr.NewConfig("resize: invalid dimension range")
			}
			return r, nil
		}
		return nil, paramCount(name, "2 or 4", n)

	case "crop":
		switch n {
		case 2:
			if params[0] < 0 || params[1] < 0 {
				return nil, apperr.NewConfig("crop: cannot crop by negative dimensions")
			}
			return &crop{w: int(params[0]), h: int(params[1]), random: true}, nil
		case 4:
			for _, p := range params {
				if p < 0 {
					return nil, apperr.NewConfig("crop: all parameters must be positive")
				}
			}
			return &crop{x: int(params[0]), y: int(params[1]), w: int(params[2]), h: int(params[3])}, nil
		}
		return nil, paramCount(name, "2 or 4", n)

	case "color jitter":
		if n != 4 {
			return nil, paramCount(name, "4", n)
		}
		for _, p := range params {
			if p < 0 {
				return nil, apperr.NewConfig("color jitter: ranges must not be negative")
			}
		}
		return &colorJitter{brightness: params[0], contrast: params[1], saturation: params[2], hue: int(params[3])}, nil

	case "histogram equalization":
		if n != 0 {
			return nil, paramCount(name, "0", n)
		}
		return histogramEqualization{}, nil

	case "white balance":
		if n != 0 {
			return nil, paramCount(name, "0", n)
		}
		return whiteBalance{}, nil

	case "to grayscale":
		if n != 0 {
			return nil, paramCount(name, "0", n)
		}
		return grayscale{}, nil

	case "adjust brightness", "adjust contrast", "adjust saturation":
		if n != 2 {
			return nil, paramCount(name, "2", n)
		}
		if params[0] > params[1] {
			return nil, apperr.NewConfig(key + ": min value cannot be greater than max value")
		}
		r := valueRange{min: params[0], max: params[1]}
		switch key {
		case "adjust brightness":
			return brightness{r}, nil
		case "adjust contrast":
			return contrast{r}, nil
		}
		return saturation{r}, nil

	case "adjust hue":
		if n != 2 {
			return nil, paramCount(name, "2", n)
		}
		if params[0] > params[1] {
			return nil, apperr.NewConfig("adjust hue: min value cannot be greater than max value")
		}
		return &hue{min: int(params[0]), max: int(params[1])}, nil

	case "inject noise":
		switch n {
		case 0:
			return &noise{mean: valueRange{-10, 10}, stdev: valueRange{0, 20}}, nil
		case 4:
			if params[0] > params[1] || params[2] > params[3] || params[2] < 0 {
				return nil, apperr.NewConfig("inject noise: invalid mean or deviation range")
			}
			return &noise{mean: valueRange{params[0], params[1]}, stdev: valueRange{params[2], params[3]}}, nil
		}
		return nil, paramCount(name, "0 or 4", n)

	case "blur image":
		switch n {
		case 0:
			return &blur{minK: 3, maxK: 9}, nil
		case 2:
			if params[0] > params[1] {
				return nil, apperr.NewConfig("blur image: min kernel cannot be greater than max kernel")
			}
			return &blur{minK: int(params[0]), maxK: int(params[1])}, nil
		}
		return nil, paramCount(name, "0 or 2", n)

	case "sharpen image":
		if n != 0 {
			return nil, paramCount(name, "0", n)
		}
		return sharpen{}, nil

	case "random erase":
		switch n {
		case 0:
			return &erase{minH: 1, maxH: 10, minW: 1, maxW: 10}, nil
		case 4:
			e := &erase{minH: int(params[0]), maxH: int(params[1]), minW: int(params[2]), maxW: int(params[3])}
			if e.minH > e.maxH || e.minW > e.maxW || e.maxH < 0 || e.maxW < 0 {
				return nil, apperr.NewConfig("random erase: invalid size range")
			}
			return e, nil
		}
		return nil, paramCount(name, "0 or 4", n)
	}

	return nil, nil
}

func paramCount(name, want string, got int) error {
	return apperr.NewConfig(fmt.Sprintf("stage %q takes %s parameters, got %d", name, want, got))
}

// Process runs img through every entry whose probability draw fires.
func Process(img *image.NRGBA, entries []Entry, rng *rand.Rand) (*image.NRGBA, error) {
	var err error
	for _, e := range entries {
		if e.Prob <= 0 || rng.Float64() > e.Prob {
			continue
		}
		img, err = e.Stage.Apply(img, rng)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Stage.Name(), err)
		}
	}
	return img, nil
}

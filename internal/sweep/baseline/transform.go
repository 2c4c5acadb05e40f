package baseline

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"math/rand/v2"

	"github.com/disintegration/imaging"
)

type valueRange struct {
	min, max float64
}

func (r valueRange) draw(rng *rand.Rand) float64 {
	if r.max <= r.min {
		return r.min
	}
	return r.min + rng.Float64()*(r.max-r.min)
}

func intBetween(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.IntN(hi-lo+1)
}

type rotateMode int

const (
	rotateNoCrop rotateMode = iota
	rotateCrop
	rotateFill
)

type rotate struct {
	min, max float64
	mode     rotateMode
}

func (r *rotate) Name() string { return "rotate" }

func (r *rotate) Apply(img *image.NRGBA, rng *rand.Rand) (*image.NRGBA, error) {
	angle := valueRange{r.min, r.max}.draw(rng)
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	rotated := imaging.Rotate(img, angle, color.Black)

	switch r.mode {
	case rotateCrop:
		cw, ch := maxInscribedRect(float64(w), float64(h), angle)
		return imaging.CropCenter(rotated, cw, ch), nil
	case rotateFill:
		return imaging.CropCenter(rotated, w, h), nil
	}
	return rotated, nil
}

// maxInscribedRect is the largest axis-aligned rectangle that fits inside a
// w×h rectangle rotated by deg degrees.
func maxInscribedRect(w, h, deg float64) (int, int) {
	rad := deg * math.Pi / 180
	sinA, cosA := math.Abs(math.Sin(rad)), math.Abs(math.Cos(rad))

	widthLonger := w >= h
	long, short := w, h
	if !widthLonger {
		long, short = h, w
	}

	var wr, hr float64
	if short <= 2*sinA*cosA*long || math.Abs(sinA-cosA) < 1e-10 {
		x := 0.5 * short
		if widthLonger {
			wr, hr = x/sinA, x/cosA
		} else {
			wr, hr = x/cosA, x/sinA
		}
	} else {
		cos2A := cosA*cosA - sinA*sinA
		wr = (w*cosA - h*sinA) / cos2A
		hr = (h*cosA - w*sinA) / cos2A
	}
	return max(int(wr), 1), max(int(hr), 1)
}

type reflection struct{}

func (reflection) Name() string { return "reflect" }

func (reflection) Apply(img *image.NRGBA, rng *rand.Rand) (*image.NRGBA, error) {
	if rng.IntN(2) == 0 {
		return imaging.FlipV(img), nil
	}
	return imaging.FlipH(img), nil
}

type resize struct {
	minScale, maxScale     float64
	minW, maxW, minH, maxH int
	absolute               bool
}

func (r *resize) Name() string { return "resize" }

func (r *resize) Apply(img *image.NRGBA, rng *rand.Rand) (*image.NRGBA, error) {
	var w, h int
	if r.absolute {
		w = intBetween(rng, r.minW, r.maxW)
		h = intBetween(rng, r.minH, r.maxH)
	} else {
		scale := valueRange{r.minScale, r.maxScale}.draw(rng)
		w = int(math.Round(float64(img.Bounds().Dx()) * scale))
		h = int(math.Round(float64(img.Bounds().Dy()) * scale))
	}
	return imaging.Resize(img, max(w, 1), max(h, 1), imaging.Linear), nil
}

type crop struct {
	x, y, w, h int
	random     bool
}

func (c *crop) Name() string { return "crop" }

func (c *crop) Apply(img *image.NRGBA, rng *rand.Rand) (*image.NRGBA, error) {
	bounds := img.Bounds()
	if c.w > bounds.Dx() || c.h > bounds.Dy() {
		return nil, fmt.Errorf("crop size %dx%d exceeds image %dx%d", c.w, c.h, bounds.Dx(), bounds.Dy())
	}

	x, y := c.x, c.y
	if c.random {
		x = rng.IntN(bounds.Dx() - c.w + 1)
		y = rng.IntN(bounds.Dy() - c.h + 1)
	}
	rect := image.Rect(x, y, x+c.w, y+c.h)
	if !rect.In(bounds) {
		return nil, fmt.Errorf("crop region %v is outside image %v", rect, bounds)
	}
	return imaging.Crop(img, rect), nil
}

type colorJitter struct {
	brightness, contrast, saturation float64
	hue                              int
}

func (c *colorJitter) Name() string { return "color jitter" }

func (c *colorJitter) Apply(img *image.NRGBA, rng *rand.Rand) (*image.NRGBA, error) {
	shift := valueRange{-c.brightness, c.brightness}.draw(rng)
	scale := valueRange{1 - c.contrast, 1 + c.contrast}.draw(rng)
	sat := valueRange{1 - c.saturation, 1 + c.saturation}.draw(rng)
	hueShift := intBetween(rng, -c.hue, c.hue)

	img = linear(img, 1, shift)
	img = linear(img, scale, 0)
	return adjustHSV(img, sat, hueShift), nil
}

type histogramEqualization struct{}

func (histogramEqualization) Name() string { return "histogram equalization" }

func (histogramEqualization) Apply(img *image.NRGBA, _ *rand.Rand) (*image.NRGBA, error) {
	return equalize(img), nil
}

type whiteBalance struct{}

func (whiteBalance) Name() string { return "white balance" }

func (whiteBalance) Apply(img *image.NRGBA, _ *rand.Rand) (*image.NRGBA, error) {
	return balance(img), nil
}

type grayscale struct{}

func (grayscale) Name() string { return "to grayscale" }

func (grayscale) Apply(img *image.NRGBA, _ *rand.Rand) (*image.NRGBA, error) {
	return imaging.Grayscale(img), nil
}

type brightness struct{ r valueRange }

func (brightness) Name() string { return "adjust brightness" }

func (b brightness) Apply(img *image.NRGBA, rng *rand.Rand) (*image.NRGBA, error) {
	return linear(img, 1, b.r.draw(rng)), nil
}

type contrast struct{ r valueRange }

func (contrast) Name() string { return "adjust contrast" }

func (c contrast) Apply(img *image.NRGBA, rng *rand.Rand) (*image.NRGBA, error) {
	return linear(img, c.r.draw(rng), 0), nil
}

type saturation struct{ r valueRange }

func (saturation) Name() string { return "adjust saturation" }

func (s saturation) Apply(img *image.NRGBA, rng *rand.Rand) (*image.NRGBA, error) {
	return adjustHSV(img, s.r.draw(rng), 0), nil
}

// hue shifts are in half-degree steps, so 90 is a 180° rotation.
type hue struct {
	min, max int
}

func (h *hue) Name() string { return "adjust hue" }

func (h *hue) Apply(img *image.NRGBA, rng *rand.Rand) (*image.NRGBA, error) {
	return adjustHSV(img, 1, intBetween(rng, h.min, h.max)), nil
}

type noise struct {
	mean, stdev valueRange
}

func (n *noise) Name() string { return "inject noise" }

func (n *noise) Apply(img *image.NRGBA, rng *rand.Rand) (*image.NRGBA, error) {
	mean := n.mean.draw(rng)
	stdev := n.stdev.draw(rng)

	out := imaging.Clone(img)
	for i := 0; i < len(out.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			v := float64(out.Pix[i+c]) + rng.NormFloat64()*stdev + mean
			out.Pix[i+c] = clamp8(v)
		}
	}
	return out, nil
}

type blur struct {
	minK, maxK int
}

func (b *blur) Name() string { return "blur image" }

func (b *blur) Apply(img *image.NRGBA, rng *rand.Rand) (*image.NRGBA, error) {
	k := intBetween(rng, b.minK, b.maxK)
	if k%2 == 0 {
		k++
	}
	if k <= 1 {
		return img, nil
	}
	return imaging.Blur(img, kernelSigma(k)), nil
}

// kernelSigma is the gaussian sigma matching a k×k kernel.
func kernelSigma(k int) float64 {
	return 0.3*(float64(k-1)*0.5-1) + 0.8
}

type sharpen struct{}

func (sharpen) Name() string { return "sharpen image" }

var laplacianSharpen = [9]float64{
	0, -1, 0,
	-1, 5, -1,
	0, -1, 0,
}

func (sharpen) Apply(img *image.NRGBA, _ *rand.Rand) (*image.NRGBA, error) {
	return imaging.Convolve3x3(img, laplacianSharpen, nil), nil
}

type erase struct {
	minH, maxH, minW, maxW int
}

func (e *erase) Name() string { return "random erase" }

func (e *erase) Apply(img *image.NRGBA, rng *rand.Rand) (*image.NRGBA, error) {
	eh := intBetween(rng, e.minH, e.maxH)
	ew := intBetween(rng, e.minW, e.maxW)
	bounds := img.Bounds()
	if eh <= 0 || ew <= 0 || eh > bounds.Dy() || ew > bounds.Dx() {
		return img, nil
	}

	x := rng.IntN(bounds.Dx() - ew + 1)
	y := rng.IntN(bounds.Dy() - eh + 1)
	patch := imaging.New(ew, eh, color.NRGBA{A: 255})
	return imaging.Paste(img, patch, image.Pt(bounds.Min.X+x, bounds.Min.Y+y)), nil
}

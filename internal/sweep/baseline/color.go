package baseline

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

func clamp8(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// linear maps every color channel c to c*alpha+beta.
func linear(img *image.NRGBA, alpha, beta float64) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{
			R: clamp8(float64(c.R)*alpha + beta),
			G: clamp8(float64(c.G)*alpha + beta),
			B: clamp8(float64(c.B)*alpha + beta),
			A: c.A,
		}
	})
}

// adjustHSV scales saturation by satScale and rotates hue by hueSteps
// half-degrees.
func adjustHSV(img *image.NRGBA, satScale float64, hueSteps int) *image.NRGBA {
	shift := float64(hueSteps * 2)
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		h, s, v := rgbToHSV(c.R, c.G, c.B)
		h = wrapHue(h + shift)
		s = math.Min(s*satScale, 1)
		r, g, b := hsvToRGB(h, s, v)
		return color.NRGBA{R: r, G: g, B: b, A: c.A}
	})
}

// wrapHue maps any angle into [0, 360).
func wrapHue(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return h
}

func rgbToHSV(r8, g8, b8 uint8) (h, s, v float64) {
	r, g, b := float64(r8)/255, float64(g8)/255, float64(b8)/255
	mx := math.Max(r, math.Max(g, b))
	mn := math.Min(r, math.Min(g, b))
	d := mx - mn

	v = mx
	if mx > 0 {
		s = d / mx
	}
	if d == 0 {
		return 0, s, v
	}
	switch mx {
	case r:
		h = 60 * math.Mod((g-b)/d, 6)
	case g:
		h = 60 * ((b-r)/d + 2)
	default:
		h = 60 * ((r-g)/d + 4)
	}
	if h < 0 {
		h += 360
	}
	return h, s, v
}

func hsvToRGB(h, s, v float64) (uint8, uint8, uint8) {
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return clamp8((r + m) * 255), clamp8((g + m) * 255), clamp8((b + m) * 255)
}

func luma(c color.NRGBA) float64 {
	return 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
}

// equalize spreads the luma histogram over the full range while keeping
// chroma, which is the same as equalizing Y in YCrCb space.
func equalize(img *image.NRGBA) *image.NRGBA {
	hist := imaging.Histogram(img)

	var lut [256]float64
	var cdf, cdfMin float64
	for i, p := range hist {
		cdf += p
		if cdfMin == 0 && p > 0 {
			cdfMin = cdf
		}
		if 1-cdfMin > 1e-9 {
			lut[i] = math.Round((cdf - cdfMin) / (1 - cdfMin) * 255)
		} else {
			lut[i] = float64(i)
		}
	}

	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		y := luma(c)
		delta := lut[clamp8(y)] - y
		return color.NRGBA{
			R: clamp8(float64(c.R) + delta),
			G: clamp8(float64(c.G) + delta),
			B: clamp8(float64(c.B) + delta),
			A: c.A,
		}
	})
}

// balance applies the gray-world assumption: each channel is scaled so its
// mean matches the mean of all three.
func balance(img *image.NRGBA) *image.NRGBA {
	var sum [3]float64
	n := len(img.Pix) / 4
	if n == 0 {
		return img
	}
	for i := 0; i < len(img.Pix); i += 4 {
		sum[0] += float64(img.Pix[i])
		sum[1] += float64(img.Pix[i+1])
		sum[2] += float64(img.Pix[i+2])
	}
	gray := (sum[0] + sum[1] + sum[2]) / 3

	var scale [3]float64
	for i, s := range sum {
		scale[i] = 1
		if s > 0 {
			scale[i] = gray / s
		}
	}

	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{
			R: clamp8(float64(c.R) * scale[0]),
			G: clamp8(float64(c.G) * scale[1]),
			B: clamp8(float64(c.B) * scale[2]),
			A: c.A,
		}
	})
}

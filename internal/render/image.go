package render

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/pingline/pingline/internal/probe"
)

// Bar geometry for the PNG histogram. A 60-sample window renders 180px wide,
// narrow enough for a menu-bar or status-bar slot.
const (
	BarWidth  = 3
	BarHeight = 18
)

var (
	barColor  = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	warnColor = color.NRGBA{R: 255, A: 255}
)

// Histogram renders samples as vertical bars on a transparent background,
// oldest to newest left to right. Normal round trips draw white bars scaled
// to the latency range with a 1px floor so every sample is visible; failures
// and over-range values draw full-height red bars. An empty window returns
// nil.
func Histogram(samples []probe.Sample, sc Scale) image.Image {
	if len(samples) == 0 {
		return nil
	}

	img := image.NewNRGBA(image.Rect(0, 0, len(samples)*BarWidth, BarHeight))

	for i, s := range samples {
		h, c := barFor(s, sc)
		x0 := i * BarWidth
		for y := BarHeight - h; y < BarHeight; y++ {
			for x := x0; x < x0+BarWidth; x++ {
				img.SetNRGBA(x, y, c)
			}
		}
	}
	return img
}

// barFor returns the pixel height and colour for one sample.
func barFor(s probe.Sample, sc Scale) (int, color.NRGBA) {
	if !s.OK || s.RTT >= sc.Max {
		return BarHeight, warnColor
	}
	h := int(math.Round(sc.Normalize(s.RTT) * BarHeight))
	if h < 1 {
		h = 1
	}
	return h, barColor
}

// EncodePNG writes img to w as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

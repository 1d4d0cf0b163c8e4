// Package metrics computes diagnostic image-quality statistics over a
// watermark's luminance delta. None of it participates in embed, extract
// or verify; it exists so callers (notably the CLI's report subcommand)
// can quantify how invisible a given watermark actually was.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/rastermark/rastermark/internal/luma"
)

// Report summarizes the luminance difference between an original and a
// watermarked image of identical dimensions.
type Report struct {
	MeanAbsDelta float64
	StdDevDelta  float64
	PSNR         float64 // decibels; +Inf when the two images are identical
}

// Compute derives a Report from original and watermarked, which must have
// equal dimensions. It panics if their luminance planes differ in length,
// since that indicates a programming error at the call site, not bad
// input data (callers are expected to validate shape before calling).
func Compute(original, watermarked *luma.Pixels) Report {
	origY := luma.Plane(original)
	wmY := luma.Plane(watermarked)
	if len(origY) != len(wmY) {
		panic("metrics: original and watermarked planes differ in length")
	}

	deltas := make([]float64, len(origY))
	squared := make([]float64, len(origY))
	for i := range origY {
		d := float64(wmY[i] - origY[i])
		deltas[i] = math.Abs(d)
		squared[i] = d * d
	}

	mean, stddev := stat.MeanStdDev(deltas, nil)
	mse := stat.Mean(squared, nil)

	psnr := math.Inf(1)
	if mse > 0 {
		psnr = 10 * math.Log10(255*255/mse)
	}

	return Report{MeanAbsDelta: mean, StdDevDelta: stddev, PSNR: psnr}
}

// Package overlay draws a translucent, human-readable payload label onto
// pixels. It is purely cosmetic: the codec never reads overlay output, and
// overlaid pixels are expected to carry a watermark embedded before the
// overlay is drawn, not after.
package overlay

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/rastermark/rastermark/internal/luma"
)

// Anchor names a corner of the image to anchor overlay text against.
type Anchor int

const (
	AnchorBottomRight Anchor = iota
	AnchorBottomLeft
	AnchorTopRight
	AnchorTopLeft
)

const margin = 8

// Draw renders text onto a copy of pixels at anchor, at the given opacity
// in [0,1], and returns the result. pixels is not modified.
func Draw(pixels *luma.Pixels, text string, anchor Anchor, opacity float64) *luma.Pixels {
	out := pixels.Clone()
	if text == "" {
		return out
	}
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}

	img := image.NewNRGBA(image.Rect(0, 0, out.Width, out.Height))
	copy(img.Pix, out.Data)

	face := basicfont.Face7x13
	textWidth := font.MeasureString(face, text).Ceil()
	textHeight := face.Metrics().Height.Ceil()

	x, y := originFor(anchor, out.Width, out.Height, textWidth, textHeight)

	alpha := uint8(opacity * 255)
	labelColor := color.NRGBA{R: 255, G: 255, B: 255, A: alpha}

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(labelColor),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)

	copy(out.Data, img.Pix)
	return out
}

func originFor(anchor Anchor, w, h, textWidth, textHeight int) (x, y int) {
	switch anchor {
	case AnchorBottomLeft:
		return margin, h - margin
	case AnchorTopRight:
		return w - textWidth - margin, margin + textHeight
	case AnchorTopLeft:
		return margin, margin + textHeight
	default: // AnchorBottomRight
		return w - textWidth - margin, h - margin
	}
}

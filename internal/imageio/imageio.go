// Package imageio adapts compressed image bytes to and from the
// internal/luma.Pixels buffer the codec operates on. It is the "Adapter
// contract — image I/O" of the specification: everything container- or
// format-specific lives here, never in the codec.
package imageio

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/webp"

	"github.com/rastermark/rastermark/internal/luma"
)

// MimePNG, MimeJPEG and MimeWebP are the three target encodings the
// encoder contract names.
const (
	MimePNG  = "image/png"
	MimeJPEG = "image/jpeg"
	MimeWebP = "image/webp"
)

// DefaultJPEGQuality is JPEG_QUALITY from the tunable constants (not
// wire-exposed): 0.92 on the spec's [0,1] scale.
const DefaultJPEGQuality = 0.92

// Decode converts container bytes of any supported format (PNG, JPEG or
// WebP) into a luma.Pixels buffer in straight alpha, row-major order. WebP
// input decodes; encoding back to WebP is not supported (see Encode). ctx
// is honored only at entry: the decode call below is not itself
// cancellable, matching spec.md §5 ("the DCT pipeline runs to completion
// once started") extended to this adapter's own decode step.
func Decode(ctx context.Context, data []byte) (*luma.Pixels, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if webpImg, werr := webp.Decode(bytes.NewReader(data)); werr == nil {
			img = webpImg
		} else {
			return nil, fmt.Errorf("decode: %w", err)
		}
	}
	return fromImage(img), nil
}

// Encode serializes pixels to the target MIME type. quality is on the
// spec's [0,1] scale and is only consulted for image/jpeg; image/webp
// encoding is unsupported by the adapters wired into this module and
// always fails. ctx is honored only at entry, for the same reason as
// Decode.
func Encode(ctx context.Context, pixels *luma.Pixels, mimeType string, quality float64) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	if !pixels.Valid() {
		return nil, fmt.Errorf("encode: pixel buffer length %d does not match %d*%d*4", len(pixels.Data), pixels.Width, pixels.Height)
	}

	img := toImage(pixels)
	var buf bytes.Buffer

	switch mimeType {
	case MimePNG:
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode png: %w", err)
		}
	case MimeJPEG:
		q := int(quality * 100)
		if q < 1 {
			q = 1
		}
		if q > 100 {
			q = 100
		}
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: q}); err != nil {
			return nil, fmt.Errorf("encode jpeg: %w", err)
		}
	case MimeWebP:
		return nil, fmt.Errorf("encode webp: no writer available; decode-only support")
	default:
		return nil, fmt.Errorf("encode: unsupported mime type %q", mimeType)
	}

	return buf.Bytes(), nil
}

func fromImage(img image.Image) *luma.Pixels {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	data := make([]byte, w*h*4)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			off := (y*w + x) * 4
			data[off] = c.R
			data[off+1] = c.G
			data[off+2] = c.B
			data[off+3] = c.A
		}
	}

	return &luma.Pixels{Width: w, Height: h, Data: data}
}

func toImage(pixels *luma.Pixels) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, pixels.Width, pixels.Height))
	copy(img.Pix, pixels.Data)
	return img
}

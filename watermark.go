package rastermark

import (
	"context"
	"encoding/hex"
	"time"

	"github.com/rs/zerolog"

	"github.com/rastermark/rastermark/internal/codec"
	"github.com/rastermark/rastermark/internal/fingerprint"
	"github.com/rastermark/rastermark/internal/imageio"
	"github.com/rastermark/rastermark/internal/overlay"
	"github.com/rastermark/rastermark/internal/telemetry"
)

// logExit emits the exit-side structured log event every exported
// operation produces (duration, dimensions, error-or-nil) and returns err
// unchanged, so call sites can write `return nil, logExit(...)`. The
// correlation ID is already a field on logger (attached by
// telemetry.EnsureRequest), so it is not repeated here.
func logExit(logger *zerolog.Logger, op string, _ string, start time.Time, width, height int, err error) error {
	event := logger.Info()
	if err != nil {
		event = logger.Error()
	}
	event.
		Str("op", op).
		Dur("duration", time.Since(start)).
		Int("width", width).
		Int("height", height).
		AnErr("error", err).
		Msg("done")
	return err
}

// DefaultThreshold is MATCH_THRESHOLD from the spec's tunable constants.
const DefaultThreshold = 0.85

// DefaultJPEGQuality is JPEG_QUALITY, on the [0,1] scale the spec uses.
const DefaultJPEGQuality = imageio.DefaultJPEGQuality

// debugSeedPayload is the fixed string Extract hashes to derive its
// diagnostic-only seed; it is never used by Watermark or Verify.
const debugSeedPayload = "dummy"

// VisibleOptions configures the cosmetic, non-verifying text overlay
// Watermark may draw after embedding.
type VisibleOptions struct {
	Text    string
	Anchor  overlay.Anchor
	Opacity float64 // [0,1], default 0.5 when Text is non-empty and Opacity is zero
}

// Options configures Watermark.
type Options struct {
	// MimeType selects the output encoding; one of imageio.MimePNG,
	// imageio.MimeJPEG, imageio.MimeWebP. Defaults to imageio.MimePNG.
	// WebP output is unsupported and always returns an EncodeFailure.
	MimeType string
	// JPEGQuality is on [0,1] and only consulted for MimeType ==
	// imageio.MimeJPEG. Defaults to DefaultJPEGQuality.
	JPEGQuality float64
	// Visible, if non-nil, draws a cosmetic overlay after embedding. It
	// never affects verification.
	Visible *VisibleOptions
}

// Result is the output of Watermark.
type Result struct {
	Blob     []byte
	Width    int
	Height   int
	MimeType string
}

// VerifyOptions configures Verify.
type VerifyOptions struct {
	// Threshold is the minimum confidence to count as a match, on
	// [0,1]. Defaults to DefaultThreshold.
	Threshold float64
}

// VerifyResult is the output of Verify.
type VerifyResult struct {
	IsMatch            bool
	Confidence         float64
	RecoveredDigestHex string
}

// ExtractResult is the output of the debug-only Extract operation.
type ExtractResult struct {
	DigestHex  string
	Confidence float64
}

// Watermark decodes image, embeds a digest derived from payload into its
// luminance plane, optionally draws a cosmetic overlay, and re-encodes the
// result per opts. ctx bounds the adapter I/O stages (decode/encode); the
// core transform itself never observes it.
func Watermark(ctx context.Context, image []byte, payload string, opts *Options) (*Result, error) {
	ctx, logger, id := telemetry.EnsureRequest(ctx)
	start := time.Now()
	logger.Info().Str("op", "Watermark").Msg("start")

	if opts == nil {
		opts = &Options{}
	}
	mimeType := opts.MimeType
	if mimeType == "" {
		mimeType = imageio.MimePNG
	}
	quality := opts.JPEGQuality
	if quality == 0 {
		quality = DefaultJPEGQuality
	}

	pixels, err := imageio.Decode(ctx, image)
	if err != nil {
		return nil, logExit(logger, "Watermark", id, start, 0, 0, newError("Watermark", KindDecodeFailure, err))
	}
	if !pixels.Valid() || pixels.Width == 0 || pixels.Height == 0 {
		return nil, logExit(logger, "Watermark", id, start, pixels.Width, pixels.Height, newError("Watermark", KindInputShape, nil))
	}

	digest := fingerprint.Derive(payload)
	watermarked := codec.Embed(pixels, digest)

	if opts.Visible != nil && opts.Visible.Text != "" {
		opacity := opts.Visible.Opacity
		if opacity == 0 {
			opacity = 0.5
		}
		watermarked = overlay.Draw(watermarked, opts.Visible.Text, opts.Visible.Anchor, opacity)
	}

	blob, err := imageio.Encode(ctx, watermarked, mimeType, quality)
	if err != nil {
		return nil, logExit(logger, "Watermark", id, start, watermarked.Width, watermarked.Height, newError("Watermark", KindEncodeFailure, err))
	}

	result := &Result{
		Blob:     blob,
		Width:    watermarked.Width,
		Height:   watermarked.Height,
		MimeType: mimeType,
	}
	return result, logExit(logger, "Watermark", id, start, result.Width, result.Height, nil)
}

// Verify decodes image, extracts under the schedule derived from payload,
// and reports whether the recovered digest matches byte-for-byte at or
// above opts.Threshold. It never fails for "watermark not found": that
// case is IsMatch == false with a low Confidence. An input that cannot be
// decoded is a DecodeFailure, not a negative match. ctx bounds the decode
// stage only.
func Verify(ctx context.Context, image []byte, payload string, opts *VerifyOptions) (*VerifyResult, error) {
	ctx, logger, id := telemetry.EnsureRequest(ctx)
	start := time.Now()
	logger.Info().Str("op", "Verify").Msg("start")

	if opts == nil {
		opts = &VerifyOptions{}
	}
	threshold := opts.Threshold
	if threshold == 0 {
		threshold = DefaultThreshold
	}

	pixels, err := imageio.Decode(ctx, image)
	if err != nil {
		return nil, logExit(logger, "Verify", id, start, 0, 0, newError("Verify", KindDecodeFailure, err))
	}
	if !pixels.Valid() || pixels.Width == 0 || pixels.Height == 0 {
		return nil, logExit(logger, "Verify", id, start, pixels.Width, pixels.Height, newError("Verify", KindInputShape, nil))
	}

	expected := fingerprint.Derive(payload)
	bits, confidence := codec.Extract(pixels, expected)
	recovered := fingerprint.FromBits(bits)

	result := &VerifyResult{
		IsMatch:            confidence >= threshold && recovered.Equal(expected),
		Confidence:         confidence,
		RecoveredDigestHex: hex.EncodeToString(recovered.Bytes()),
	}
	return result, logExit(logger, "Verify", id, start, pixels.Width, pixels.Height, nil)
}

// Extract runs the extractor against a fixed diagnostic seed (the salted
// hash of "dummy"), independent of any real payload. It exists for
// debugging the codec pipeline, not for verification: callers who want a
// real match/no-match answer must use Verify. ctx bounds the decode stage
// only.
func Extract(ctx context.Context, image []byte) (*ExtractResult, error) {
	ctx, logger, id := telemetry.EnsureRequest(ctx)
	start := time.Now()
	logger.Info().Str("op", "Extract").Msg("start")

	pixels, err := imageio.Decode(ctx, image)
	if err != nil {
		return nil, logExit(logger, "Extract", id, start, 0, 0, newError("Extract", KindDecodeFailure, err))
	}
	if !pixels.Valid() || pixels.Width == 0 || pixels.Height == 0 {
		return nil, logExit(logger, "Extract", id, start, pixels.Width, pixels.Height, newError("Extract", KindInputShape, nil))
	}

	seed := fingerprint.Derive(debugSeedPayload)
	bits, confidence := codec.Extract(pixels, seed)
	recovered := fingerprint.FromBits(bits)

	result := &ExtractResult{
		DigestHex:  hex.EncodeToString(recovered.Bytes()),
		Confidence: confidence,
	}
	return result, logExit(logger, "Extract", id, start, pixels.Width, pixels.Height, nil)
}

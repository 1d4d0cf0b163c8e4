// Package rastermark implements an invisible digital watermarking engine
// for raster images. It embeds a short, fixed-length fingerprint derived
// from an arbitrary payload into the frequency domain of an image so that
// the result is visually indistinguishable from the input, and so the
// fingerprint can later be recovered from a possibly re-encoded copy with
// a confidence score against an expected payload.
//
// The three exported operations — Watermark, Verify and Extract — are the
// only entry points a caller needs; everything under internal/ is plumbing
// a conforming reimplementation in another language does not need to
// expose the same way, but must reproduce bit-exactly to interoperate:
// the salted digest, the repetition code, the PRNG sequence, the 8x8 DCT,
// and the sign-voting extractor.
package rastermark

// Package codec wires fingerprint, ecc, prng, scheduler and transform
// together into the two core operations of the watermarking engine: Embed
// and Extract. Both are pure functions of (pixels, digest) — no state
// persists between calls, and both are reentrant.
package codec

import (
	"github.com/rastermark/rastermark/internal/ecc"
	"github.com/rastermark/rastermark/internal/fingerprint"
	"github.com/rastermark/rastermark/internal/luma"
	"github.com/rastermark/rastermark/internal/prng"
	"github.com/rastermark/rastermark/internal/scheduler"
	"github.com/rastermark/rastermark/internal/transform"
)

// EmbeddingStrength is the magnitude floor imposed on a selected
// coefficient at embed time. It is a calibration parameter, not part of
// the wire contract: changing it trades invisibility against recoverable
// confidence, but does not change what any conforming extractor computes
// for a coefficient it was not used to set.
const EmbeddingStrength = 12.0

// sample is one (coefficient index, target bit) pair scheduled into a
// single block.
type sample struct {
	coeffIdx int
	bit      int
}

// Embed watermarks pixels with digest and returns a new Pixels of the same
// dimensions. totalBlocks = floor(W/8)*floor(H/8); if it is zero (W<8 or
// H<8), no embedding occurs and the output is the luminance round-trip of
// the input (the identity, in practice).
func Embed(pixels *luma.Pixels, digest fingerprint.Digest) *luma.Pixels {
	w, h := pixels.Width, pixels.Height
	bw, bh := w/transform.Size, h/transform.Size
	totalBlocks := bw * bh

	originalY := luma.Plane(pixels)
	processedY := make([]float32, len(originalY))
	copy(processedY, originalY)

	out := pixels.Clone()

	if totalBlocks > 0 {
		coded := ecc.Encode(rawBits(digest))
		buckets := scheduleSamples(digest, totalBlocks, coded)

		for by := 0; by < bh; by++ {
			for bx := 0; bx < bw; bx++ {
				blockIdx := by*bw + bx
				samples, ok := buckets[blockIdx]

				block := luma.BlockAt(originalY, w, h, bx, by)
				dctBlock := transform.Forward(block)

				if ok {
					applySamples(&dctBlock, samples)
				}

				spatial := transform.Inverse(dctBlock)
				luma.PutBlockAt(processedY, w, h, bx, by, spatial)
			}
		}
	}

	luma.ApplyDelta(out, originalY, processedY)
	return out
}

// Extract reads pixels under the schedule derived from expected and
// returns the 64 recovered bits plus a confidence in [0,1].
func Extract(pixels *luma.Pixels, expected fingerprint.Digest) (bits []int, confidence float64) {
	w, h := pixels.Width, pixels.Height
	bw, bh := w/transform.Size, h/transform.Size
	totalBlocks := bw * bh

	soft := make([]float64, ecc.CodedBits)
	if totalBlocks == 0 {
		// No block carries a vote: every soft value sits at the undecided
		// midpoint, so the decoded confidence is 0.
		for i := range soft {
			soft[i] = 0.5
		}
		return ecc.Decode(soft)
	}

	y := luma.Plane(pixels)
	rng := prng.New(expected.Bytes())
	sched := scheduler.New(rng, totalBlocks, ecc.CodedBits)

	votesSum := make([]float64, ecc.CodedBits)
	votesCount := make([]int, ecc.CodedBits)

	for bitIdx := 0; bitIdx < ecc.CodedBits; bitIdx++ {
		for s := 0; s < sched.BlocksPerBit; s++ {
			blockIdx := sched.NextBlock(totalBlocks)
			coeffIdx := sched.NextCoeff()

			bx := blockIdx % bw
			by := blockIdx / bw
			block := luma.BlockAt(y, w, h, bx, by)
			dctBlock := transform.Forward(block)

			u, v := scheduler.CoeffTable[coeffIdx][0], scheduler.CoeffTable[coeffIdx][1]
			vote := -1.0
			if dctBlock[u][v] > 0 {
				vote = 1.0
			}
			votesSum[bitIdx] += vote
			votesCount[bitIdx]++
		}
	}

	for i := 0; i < ecc.CodedBits; i++ {
		avg := votesSum[i] / float64(votesCount[i])
		soft[i] = (avg + 1) / 2
	}

	return ecc.Decode(soft)
}

func rawBits(d fingerprint.Digest) []int {
	bits := make([]int, ecc.RawBits)
	for i := range bits {
		bits[i] = d.Bit(i)
	}
	return bits
}

// scheduleSamples replays the embed-time schedule once and buckets every
// (coefficient, target bit) sample under the block index that will carry
// it, so that per-block majority voting (spec.md §4.6) can run in a single
// pass over the block grid instead of re-deriving the schedule per block.
func scheduleSamples(digest fingerprint.Digest, totalBlocks int, coded []int) map[int][]sample {
	rng := prng.New(digest.Bytes())
	sched := scheduler.New(rng, totalBlocks, len(coded))

	buckets := make(map[int][]sample)
	for _, bit := range coded {
		for s := 0; s < sched.BlocksPerBit; s++ {
			blockIdx := sched.NextBlock(totalBlocks)
			coeffIdx := sched.NextCoeff()
			buckets[blockIdx] = append(buckets[blockIdx], sample{coeffIdx: coeffIdx, bit: bit})
		}
	}
	return buckets
}

// applySamples groups a block's scheduled samples by coefficient position,
// takes the majority bit per position (ties favor 0), and forces that
// coefficient's sign and magnitude floor in place.
func applySamples(block *transform.Block, samples []sample) {
	byCoeff := make(map[int][]int)
	for _, s := range samples {
		byCoeff[s.coeffIdx] = append(byCoeff[s.coeffIdx], s.bit)
	}

	for coeffIdx, bits := range byCoeff {
		sum := 0
		for _, b := range bits {
			sum += b
		}
		majority := 0
		if sum*2 > len(bits) {
			majority = 1
		}

		u, v := scheduler.CoeffTable[coeffIdx][0], scheduler.CoeffTable[coeffIdx][1]
		c := block[u][v]
		mag := c
		if mag < 0 {
			mag = -mag
		}
		if majority == 1 {
			block[u][v] = mag + EmbeddingStrength
		} else {
			block[u][v] = -(mag + EmbeddingStrength)
		}
	}
}

// Package scheduler derives, from a seeded PRNG, which DCT blocks and
// which mid-frequency coefficient inside each block carry every coded bit.
// Embed and extract must consume the PRNG stream in identical order for the
// scheme to be recoverable at all.
package scheduler

import "github.com/rastermark/rastermark/internal/prng"

// CoeffTable is the fixed 15-entry mid-frequency coefficient table. Order
// is part of the wire contract.
var CoeffTable = [15][2]int{
	{1, 2}, {2, 1}, {2, 2}, {3, 1}, {1, 3},
	{3, 2}, {2, 3}, {3, 3}, {4, 1}, {1, 4},
	{4, 2}, {2, 4}, {4, 3}, {3, 4}, {4, 4},
}

// Assignment is a consumable schedule of block indices and coefficient
// choices for one embed or extract call.
type Assignment struct {
	BlocksPerBit int
	// fixed, if non-nil, is the Fisher-Yates-derived block order; nil means
	// "draw per sample" (the fallback described in spec.md §4.4).
	fixed []int
	next  int
	rng   *prng.PRNG
}

// New builds the schedule for totalBlocks available 8x8 blocks and
// encodedLength coded bits, using rng as the (already-seeded) source of
// randomness. blocksPerBit = max(1, totalBlocks/encodedLength).
func New(rng *prng.PRNG, totalBlocks, encodedLength int) *Assignment {
	blocksPerBit := totalBlocks / encodedLength
	if blocksPerBit < 1 {
		blocksPerBit = 1
	}

	a := &Assignment{BlocksPerBit: blocksPerBit, rng: rng}

	need := blocksPerBit * encodedLength
	if totalBlocks > 0 && need <= totalBlocks {
		indices := make([]int, totalBlocks)
		for i := range indices {
			indices[i] = i
		}
		for i := totalBlocks - 1; i >= 1; i-- {
			j := int(rng.Next() * float64(i+1))
			indices[i], indices[j] = indices[j], indices[i]
		}
		a.fixed = indices[:need]
	}

	return a
}

// NextBlock returns the next block index to consume, in the fixed order if
// one was built, or by independent draw (with possible repeats) otherwise.
// totalBlocks must be the same value passed to New.
func (a *Assignment) NextBlock(totalBlocks int) int {
	if a.fixed != nil {
		idx := a.fixed[a.next]
		a.next++
		return idx
	}
	return a.rng.NextInt(totalBlocks)
}

// NextCoeff returns the next coefficient index into CoeffTable.
func (a *Assignment) NextCoeff() int {
	return a.rng.NextInt(len(CoeffTable))
}

package ecc_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rastermark/rastermark/internal/ecc"
)

func TestEncodeLength(t *testing.T) {
	raw := make([]int, ecc.RawBits)
	coded := ecc.Encode(raw)
	require.Len(t, coded, ecc.CodedBits)
}

func TestRoundTripPerfectSignal(t *testing.T) {
	raw := make([]int, ecc.RawBits)
	for i := range raw {
		raw[i] = i % 2
	}
	coded := ecc.Encode(raw)

	soft := make([]float64, len(coded))
	for i, b := range coded {
		if b == 1 {
			soft[i] = 1.0
		} else {
			soft[i] = 0.0
		}
	}

	bits, confidence := ecc.Decode(soft)
	require.Equal(t, raw, bits)
	require.InDelta(t, 1.0, confidence, 1e-9)
}

func TestDecodeConcreteScenario(t *testing.T) {
	soft := []float64{0.9, 0.8, 0.95, 0.1, 0.2, 0.05}
	bits, confidence := ecc.Decode(soft)
	require.Equal(t, []int{1, 0}, bits)
	require.Greater(t, confidence, 0.5)
}

func TestDecodeAmbiguousSignal(t *testing.T) {
	soft := []float64{0.5, 0.5, 0.5, 0.5, 0.5, 0.5}
	_, confidence := ecc.Decode(soft)
	require.Less(t, confidence, 0.1)
}

func TestTiePolicyFavorsZero(t *testing.T) {
	bits, _ := ecc.Decode([]float64{0.5, 0.5, 0.5})
	require.Equal(t, []int{0}, bits)
}

package prng_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rastermark/rastermark/internal/prng"
)

func TestDeterminism(t *testing.T) {
	seed := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	a := prng.New(seed)
	b := prng.New(seed)

	for i := 0; i < 1000; i++ {
		require.Equal(t, a.Next(), b.Next(), "output %d diverged", i)
	}
}

// TestReferenceVector pins the first five outputs for seed [1..8] against a
// faithful reimplementation of the step function (the wire contract is
// bit-exact, so this guards against any reordering of the xorshift steps).
func TestReferenceVector(t *testing.T) {
	p := prng.New([]byte{1, 2, 3, 4, 5, 6, 7, 8})
	want := []float64{
		0.0002256541047770656,
		0.00397303886804102,
		0.4665780014979136,
		0.2159810979422138,
		0.13371504497102346,
	}
	for i, w := range want {
		require.InDelta(t, w, p.Next(), 1e-12, "output %d", i)
	}
}

func TestOutputsStayInUnitInterval(t *testing.T) {
	p := prng.New([]byte{9, 8, 7, 6, 5, 4, 3, 2})
	for i := 0; i < 10000; i++ {
		v := p.Next()
		require.GreaterOrEqual(t, v, 0.0)
		require.Less(t, v, 1.0)
	}
}

func TestNextIntBounds(t *testing.T) {
	p := prng.New([]byte{1, 1, 1, 1, 1, 1, 1, 1})
	for i := 0; i < 1000; i++ {
		v := p.NextInt(15)
		require.GreaterOrEqual(t, v, 0)
		require.Less(t, v, 15)
	}
}

func TestAllZeroSeedUsesFallback(t *testing.T) {
	zero := prng.New(make([]byte, 8))
	fallback := prng.New(nil)
	require.Equal(t, fallback.Next(), zero.Next())
}

func TestShortSeedPadsWithZero(t *testing.T) {
	a := prng.New([]byte{1, 2, 3})
	b := prng.New([]byte{1, 2, 3, 0, 0, 0, 0, 0})
	require.Equal(t, a.Next(), b.Next())
}

package fingerprint_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rastermark/rastermark/internal/fingerprint"
)

func TestDeriveStableAndSized(t *testing.T) {
	d1 := fingerprint.Derive("test-payload")
	d2 := fingerprint.Derive("test-payload")
	require.Equal(t, d1, d2)
	require.Len(t, d1.Bytes(), fingerprint.Size)
}

func TestDeriveSaltSensitivity(t *testing.T) {
	plain := fingerprint.Derive("payload1")
	salted := fingerprint.Derive("payload1" + fingerprint.Salt)
	require.NotEqual(t, plain, salted)
}

func TestDeriveDistinctPayloads(t *testing.T) {
	require.NotEqual(t, fingerprint.Derive("payload1"), fingerprint.Derive("payload2"))
}

func TestEmptyPayloadIsNotAnError(t *testing.T) {
	d := fingerprint.Derive("")
	require.Len(t, d.Bytes(), fingerprint.Size)
}

func TestBitOrderMSBFirst(t *testing.T) {
	d := fingerprint.Digest{0x80, 0, 0, 0, 0, 0, 0, 0x01}
	require.Equal(t, 1, d.Bit(0))
	for i := 1; i < 63; i++ {
		require.Equal(t, 0, d.Bit(i), "bit %d", i)
	}
	require.Equal(t, 1, d.Bit(63))
}

func TestFromBitsRoundTrip(t *testing.T) {
	d := fingerprint.Derive("round-trip-me")
	bits := make([]int, 64)
	for i := range bits {
		bits[i] = d.Bit(i)
	}
	require.Equal(t, d, fingerprint.FromBits(bits))
}

package civ

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBCDRoundTrip(t *testing.T) {
	// Decode must be a left-inverse of encode over the full 10-digit
	// range a 5-byte payload can carry.
	values := []uint64{
		0,
		1,
		99,
		7_000_000,
		14_074_000,
		145_500_000,
		9_999_999_999,
	}
	for _, v := range values {
		enc := EncodeBCD(v, 5)
		dec, err := DecodeBCD(enc)
		require.NoError(t, err)
		require.Equal(t, v, dec)
	}
}

func TestEncodeBCDLayout(t *testing.T) {
	// 14074000 Hz: least-significant digit pair first, so the wire
	// order is 00 40 07 14 00.
	require.Equal(t, []byte{0x00, 0x40, 0x07, 0x14, 0x00}, EncodeBCD(14_074_000, 5))
}

func TestDecodeBCDBadNibble(t *testing.T) {
	// A nibble above 9 must error, never produce a wrong value.
	for _, b := range [][]byte{
		{0x0A, 0x00, 0x00, 0x00, 0x00},
		{0x00, 0xA0, 0x00, 0x00, 0x00},
		{0x00, 0x00, 0x00, 0x00, 0xFF},
	} {
		_, err := DecodeBCD(b)
		require.ErrorIs(t, err, ErrBadBCD)
	}
}

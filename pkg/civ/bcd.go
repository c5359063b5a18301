package civ

import "errors"

// ErrBadBCD reports a nibble outside 0..9 in a BCD payload.
var ErrBadBCD = errors.New("invalid BCD nibble")

// DecodeBCD interprets b as a BCD-packed decimal number. Each byte
// carries two decimal digits, one per nibble, and bytes are ordered
// least-significant pair first. A frequency payload is 5 bytes, giving
// a 10-digit hertz value.
func DecodeBCD(b []byte) (uint64, error) {
	var v uint64
	for i := len(b) - 1; i >= 0; i-- {
		hi, lo := b[i]>>4, b[i]&0x0f
		if hi > 9 || lo > 9 {
			return 0, ErrBadBCD
		}
		v = v*100 + uint64(hi)*10 + uint64(lo)
	}
	return v, nil
}

// EncodeBCD packs v into n BCD bytes, least-significant digit pair
// first. Digits beyond n bytes are discarded.
func EncodeBCD(v uint64, n int) []byte {
	b := make([]byte, n)
	for i := 0; i < n; i++ {
		lo := byte(v % 10)
		v /= 10
		hi := byte(v % 10)
		v /= 10
		b[i] = hi<<4 | lo
	}
	return b
}

// Package codec implements the ALP frame wire format: nibble encoding,
// the modulo-256/XOR checksum pair, and frame parse/write. All functions
// here are pure — no state, no I/O.
package codec

import "errors"

// ErrInvalidNibble is returned when a byte outside 0x30-0x3F is decoded.
var ErrInvalidNibble = errors.New("codec: nibble byte out of range")

const nibbleBase = 0x30

// EncodeNibble splits b into two wire bytes, high nibble first.
func EncodeNibble(b byte) (hi, lo byte) {
	return (b >> 4) + nibbleBase, (b & 0x0F) + nibbleBase
}

// DecodeNibble recombines a high/low nibble pair into one byte. It fails
// if either input lies outside 0x30-0x3F.
func DecodeNibble(hi, lo byte) (byte, error) {
	if hi < nibbleBase || hi > nibbleBase+0x0F || lo < nibbleBase || lo > nibbleBase+0x0F {
		return 0, ErrInvalidNibble
	}
	return ((hi - nibbleBase) << 4) | (lo - nibbleBase), nil
}

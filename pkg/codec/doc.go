// Package codec provides the low-level binary primitives used by the replay
// and memory card formats.
//
// Everything in this package is big-endian and operates on in-memory byte
// slices. Nothing here performs I/O or holds package-level mutable state, so
// all functions are safe for concurrent use.
//
// # Fixed-width values
//
// Writer appends fixed-width integers and IEEE-754 singles most significant
// byte first. Reader consumes them through an explicit cursor over an
// immutable buffer:
//
//	w := codec.NewWriter(8)
//	w.PutU16(0x3850)
//	w.PutF32(1.5)
//
//	r := codec.NewReader(w.Bytes())
//	maker, err := r.U16()
//
// Floats travel as their raw bit pattern, so NaN payloads and infinities
// round-trip unchanged. Reading past the end of the buffer returns an error
// wrapping ErrTruncatedInput.
//
// # Planar channels
//
// A Channel describes a block of multi-dimensional samples. Every sample
// component is quantized to a signed 8 or 16 bit integer by truncating
// v/Scale toward zero, then the integers are split into byte planes:
//
//	[dim0 plane0][dim0 plane1]...[dim1 plane0][dim1 plane1]...
//
// where plane0 holds the least significant byte of every sample. Raw
// channels (Scale == 0) skip quantization and carry unsigned integers.
// The sample count is never stored; callers supply it on decode.
//
// # Run-length encoding
//
// Compress and Decompress implement the tag stream used by the memory card
// container:
//
//	1ccccccc vvvvvvvv      repeat v, c times (c in 1..127)
//	0ccccccc b1 .. bc      copy c literal bytes (c in 0..127)
//
// Only runs of three or more identical bytes become repeat tags. A stream
// whose tag promises more bytes than remain fails with ErrInvalidEncoding.
//
// # Checksum
//
// Checksum16 is CRC-CCITT (polynomial 0x1021, initial register 0xFFFF,
// MSB first) with the final register inverted.
package codec

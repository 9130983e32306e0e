package codec

import (
	"fmt"
	"math"
)

// Writer appends big-endian fixed-width values to a growing buffer
type Writer struct {
	buf []byte
}

// NewWriter creates a writer with the given initial capacity
func NewWriter(capacity int) *Writer {
	return &Writer{buf: make([]byte, 0, capacity)}
}

// Put appends the low k.Size() bytes of v, most significant byte first
func (w *Writer) Put(k Kind, v uint64) {
	for i := k.Size(); i > 0; i-- {
		w.buf = append(w.buf, byte(v>>((i-1)*8)))
	}
}

// PutU8 appends a single byte
func (w *Writer) PutU8(v uint8) {
	w.buf = append(w.buf, v)
}

// PutU16 appends a big-endian uint16
func (w *Writer) PutU16(v uint16) {
	w.Put(U16, uint64(v))
}

// PutU32 appends a big-endian uint32
func (w *Writer) PutU32(v uint32) {
	w.Put(U32, uint64(v))
}

// PutU64 appends a big-endian uint64
func (w *Writer) PutU64(v uint64) {
	w.Put(U64, v)
}

// PutF32 appends the IEEE-754 bit pattern of v as a big-endian uint32
func (w *Writer) PutF32(v float32) {
	w.Put(F32, uint64(math.Float32bits(v)))
}

// PutBytes appends raw bytes
func (w *Writer) PutBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

// PutFixed appends s truncated or NUL-padded to exactly size bytes
func (w *Writer) PutFixed(s string, size int) {
	field := make([]byte, size)
	copy(field, s)
	w.buf = append(w.buf, field...)
}

// PutFill appends n copies of b
func (w *Writer) PutFill(n int, b byte) {
	for i := 0; i < n; i++ {
		w.buf = append(w.buf, b)
	}
}

// Len returns the number of bytes written so far
func (w *Writer) Len() int {
	return len(w.buf)
}

// Bytes returns the written buffer
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Reader consumes big-endian fixed-width values from an immutable buffer
type Reader struct {
	data   []byte
	offset int
}

// NewReader creates a reader positioned at the start of data
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Read consumes k.Size() bytes and returns them as an unsigned value
func (r *Reader) Read(k Kind) (uint64, error) {
	b, err := r.Bytes(k.Size())
	if err != nil {
		return 0, err
	}
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v, nil
}

// U8 consumes one byte
func (r *Reader) U8() (uint8, error) {
	v, err := r.Read(U8)
	return uint8(v), err
}

// U16 consumes a big-endian uint16
func (r *Reader) U16() (uint16, error) {
	v, err := r.Read(U16)
	return uint16(v), err
}

// U32 consumes a big-endian uint32
func (r *Reader) U32() (uint32, error) {
	v, err := r.Read(U32)
	return uint32(v), err
}

// U64 consumes a big-endian uint64
func (r *Reader) U64() (uint64, error) {
	return r.Read(U64)
}

// F32 consumes a big-endian IEEE-754 single
func (r *Reader) F32() (float32, error) {
	v, err := r.Read(F32)
	return math.Float32frombits(uint32(v)), err
}

// Bytes consumes n bytes and returns them without copying
func (r *Reader) Bytes(n int) ([]byte, error) {
	if n < 0 || r.Remaining() < n {
		return nil, fmt.Errorf("read %d bytes at offset %d (%d remaining): %w",
			n, r.offset, r.Remaining(), ErrTruncatedInput)
	}
	b := r.data[r.offset : r.offset+n]
	r.offset += n
	return b, nil
}

// Skip advances the cursor by n bytes
func (r *Reader) Skip(n int) error {
	_, err := r.Bytes(n)
	return err
}

// Offset returns the current read offset
func (r *Reader) Offset() int {
	return r.offset
}

// Remaining returns the number of unread bytes
func (r *Reader) Remaining() int {
	return len(r.data) - r.offset
}

// Rest returns the unread bytes without advancing
func (r *Reader) Rest() []byte {
	return r.data[r.offset:]
}

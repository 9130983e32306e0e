package codec

import (
	"fmt"
	"math"
)

// Channel describes how one block of samples is laid out on the wire.
//
// Each of the channel's dimensions is quantized to Kind independently and
// written as Kind.Size() byte planes, least significant plane first. A
// plane holds the byte of that significance for every sample, so slowly
// changing values produce long runs that compress well.
type Channel struct {
	Name       string
	Dimensions int
	Kind       Kind
	// Scale is the size of one quantization step; zero means raw integers
	Scale float32
}

// Size returns the encoded size of n samples
func (c Channel) Size(n int) int {
	return n * c.Dimensions * c.Kind.Size()
}

// Quantize converts v to the channel's integer width by truncating v/scale
// toward zero. Out-of-range values wrap; NaN and infinities become zero.
func Quantize(v, scale float32, k Kind) uint32 {
	q := float64(v / scale)
	if math.IsNaN(q) || math.IsInf(q, 0) || math.Abs(q) >= math.MaxInt64 {
		return 0
	}
	return uint32(k.wrap(int64(q)))
}

// Dequantize sign-extends a raw plane value for k and multiplies by scale
func Dequantize(raw uint32, scale float32, k Kind) float32 {
	return float32(k.wrap(int64(raw))) * scale
}

// PutPlanes writes the low k.Size() bytes of every value as byte planes
func PutPlanes(w *Writer, k Kind, values []uint32) {
	for plane := 0; plane < k.Size(); plane++ {
		shift := uint(plane * 8)
		for _, v := range values {
			w.PutU8(byte(v >> shift))
		}
	}
}

// ReadPlanes reads n values of width k written by PutPlanes
func ReadPlanes(r *Reader, k Kind, n int) ([]uint32, error) {
	values := make([]uint32, n)
	for plane := 0; plane < k.Size(); plane++ {
		b, err := r.Bytes(n)
		if err != nil {
			return nil, fmt.Errorf("plane %d: %w", plane, err)
		}
		shift := uint(plane * 8)
		for i, c := range b {
			values[i] |= uint32(c) << shift
		}
	}
	return values, nil
}

// EncodeVectors quantizes and writes samples, one dimension after another.
// Missing components are written as zero.
func (c Channel) EncodeVectors(w *Writer, samples [][]float32) {
	raw := make([]uint32, len(samples))
	for dim := 0; dim < c.Dimensions; dim++ {
		for i, s := range samples {
			var v float32
			if dim < len(s) {
				v = s[dim]
			}
			raw[i] = Quantize(v, c.Scale, c.Kind)
		}
		PutPlanes(w, c.Kind, raw)
	}
}

// DecodeVectors reads n samples written by EncodeVectors
func (c Channel) DecodeVectors(r *Reader, n int) ([][]float32, error) {
	samples := make([][]float32, n)
	for i := range samples {
		samples[i] = make([]float32, c.Dimensions)
	}
	for dim := 0; dim < c.Dimensions; dim++ {
		raw, err := ReadPlanes(r, c.Kind, n)
		if err != nil {
			return nil, fmt.Errorf("%s dimension %d: %w", c.Name, dim, err)
		}
		for i, v := range raw {
			samples[i][dim] = Dequantize(v, c.Scale, c.Kind)
		}
	}
	return samples, nil
}

// EncodeScalars quantizes and writes a one-dimensional channel
func (c Channel) EncodeScalars(w *Writer, samples []float32) {
	raw := make([]uint32, len(samples))
	for i, v := range samples {
		raw[i] = Quantize(v, c.Scale, c.Kind)
	}
	PutPlanes(w, c.Kind, raw)
}

// DecodeScalars reads n samples written by EncodeScalars
func (c Channel) DecodeScalars(r *Reader, n int) ([]float32, error) {
	raw, err := ReadPlanes(r, c.Kind, n)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.Name, err)
	}
	samples := make([]float32, n)
	for i, v := range raw {
		samples[i] = Dequantize(v, c.Scale, c.Kind)
	}
	return samples, nil
}

// EncodeRaw writes unscaled integers
func (c Channel) EncodeRaw(w *Writer, values []uint32) {
	PutPlanes(w, c.Kind, values)
}

// DecodeRaw reads n unscaled integers
func (c Channel) DecodeRaw(r *Reader, n int) ([]uint32, error) {
	values, err := ReadPlanes(r, c.Kind, n)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.Name, err)
	}
	return values, nil
}

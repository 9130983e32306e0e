package replay

import (
	"fmt"

	"github.com/ssargent/smbreplay/pkg/codec"
)

// Record is a complete replay: the header plus six channels of ChunkSize
// samples each. Entries past the end of the real recording are still part
// of the record and are encoded like any other.
type Record struct {
	Header              Header
	PlayerPositionDelta [][]float32
	PlayerTilt          [][]float32
	Data567             [][]float32
	Data8               []float32
	Flags               []uint32
	StageTilt           [][]float32
}

// NewRecord returns a record with every channel zero-filled to ChunkSize
func NewRecord(header Header) *Record {
	return &Record{
		Header:              header,
		PlayerPositionDelta: vectors(ChunkSize, positionDeltaChannel.Dimensions),
		PlayerTilt:          vectors(ChunkSize, tiltChannel.Dimensions),
		Data567:             vectors(ChunkSize, data567Channel.Dimensions),
		Data8:               make([]float32, ChunkSize),
		Flags:               make([]uint32, ChunkSize),
		StageTilt:           vectors(ChunkSize, stageTiltChannel.Dimensions),
	}
}

// Normalize pads or truncates every channel to ChunkSize samples and every
// vector to its channel's dimension count
func (r *Record) Normalize() {
	r.PlayerPositionDelta = fitVectors(r.PlayerPositionDelta, positionDeltaChannel.Dimensions)
	r.PlayerTilt = fitVectors(r.PlayerTilt, tiltChannel.Dimensions)
	r.Data567 = fitVectors(r.Data567, data567Channel.Dimensions)
	r.Data8 = fitScalars(r.Data8)
	r.Flags = fitFlags(r.Flags)
	r.StageTilt = fitVectors(r.StageTilt, stageTiltChannel.Dimensions)
}

// Encode serializes the record into its binary capture layout.
// Channels shorter than ChunkSize are zero-padded and longer ones truncated,
// so the result is always Size bytes.
func Encode(r *Record) []byte {
	w := codec.NewWriter(Size)
	r.Header.Encode(w)

	positionDeltaChannel.EncodeVectors(w, fitVectors(r.PlayerPositionDelta, positionDeltaChannel.Dimensions))
	tiltChannel.EncodeVectors(w, fitVectors(r.PlayerTilt, tiltChannel.Dimensions))
	data567Channel.EncodeVectors(w, fitVectors(r.Data567, data567Channel.Dimensions))
	data8Channel.EncodeScalars(w, fitScalars(r.Data8))
	flagsChannel.EncodeRaw(w, fitFlags(r.Flags))
	stageTiltChannel.EncodeVectors(w, fitVectors(r.StageTilt, stageTiltChannel.Dimensions))

	return w.Bytes()
}

// Decode parses a binary capture. Bytes past Size are ignored.
func Decode(data []byte) (*Record, error) {
	rd := codec.NewReader(data)

	header, err := DecodeHeader(rd)
	if err != nil {
		return nil, err
	}

	r := &Record{Header: header}
	if r.PlayerPositionDelta, err = positionDeltaChannel.DecodeVectors(rd, ChunkSize); err != nil {
		return nil, err
	}
	if r.PlayerTilt, err = tiltChannel.DecodeVectors(rd, ChunkSize); err != nil {
		return nil, err
	}
	if r.Data567, err = data567Channel.DecodeVectors(rd, ChunkSize); err != nil {
		return nil, err
	}
	if r.Data8, err = data8Channel.DecodeScalars(rd, ChunkSize); err != nil {
		return nil, err
	}
	if r.Flags, err = flagsChannel.DecodeRaw(rd, ChunkSize); err != nil {
		return nil, err
	}
	if r.StageTilt, err = stageTiltChannel.DecodeVectors(rd, ChunkSize); err != nil {
		return nil, err
	}

	return r, nil
}

// DecodeHeaderOnly parses just the leading header of a binary capture
func DecodeHeaderOnly(data []byte) (Header, error) {
	h, err := DecodeHeader(codec.NewReader(data))
	if err != nil {
		return h, fmt.Errorf("decode header: %w", err)
	}
	return h, nil
}

func vectors(n, dims int) [][]float32 {
	out := make([][]float32, n)
	for i := range out {
		out[i] = make([]float32, dims)
	}
	return out
}

func fitVectors(in [][]float32, dims int) [][]float32 {
	out := make([][]float32, ChunkSize)
	for i := range out {
		out[i] = make([]float32, dims)
		if i < len(in) {
			copy(out[i], in[i])
		}
	}
	return out
}

func fitScalars(in []float32) []float32 {
	out := make([]float32, ChunkSize)
	copy(out, in)
	return out
}

func fitFlags(in []uint32) []uint32 {
	out := make([]uint32, ChunkSize)
	copy(out, in)
	return out
}

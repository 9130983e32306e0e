package replay

import "github.com/ssargent/smbreplay/pkg/codec"

const (
	// ChunkSize is the number of samples in every channel of a recording
	ChunkSize = 0xF00

	// HeaderSize is the encoded size of Header in bytes
	HeaderSize = 68

	// Size is the encoded size of a Record in bytes
	Size = 92228
)

// Wire layout of the six channels. Scales are the size of one quantization
// step: decoded value = stored integer * scale.
var (
	positionDeltaChannel = codec.Channel{Name: "playerPositionDelta", Dimensions: 3, Kind: codec.I16, Scale: 1.0 / 16383.0}
	tiltChannel          = codec.Channel{Name: "playerTilt", Dimensions: 3, Kind: codec.I16, Scale: 180.0 / 32767.0}
	data567Channel       = codec.Channel{Name: "data567", Dimensions: 3, Kind: codec.I8, Scale: 256.0}
	data8Channel         = codec.Channel{Name: "data8", Dimensions: 1, Kind: codec.I8, Scale: 1.0 / 127.0}
	flagsChannel         = codec.Channel{Name: "flags", Dimensions: 1, Kind: codec.U32}
	stageTiltChannel     = codec.Channel{Name: "stageTilt", Dimensions: 2, Kind: codec.I16, Scale: 90.0 / 32767.0}
)

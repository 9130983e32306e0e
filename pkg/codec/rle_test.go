package codec

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompress_Encoding(t *testing.T) {
	testCases := []struct {
		name  string
		input []byte
		want  []byte
	}{
		{
			name:  "empty",
			input: []byte{},
			want:  []byte{},
		},
		{
			name:  "single byte is a literal",
			input: []byte{0x42},
			want:  []byte{0x01, 0x42},
		},
		{
			name:  "pair is a literal",
			input: []byte{0x42, 0x42},
			want:  []byte{0x02, 0x42, 0x42},
		},
		{
			name:  "three repeats",
			input: []byte{0x42, 0x42, 0x42},
			want:  []byte{0x83, 0x42},
		},
		{
			name:  "literal then repeat then literal",
			input: []byte{1, 2, 7, 7, 7, 7, 3},
			want:  []byte{0x02, 1, 2, 0x84, 7, 0x01, 3},
		},
		{
			name:  "short runs absorbed into literal",
			input: []byte{1, 1, 2, 2, 3},
			want:  []byte{0x05, 1, 1, 2, 2, 3},
		},
		{
			name:  "127 repeats fill one tag",
			input: bytes.Repeat([]byte{0xCC}, 127),
			want:  []byte{0xFF, 0xCC},
		},
		{
			name:  "128 repeats leave a literal tail",
			input: bytes.Repeat([]byte{0xCC}, 128),
			want:  []byte{0xFF, 0xCC, 0x01, 0xCC},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Compress(tc.input)
			assert.Equal(t, tc.want, got)

			back, err := Decompress(got)
			require.NoError(t, err)
			assert.Equal(t, tc.input, back)
		})
	}
}

func TestCompress_LongRun(t *testing.T) {
	compressed := Compress(bytes.Repeat([]byte{0x00}, 500))

	// 127 + 127 + 127 + 119
	assert.Equal(t, []byte{0xFF, 0x00, 0xFF, 0x00, 0xFF, 0x00, 0xF7, 0x00}, compressed)
}

func TestCompress_LongLiteral(t *testing.T) {
	input := make([]byte, 300)
	for i := range input {
		input[i] = byte(i % 2)
	}

	compressed := Compress(input)
	require.Len(t, compressed, 300+3)
	assert.Equal(t, byte(127), compressed[0])
	assert.Equal(t, byte(127), compressed[128])
	assert.Equal(t, byte(46), compressed[256])
}

func TestCompress_TagCountsNeverExceed127(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for iter := 0; iter < 50; iter++ {
		input := randomRuns(rng, 2000)
		compressed := Compress(input)

		for i := 0; i < len(compressed); {
			tag := compressed[i]
			count := int(tag & 0x7F)
			require.LessOrEqual(t, count, 127)
			if tag&0x80 != 0 {
				require.GreaterOrEqual(t, count, 3, "repeat run shorter than three at tag %d", i)
				i += 2
			} else {
				i += 1 + count
			}
		}
	}
}

func TestRLE_RoundTripRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for size := 0; size < 600; size += 7 {
		input := randomRuns(rng, size)
		back, err := Decompress(Compress(input))
		require.NoError(t, err)
		require.True(t, bytes.Equal(input, back), "round trip mismatch for size %d", size)
	}
}

func TestDecompressSize(t *testing.T) {
	t.Run("stops at declared size", func(t *testing.T) {
		stream := []byte{0x83, 0xAA, 0x02, 0x01, 0x02, 0x85, 0xBB}
		out, err := DecompressSize(stream, 5)
		require.NoError(t, err)
		assert.Equal(t, []byte{0xAA, 0xAA, 0xAA, 0x01, 0x02}, out)
	})

	t.Run("final tag overshoot is dropped", func(t *testing.T) {
		out, err := DecompressSize([]byte{0x8A, 0x11}, 4)
		require.NoError(t, err)
		assert.Equal(t, []byte{0x11, 0x11, 0x11, 0x11}, out)
	})

	t.Run("trailing padding ignored", func(t *testing.T) {
		stream := append(Compress([]byte("hello")), make([]byte, 64)...)
		out, err := DecompressSize(stream, 5)
		require.NoError(t, err)
		assert.Equal(t, []byte("hello"), out)
	})

	t.Run("short stream returns what it has", func(t *testing.T) {
		out, err := DecompressSize([]byte{0x02, 0x01, 0x02}, 10)
		require.NoError(t, err)
		assert.Equal(t, []byte{0x01, 0x02}, out)
	})

	t.Run("negative size", func(t *testing.T) {
		_, err := DecompressSize(nil, -1)
		assert.True(t, errors.Is(err, ErrInvalidEncoding))
	})
}

func TestDecompress_Malformed(t *testing.T) {
	testCases := []struct {
		name   string
		stream []byte
	}{
		{"repeat tag without value", []byte{0x85}},
		{"literal longer than input", []byte{0x05, 0x01, 0x02}},
		{"valid prefix then bad literal", []byte{0x83, 0x00, 0x7F}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := Decompress(tc.stream)
			assert.Nil(t, out)
			assert.ErrorIs(t, err, ErrInvalidEncoding)
		})
	}
}

func TestDecompress_ZeroCountTags(t *testing.T) {
	out, err := Decompress([]byte{0x00, 0x80, 0x07, 0x01, 0x02})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x02}, out)
}

// randomRuns produces data with a mix of short and long runs
func randomRuns(rng *rand.Rand, size int) []byte {
	out := make([]byte, 0, size)
	for len(out) < size {
		v := byte(rng.Intn(4))
		n := 1 + rng.Intn(6)
		if rng.Intn(8) == 0 {
			n = 100 + rng.Intn(200)
		}
		for i := 0; i < n && len(out) < size; i++ {
			out = append(out, v)
		}
	}
	return out
}

package gci

import (
	"bytes"
	"math/rand"
	"testing"
	"time"

	"github.com/ssargent/smbreplay/pkg/codec"
	"github.com/ssargent/smbreplay/pkg/replay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedClock = func() time.Time { return time.UnixMilli(1700000000000) }

func TestBuild_EndToEndScenario(t *testing.T) {
	original := replay.NewRecord(replay.Header{LevelDifficulty: 1, LevelFloor: 2})

	file := NewPackagerWithClock(fixedClock).Build(original)

	comment := file[DirectoryEntrySize+CommentsAddress+CommentFieldSize : ReplayDataOffset]
	want := make([]byte, CommentFieldSize)
	copy(want, "Adv.FL2 - smb-build-replay")
	assert.Equal(t, want, comment)

	parsed, err := Parse(file)
	require.NoError(t, err)
	assert.Equal(t, uint8(1), parsed.Header.LevelDifficulty)
	assert.Equal(t, uint8(2), parsed.Header.LevelFloor)
	assert.Equal(t, original, parsed)
}

func TestBuild_DirectoryEntry(t *testing.T) {
	file := NewPackagerWithClock(fixedClock).Build(replay.NewRecord(replay.Header{}))

	assert.Equal(t, []byte("GMBE8P"), file[0:6])
	assert.Equal(t, []byte{0xFF, 0x02}, file[6:8])

	name := make([]byte, fileNameSize)
	copy(name, "smkb00f49ab5d0c92000")
	assert.Equal(t, name, file[8:0x28])

	assert.Equal(t, []byte{0, 0, 0, 0}, file[0x28:0x2C])    // modified time
	assert.Equal(t, []byte{0, 0, 0, 0x10}, file[0x2C:0x30]) // image offset
	assert.Equal(t, []byte{0, 2, 0, 3, 4, 0}, file[0x30:0x36])
	assert.Equal(t, []byte{0, 0}, file[0x36:0x38]) // first block
	assert.Equal(t, []byte{0xFF, 0xFF}, file[0x3A:0x3C])
	assert.Equal(t, []byte{0, 0, 0x20, 0x10}, file[0x3C:0x40])

	entry, err := DecodeDirectoryEntry(codec.NewReader(file))
	require.NoError(t, err)
	assert.Equal(t, "GMBE8P", entry.GameID())
	assert.Equal(t, "smkb00f49ab5d0c92000", entry.FileName)
	assert.Equal(t, uint16((len(file)-DirectoryEntrySize)/BlockSize), entry.BlockCount)
	assert.Equal(t, uint32(CommentsAddress), entry.CommentsAddress)
}

func TestBuild_DataPrefix(t *testing.T) {
	h := replay.Header{Flags: 0x0A0B, LevelID: 5, LevelDifficulty: 2, LevelFloor: 7, ScorePoints: 0x01020304}
	file := NewPackagerWithClock(fixedClock).Build(replay.NewRecord(h))

	data := file[DirectoryEntrySize+ChecksumSize:]
	assert.Equal(t, []byte{0x0A, 0x0B, 5, 2, 7, 0, 1, 2, 3, 4, 0, 0, 0, 0}, data[:replayInfoSize])
	assert.Equal(t, bytes.Repeat([]byte{bannerIconFill}, bannerIconSize), data[replayInfoSize:replayInfoSize+bannerIconSize])

	gameComment := make([]byte, CommentFieldSize)
	copy(gameComment, GameName)
	assert.Equal(t, gameComment, file[DirectoryEntrySize+CommentsAddress:DirectoryEntrySize+CommentsAddress+CommentFieldSize])

	size := codec.NewReader(file[ReplayDataOffset:])
	declared, err := size.U64()
	require.NoError(t, err)
	assert.Equal(t, uint64(replay.Size), declared)
}

func TestBuild_BlockAlignment(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	packager := NewPackagerWithClock(fixedClock)

	for iter := 0; iter < 4; iter++ {
		r := replay.NewRecord(replay.Header{LevelFloor: uint8(iter)})
		// progressively noisier records compress worse and need more blocks
		for i := 0; i < replay.ChunkSize*iter/3; i++ {
			r.Flags[i] = rng.Uint32()
			r.PlayerTilt[i][0] = rng.Float32()*360 - 180
		}

		file := packager.Build(r)
		dataSize := len(file) - DirectoryEntrySize
		require.Zero(t, dataSize%BlockSize, "file data of %d bytes is not block aligned", dataSize)
		// the directory entry sits in front of the aligned blocks
		assert.Equal(t, DirectoryEntrySize, len(file)%BlockSize)

		entry, err := DecodeDirectoryEntry(codec.NewReader(file))
		require.NoError(t, err)
		assert.Equal(t, dataSize/BlockSize, int(entry.BlockCount))

		parsed, err := Parse(file)
		require.NoError(t, err)
		assert.Equal(t, r.Flags, parsed.Flags)
	}
}

func TestBlockCount(t *testing.T) {
	testCases := []struct {
		compressed int
		want       int
	}{
		{0, 2},
		{BlockSize*2 - ReplayDataOffset - sizeFieldSize, 2},
		{BlockSize*2 - ReplayDataOffset - sizeFieldSize + 1, 3},
		{replay.Size, 13},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, BlockCount(tc.compressed), "compressed size %d", tc.compressed)
	}
}

func TestVerify(t *testing.T) {
	file := NewPackagerWithClock(fixedClock).Build(replay.NewRecord(replay.Header{LevelFloor: 4}))
	require.NoError(t, Verify(file))

	t.Run("corrupted data", func(t *testing.T) {
		corrupted := append([]byte(nil), file...)
		corrupted[len(corrupted)-1] ^= 0x01
		assert.ErrorIs(t, Verify(corrupted), ErrChecksumMismatch)
	})

	t.Run("corrupted checksum still parses", func(t *testing.T) {
		corrupted := append([]byte(nil), file...)
		corrupted[DirectoryEntrySize] ^= 0xFF
		assert.ErrorIs(t, Verify(corrupted), ErrChecksumMismatch)

		r, err := Parse(corrupted)
		require.NoError(t, err)
		assert.Equal(t, uint8(4), r.Header.LevelFloor)
	})

	t.Run("too short", func(t *testing.T) {
		assert.ErrorIs(t, Verify(file[:DirectoryEntrySize]), codec.ErrTruncatedInput)
	})
}

func TestParse_Errors(t *testing.T) {
	file := NewPackagerWithClock(fixedClock).Build(replay.NewRecord(replay.Header{}))

	t.Run("shorter than the data offset", func(t *testing.T) {
		_, err := Parse(file[:ReplayDataOffset-1])
		assert.ErrorIs(t, err, codec.ErrTruncatedInput)
	})

	t.Run("missing size field", func(t *testing.T) {
		_, err := Parse(file[:ReplayDataOffset+4])
		assert.ErrorIs(t, err, codec.ErrTruncatedInput)
	})

	t.Run("payload cut short", func(t *testing.T) {
		_, err := Parse(file[:ReplayDataOffset+sizeFieldSize+20])
		assert.Error(t, err)
	})

	t.Run("malformed payload", func(t *testing.T) {
		bad := append([]byte(nil), file[:ReplayDataOffset+sizeFieldSize]...)
		bad = append(bad, 0x7F, 0x01)
		_, err := Parse(bad)
		assert.ErrorIs(t, err, codec.ErrInvalidEncoding)
	})
}

func TestComment(t *testing.T) {
	testCases := []struct {
		header replay.Header
		want   string
	}{
		{replay.Header{LevelDifficulty: 0, LevelFloor: 1}, "Beg.FL1 - smb-build-replay"},
		{replay.Header{LevelDifficulty: 1, LevelFloor: 2}, "Adv.FL2 - smb-build-replay"},
		{replay.Header{LevelDifficulty: 2, LevelFloor: 50}, "Exp.FL50 - smb-build-replay"},
		{replay.Header{LevelDifficulty: 9, LevelFloor: 255}, "Unk.FL255 - smb-build-replay"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, Comment(tc.header))
	}
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "smkb000000000269fb20", FileName(time.UnixMilli(1000)))
	assert.Len(t, FileName(time.Now()), 20)
	assert.NotEqual(t, FileName(time.UnixMilli(1)), FileName(time.UnixMilli(2)))
}

func TestParseInfo(t *testing.T) {
	h := replay.Header{Flags: 3, LevelID: 9, LevelDifficulty: 2, LevelFloor: 10, ScorePoints: 777}
	file := NewPackagerWithClock(fixedClock).Build(replay.NewRecord(h))

	info, err := ParseInfo(file)
	require.NoError(t, err)
	assert.Equal(t, "GMBE8P", info.Entry.GameID())
	assert.Equal(t, uint16(3), info.Flags)
	assert.Equal(t, uint8(9), info.LevelID)
	assert.Equal(t, uint8(2), info.LevelDifficulty)
	assert.Equal(t, uint8(10), info.LevelFloor)
	assert.Equal(t, uint32(777), info.ScorePoints)
	assert.Equal(t, GameName, info.GameComment)
	assert.Equal(t, "Exp.FL10 - smb-build-replay", info.FileComment)
	assert.Equal(t, uint64(replay.Size), info.UncompressedSize)
	assert.Equal(t, len(file)-ReplayDataOffset-sizeFieldSize, info.PayloadSize)
	assert.Equal(t, codec.Checksum16(file[DirectoryEntrySize+ChecksumSize:]), info.Checksum)

	_, err = ParseInfo(file[:100])
	assert.ErrorIs(t, err, codec.ErrTruncatedInput)
}

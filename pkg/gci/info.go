package gci

import (
	"fmt"

	"github.com/ssargent/smbreplay/pkg/codec"
)

// Info describes a memory card file without decoding its replay
type Info struct {
	Entry            DirectoryEntry
	Checksum         uint16
	Flags            uint16
	LevelID          uint8
	LevelDifficulty  uint8
	LevelFloor       uint8
	ScorePoints      uint32
	Timestamp        uint32
	GameComment      string
	FileComment      string
	UncompressedSize uint64
	PayloadSize      int
}

// ParseInfo reads the directory entry, replay summary and comments
func ParseInfo(data []byte) (*Info, error) {
	rd := codec.NewReader(data)
	if rd.Remaining() < ReplayDataOffset+sizeFieldSize {
		return nil, fmt.Errorf("memory card file needs at least %d bytes, got %d: %w",
			ReplayDataOffset+sizeFieldSize, len(data), codec.ErrTruncatedInput)
	}

	entry, err := DecodeDirectoryEntry(rd)
	if err != nil {
		return nil, err
	}

	info := &Info{Entry: entry}
	// length checked above, so the individual reads cannot fail
	info.Checksum, _ = rd.U16()
	info.Flags, _ = rd.U16()
	info.LevelID, _ = rd.U8()
	info.LevelDifficulty, _ = rd.U8()
	info.LevelFloor, _ = rd.U8()
	_ = rd.Skip(1)
	info.ScorePoints, _ = rd.U32()
	info.Timestamp, _ = rd.U32()
	_ = rd.Skip(bannerIconSize)
	game, _ := rd.Bytes(CommentFieldSize)
	file, _ := rd.Bytes(CommentFieldSize)
	info.GameComment = cString(game)
	info.FileComment = cString(file)
	info.UncompressedSize, _ = rd.U64()
	info.PayloadSize = rd.Remaining()

	return info, nil
}

// Verify recomputes the checksum over the file data and compares it with
// the stored value
func Verify(data []byte) error {
	start := DirectoryEntrySize + ChecksumSize
	if len(data) < start {
		return fmt.Errorf("memory card file needs at least %d bytes, got %d: %w",
			start, len(data), codec.ErrTruncatedInput)
	}

	stored := uint16(data[DirectoryEntrySize])<<8 | uint16(data[DirectoryEntrySize+1])
	computed := codec.Checksum16(data[start:])
	if stored != computed {
		return fmt.Errorf("stored %#04x, computed %#04x: %w", stored, computed, ErrChecksumMismatch)
	}
	return nil
}

package gci

import (
	"fmt"
	"time"

	"github.com/ssargent/smbreplay/pkg/codec"
	"github.com/ssargent/smbreplay/pkg/replay"
)

// ErrChecksumMismatch is returned by Verify when the stored checksum does
// not match the file data
var ErrChecksumMismatch = &codec.CodecError{Message: "checksum mismatch"}

// Packager builds memory card files from replays
type Packager struct {
	now func() time.Time
}

// NewPackager creates a packager that names files from the wall clock
func NewPackager() *Packager {
	return &Packager{now: time.Now}
}

// NewPackagerWithClock creates a packager with a fixed time source
func NewPackagerWithClock(now func() time.Time) *Packager {
	return &Packager{now: now}
}

// Build packs r into a complete memory card file.
//
// Layout after the directory entry:
//
//	[checksum(2)][replay info(14)][banner+icon(0x2000)][comments(2*0x20)]
//	[uncompressed size(8)][RLE payload][zero padding]
//
// The file data following the directory entry fills a whole number of
// blocks. The checksum covers everything after itself.
func (p *Packager) Build(r *replay.Record) []byte {
	raw := replay.Encode(r)
	compressed := codec.Compress(raw)
	blocks := BlockCount(len(compressed))

	data := codec.NewWriter(blocks*BlockSize - ChecksumSize)
	data.PutU16(r.Header.Flags)
	data.PutU8(r.Header.LevelID)
	data.PutU8(r.Header.LevelDifficulty)
	data.PutU8(r.Header.LevelFloor)
	data.PutU8(0)
	data.PutU32(r.Header.ScorePoints)
	data.PutU32(0) // timestamp
	data.PutFill(bannerIconSize, bannerIconFill)
	data.PutFixed(GameName, CommentFieldSize)
	data.PutFixed(Comment(r.Header), CommentFieldSize)
	data.PutU64(uint64(len(raw)))
	data.PutBytes(compressed)
	data.PutFill(blocks*BlockSize-ChecksumSize-data.Len(), 0)

	entry := NewDirectoryEntry(FileName(p.now()), uint16(blocks))

	out := codec.NewWriter(DirectoryEntrySize + blocks*BlockSize)
	entry.Encode(out)
	out.PutU16(codec.Checksum16(data.Bytes()))
	out.PutBytes(data.Bytes())
	return out.Bytes()
}

// Build packs r using the wall clock for the file name
func Build(r *replay.Record) []byte {
	return NewPackager().Build(r)
}

// Parse extracts the replay from a memory card file. The checksum is not
// checked; use Verify for that.
func Parse(data []byte) (*replay.Record, error) {
	rd := codec.NewReader(data)
	if err := rd.Skip(ReplayDataOffset); err != nil {
		return nil, fmt.Errorf("skip to replay data: %w", err)
	}

	size, err := rd.U64()
	if err != nil {
		return nil, fmt.Errorf("read uncompressed size: %w", err)
	}
	if size > uint64(replay.Size) {
		// only the first Size bytes are ever decoded
		size = uint64(replay.Size)
	}

	raw, err := codec.DecompressSize(rd.Rest(), int(size))
	if err != nil {
		return nil, fmt.Errorf("decompress replay: %w", err)
	}

	r, err := replay.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decode replay: %w", err)
	}
	return r, nil
}

// BlockCount returns the number of blocks needed for a payload of
// compressedSize bytes
func BlockCount(compressedSize int) int {
	total := compressedSize + ReplayDataOffset + sizeFieldSize
	return (total + BlockSize - 1) / BlockSize
}

// Comment returns the second comment field for a replay header,
// e.g. "Adv.FL2 - smb-build-replay"
func Comment(h replay.Header) string {
	return fmt.Sprintf("%s.FL%d%s", h.DifficultyName(), h.LevelFloor, commentSuffix)
}

// FileName returns a unique-looking card file name derived from t. It only
// needs to avoid collisions with other replays on the card.
func FileName(t time.Time) string {
	return fmt.Sprintf("%s%016x", fileNamePrefix, uint64(t.UnixMilli())*40500)
}

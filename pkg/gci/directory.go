package gci

import (
	"fmt"
	"strings"

	"github.com/ssargent/smbreplay/pkg/codec"
)

// DirectoryEntry is the fixed header a memory card filesystem reads to
// locate and describe a stored file
type DirectoryEntry struct {
	GameCode        uint32
	MakerCode       uint16
	BannerFormat    uint8
	FileName        string
	ModifiedTime    uint32
	ImageOffset     uint32
	IconFormat      uint16
	AnimationSpeed  uint16
	Permissions     uint8
	CopyCounter     uint8
	FirstBlock      uint16
	BlockCount      uint16
	CommentsAddress uint32
}

// NewDirectoryEntry returns the entry used for replay files
func NewDirectoryEntry(fileName string, blocks uint16) DirectoryEntry {
	return DirectoryEntry{
		GameCode:        gameCode,
		MakerCode:       makerCode,
		BannerFormat:    bannerFormat,
		FileName:        fileName,
		ImageOffset:     imageOffset,
		IconFormat:      iconFormat,
		AnimationSpeed:  animationSpeed,
		Permissions:     permissions,
		BlockCount:      blocks,
		CommentsAddress: CommentsAddress,
	}
}

// Encode appends the 0x40 byte entry to w
func (e *DirectoryEntry) Encode(w *codec.Writer) {
	w.PutU32(e.GameCode)
	w.PutU16(e.MakerCode)
	w.PutU8(0xFF) // unused
	w.PutU8(e.BannerFormat)
	w.PutFixed(e.FileName, fileNameSize)
	w.PutU32(e.ModifiedTime)
	w.PutU32(e.ImageOffset)
	w.PutU16(e.IconFormat)
	w.PutU16(e.AnimationSpeed)
	w.PutU8(e.Permissions)
	w.PutU8(e.CopyCounter)
	w.PutU16(e.FirstBlock)
	w.PutU16(e.BlockCount)
	w.PutU16(0xFFFF) // unused
	w.PutU32(e.CommentsAddress)
}

// DecodeDirectoryEntry reads an entry from r
func DecodeDirectoryEntry(r *codec.Reader) (DirectoryEntry, error) {
	var e DirectoryEntry
	if r.Remaining() < DirectoryEntrySize {
		return e, fmt.Errorf("directory entry needs %d bytes, %d remain: %w",
			DirectoryEntrySize, r.Remaining(), codec.ErrTruncatedInput)
	}

	// length checked above, so the individual reads cannot fail
	e.GameCode, _ = r.U32()
	e.MakerCode, _ = r.U16()
	_ = r.Skip(1)
	e.BannerFormat, _ = r.U8()
	name, _ := r.Bytes(fileNameSize)
	e.FileName = cString(name)
	e.ModifiedTime, _ = r.U32()
	e.ImageOffset, _ = r.U32()
	e.IconFormat, _ = r.U16()
	e.AnimationSpeed, _ = r.U16()
	e.Permissions, _ = r.U8()
	e.CopyCounter, _ = r.U8()
	e.FirstBlock, _ = r.U16()
	e.BlockCount, _ = r.U16()
	_ = r.Skip(2)
	e.CommentsAddress, _ = r.U32()

	return e, nil
}

// GameID returns the four character game code followed by the maker code
func (e *DirectoryEntry) GameID() string {
	return fmt.Sprintf("%c%c%c%c%c%c",
		byte(e.GameCode>>24), byte(e.GameCode>>16), byte(e.GameCode>>8), byte(e.GameCode),
		byte(e.MakerCode>>8), byte(e.MakerCode))
}

// cString returns b up to its first NUL
func cString(b []byte) string {
	s := string(b)
	if i := strings.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	return s
}

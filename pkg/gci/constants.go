package gci

const (
	// BlockSize is the memory card allocation unit
	BlockSize = 0x2000

	// DirectoryEntrySize is the size of the header preceding the file data
	DirectoryEntrySize = 0x40

	// CommentFieldSize is the size of each of the two comment strings
	CommentFieldSize = 0x20

	// ChecksumSize is the size of the checksum at the start of the file data
	ChecksumSize = 2

	// ReplayDataOffset is the file offset of the uncompressed size field
	ReplayDataOffset = 0x2090

	// CommentsAddress is the offset of the comments within the file data
	CommentsAddress = 0x2010

	// GameName is written to the first comment field
	GameName = "Super Monkey Ball"

	fileNameSize   = 0x20
	fileNamePrefix = "smkb"
	commentSuffix  = " - smb-build-replay"

	replayInfoSize = 14
	bannerIconSize = (96*32 + 32*32) * 2
	bannerIconFill = 0xCC
	sizeFieldSize  = 8

	gameCode       = 0x474D4245 // "GMBE"
	makerCode      = 0x3850     // "8P"
	bannerFormat   = 0x2        // RGB5A3
	imageOffset    = 0x10
	iconFormat     = 0x2 // RGB5A3
	animationSpeed = 0x3 // 12 frames
	permissions    = 0x4 // no move
)

package convert

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ssargent/smbreplay/pkg/codec"
)

// ErrUnknownFormat is returned for a format name that is not recognized
var ErrUnknownFormat = &codec.CodecError{Message: "unknown format"}

// Format identifies one of the replay representations
type Format int

const (
	FormatUnknown Format = iota
	FormatBinary
	FormatJSON
	FormatYAML
	FormatGCI
)

var formatNames = map[string]Format{
	"binary": FormatBinary,
	"json":   FormatJSON,
	"yaml":   FormatYAML,
	"yml":    FormatYAML,
	"gci":    FormatGCI,
}

// Formats lists the canonical format names
func Formats() []string {
	return []string{"binary", "json", "yaml", "gci"}
}

// ParseFormat maps a format name to its Format. Matching is case
// insensitive.
func ParseFormat(name string) (Format, error) {
	f, ok := formatNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return FormatUnknown, fmt.Errorf("%q (expected one of %s): %w",
			name, strings.Join(Formats(), ", "), ErrUnknownFormat)
	}
	return f, nil
}

func (f Format) String() string {
	switch f {
	case FormatBinary:
		return "binary"
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatGCI:
		return "gci"
	default:
		return "unknown"
	}
}

// ContentType returns the media type used when serving f over HTTP
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatYAML:
		return "application/yaml"
	default:
		return "application/octet-stream"
	}
}

// Extension returns the conventional file extension for f
func (f Format) Extension() string {
	switch f {
	case FormatBinary:
		return ".bin"
	case FormatJSON:
		return ".json"
	case FormatYAML:
		return ".yaml"
	case FormatGCI:
		return ".gci"
	default:
		return ""
	}
}

// FormatFromPath guesses the format from a file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bin", ".dat", ".raw":
		return FormatBinary, nil
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".gci":
		return FormatGCI, nil
	default:
		return FormatUnknown, fmt.Errorf("cannot infer format of %q: %w", path, ErrUnknownFormat)
	}
}

package convert

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ssargent/smbreplay/pkg/gci"
	"github.com/ssargent/smbreplay/pkg/replay"
)

// Observer is notified after every conversion step. Implementations must be
// safe for concurrent use.
type Observer interface {
	ObserveConversion(from, to Format, inBytes, outBytes int, elapsed time.Duration, err error)
}

// Converter moves replays between formats. It holds no per-call state and
// may be shared between goroutines.
type Converter struct {
	packager *gci.Packager
	observer Observer
	logger   *slog.Logger
}

// Option configures a Converter
type Option func(*Converter)

// WithObserver reports conversions to o
func WithObserver(o Observer) Option {
	return func(c *Converter) {
		c.observer = o
	}
}

// WithLogger sets the logger used for debug output
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) {
		c.logger = l
	}
}

// WithPackager replaces the memory card packager, mostly to pin the clock
// used for file names
func WithPackager(p *gci.Packager) Option {
	return func(c *Converter) {
		c.packager = p
	}
}

// New creates a converter
func New(opts ...Option) *Converter {
	c := &Converter{
		packager: gci.NewPackager(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Decode parses data in format f
func (c *Converter) Decode(data []byte, f Format) (*replay.Record, error) {
	switch f {
	case FormatBinary:
		return replay.Decode(data)
	case FormatJSON:
		return replay.DecodeJSON(data)
	case FormatYAML:
		return replay.DecodeYAML(data)
	case FormatGCI:
		return gci.Parse(data)
	default:
		return nil, fmt.Errorf("decode %s: %w", f, ErrUnknownFormat)
	}
}

// Encode serializes r in format f
func (c *Converter) Encode(r *replay.Record, f Format) ([]byte, error) {
	switch f {
	case FormatBinary:
		return replay.Encode(r), nil
	case FormatJSON:
		return replay.EncodeJSON(r)
	case FormatYAML:
		return replay.EncodeYAML(r)
	case FormatGCI:
		return c.packager.Build(r), nil
	default:
		return nil, fmt.Errorf("encode %s: %w", f, ErrUnknownFormat)
	}
}

// Convert decodes data from one format and re-encodes it in another.
// Nothing is returned unless both steps succeed.
func (c *Converter) Convert(data []byte, from, to Format) ([]byte, error) {
	start := time.Now()

	out, err := c.convert(data, from, to)
	elapsed := time.Since(start)

	if c.observer != nil {
		c.observer.ObserveConversion(from, to, len(data), len(out), elapsed, err)
	}
	if err != nil {
		c.logger.Debug("conversion failed", "from", from, "to", to, "error", err)
		return nil, err
	}

	c.logger.Debug("converted replay",
		"from", from, "to", to,
		"in_bytes", len(data), "out_bytes", len(out),
		"elapsed", elapsed)
	return out, nil
}

func (c *Converter) convert(data []byte, from, to Format) ([]byte, error) {
	r, err := c.Decode(data, from)
	if err != nil {
		return nil, fmt.Errorf("read %s input: %w", from, err)
	}

	out, err := c.Encode(r, to)
	if err != nil {
		return nil, fmt.Errorf("write %s output: %w", to, err)
	}
	return out, nil
}

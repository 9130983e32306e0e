package replay

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/ssargent/smbreplay/pkg/codec"
	"gopkg.in/yaml.v3"
)

// ErrInvalidDocument is returned when a structured-text replay cannot be used
var ErrInvalidDocument = &codec.CodecError{Message: "invalid replay document"}

// Document is the structured-text form of a record. Channel values are the
// decoded floats, not the stored integers.
type Document struct {
	Root *DocumentBody `json:"root" yaml:"root"`
}

// DocumentBody holds the header and channels under the document root
type DocumentBody struct {
	Header              Header      `json:"header" yaml:"header"`
	PlayerPositionDelta [][]float32 `json:"playerPositionDelta" yaml:"playerPositionDelta,flow"`
	PlayerTilt          [][]float32 `json:"playerTilt" yaml:"playerTilt,flow"`
	Data567             [][]float32 `json:"data567" yaml:"data567,flow"`
	Data8               []float32   `json:"data8" yaml:"data8,flow"`
	StageTilt           [][]float32 `json:"stageTilt" yaml:"stageTilt,flow"`
	Flags               []uint32    `json:"flags" yaml:"flags,flow"`
}

// NewDocument wraps a record for text serialization
func NewDocument(r *Record) *Document {
	return &Document{Root: &DocumentBody{
		Header:              r.Header,
		PlayerPositionDelta: r.PlayerPositionDelta,
		PlayerTilt:          r.PlayerTilt,
		Data567:             r.Data567,
		Data8:               r.Data8,
		StageTilt:           r.StageTilt,
		Flags:               r.Flags,
	}}
}

// Record converts the document back into a normalized record
func (d *Document) Record() (*Record, error) {
	if d.Root == nil {
		return nil, fmt.Errorf("missing \"root\" object: %w", ErrInvalidDocument)
	}
	r := &Record{
		Header:              d.Root.Header,
		PlayerPositionDelta: d.Root.PlayerPositionDelta,
		PlayerTilt:          d.Root.PlayerTilt,
		Data567:             d.Root.Data567,
		Data8:               d.Root.Data8,
		Flags:               d.Root.Flags,
		StageTilt:           d.Root.StageTilt,
	}
	r.Normalize()
	return r, nil
}

// MarshalJSON writes the header fields in wire order. JSON has no NaN or
// infinity, so non-finite floats are written as null and read back as 0.
func (h Header) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range h.Fields() {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')

		if v, ok := f.Value.(float32); ok && (math.IsNaN(float64(v)) || math.IsInf(float64(v), 0)) {
			buf.WriteString("null")
			continue
		}
		value, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// EncodeJSON renders the record as a JSON document. Non-finite header floats
// become null; YAML and binary keep their exact bits.
func EncodeJSON(r *Record) ([]byte, error) {
	data, err := json.Marshal(NewDocument(r))
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return data, nil
}

// DecodeJSON parses a JSON document into a record
func DecodeJSON(data []byte) (*Record, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode json: %v: %w", err, ErrInvalidDocument)
	}
	return doc.Record()
}

// EncodeYAML renders the record as a YAML document
func EncodeYAML(r *Record) ([]byte, error) {
	data, err := yaml.Marshal(NewDocument(r))
	if err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return data, nil
}

// DecodeYAML parses a YAML document into a record
func DecodeYAML(data []byte) (*Record, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode yaml: %v: %w", err, ErrInvalidDocument)
	}
	return doc.Record()
}

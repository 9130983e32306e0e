package replay

import (
	"fmt"

	"github.com/ssargent/smbreplay/pkg/codec"
)

// Header is the fixed block at the start of every replay. Apart from the
// difficulty and floor, which name container entries, the fields are
// carried through untouched.
type Header struct {
	Flags              uint16  `json:"flags" yaml:"flags"`
	LevelID            uint8   `json:"levelID" yaml:"levelID"`
	LevelDifficulty    uint8   `json:"levelDifficulty" yaml:"levelDifficulty"`
	LevelFloor         uint8   `json:"levelFloor" yaml:"levelFloor"`
	MonkeyType         uint8   `json:"monkeyType" yaml:"monkeyType"`
	Unk06              uint16  `json:"unk_06" yaml:"unk_06"`
	Unk08              uint32  `json:"unk_08" yaml:"unk_08"`
	Unk0C              uint32  `json:"unk_0c" yaml:"unk_0c"`
	ScorePoints        uint32  `json:"scorePoints" yaml:"scorePoints"`
	Unk14              uint32  `json:"unk_14" yaml:"unk_14"`
	LevelMaxTime       uint16  `json:"levelMaxTime" yaml:"levelMaxTime"`
	ReplayTotalTime    uint16  `json:"replayTotalTime" yaml:"replayTotalTime"`
	ScoreTimeRemaining uint16  `json:"scoreTimeRemaining" yaml:"scoreTimeRemaining"`
	Unk1E              uint16  `json:"unk_1E" yaml:"unk_1E"`
	TimeWithScore      uint32  `json:"timeWithScore" yaml:"timeWithScore"`
	Unk24              float32 `json:"unk_24" yaml:"unk_24"`
	Unk28              float32 `json:"unk_28" yaml:"unk_28"`
	Unk2C              float32 `json:"unk_2c" yaml:"unk_2c"`
	Unk30              uint32  `json:"unk_30" yaml:"unk_30"`
	Unk34              uint32  `json:"unk_34" yaml:"unk_34"` // same as ReplayTotalTime in every capture seen so far
	StartPositionX     float32 `json:"startPositionX" yaml:"startPositionX"`
	StartPositionY     float32 `json:"startPositionY" yaml:"startPositionY"`
	StartPositionZ     float32 `json:"startPositionZ" yaml:"startPositionZ"`
}

// fields lists pointers to every header field in wire order
func (h *Header) fields() []any {
	return []any{
		&h.Flags,
		&h.LevelID,
		&h.LevelDifficulty,
		&h.LevelFloor,
		&h.MonkeyType,
		&h.Unk06,
		&h.Unk08,
		&h.Unk0C,
		&h.ScorePoints,
		&h.Unk14,
		&h.LevelMaxTime,
		&h.ReplayTotalTime,
		&h.ScoreTimeRemaining,
		&h.Unk1E,
		&h.TimeWithScore,
		&h.Unk24,
		&h.Unk28,
		&h.Unk2C,
		&h.Unk30,
		&h.Unk34,
		&h.StartPositionX,
		&h.StartPositionY,
		&h.StartPositionZ,
	}
}

var fieldNames = []string{
	"flags", "levelID", "levelDifficulty", "levelFloor", "monkeyType",
	"unk_06", "unk_08", "unk_0c", "scorePoints", "unk_14",
	"levelMaxTime", "replayTotalTime", "scoreTimeRemaining", "unk_1E", "timeWithScore",
	"unk_24", "unk_28", "unk_2c", "unk_30", "unk_34",
	"startPositionX", "startPositionY", "startPositionZ",
}

// Field is a single named header value
type Field struct {
	Name  string
	Value any
}

// Fields returns the header values in wire order, named as in structured
// documents
func (h Header) Fields() []Field {
	ptrs := h.fields()
	out := make([]Field, len(ptrs))
	for i, f := range ptrs {
		var v any
		switch p := f.(type) {
		case *uint8:
			v = *p
		case *uint16:
			v = *p
		case *uint32:
			v = *p
		case *float32:
			v = *p
		}
		out[i] = Field{Name: fieldNames[i], Value: v}
	}
	return out
}

// Encode appends the header to w
func (h *Header) Encode(w *codec.Writer) {
	for _, f := range h.fields() {
		switch p := f.(type) {
		case *uint8:
			w.PutU8(*p)
		case *uint16:
			w.PutU16(*p)
		case *uint32:
			w.PutU32(*p)
		case *float32:
			w.PutF32(*p)
		}
	}
}

// DecodeHeader reads a header from r
func DecodeHeader(r *codec.Reader) (Header, error) {
	var h Header
	if r.Remaining() < HeaderSize {
		return h, fmt.Errorf("header needs %d bytes, %d remain: %w", HeaderSize, r.Remaining(), codec.ErrTruncatedInput)
	}

	var err error
	for _, f := range h.fields() {
		switch p := f.(type) {
		case *uint8:
			*p, err = r.U8()
		case *uint16:
			*p, err = r.U16()
		case *uint32:
			*p, err = r.U32()
		case *float32:
			*p, err = r.F32()
		}
		if err != nil {
			return h, fmt.Errorf("header: %w", err)
		}
	}
	return h, nil
}

// DifficultyName returns the short name used in container comments
func (h *Header) DifficultyName() string {
	switch h.LevelDifficulty {
	case 0:
		return "Beg"
	case 1:
		return "Adv"
	case 2:
		return "Exp"
	default:
		return "Unk"
	}
}

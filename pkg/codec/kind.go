package codec

import "fmt"

// Kind selects the width and interpretation of a fixed-width value
type Kind uint8

const (
	U8 Kind = iota
	U16
	U32
	U64
	I8
	I16
	F32
)

// Size returns the encoded width of the kind in bytes
func (k Kind) Size() int {
	switch k {
	case U8, I8:
		return 1
	case U16, I16:
		return 2
	case U32, F32:
		return 4
	case U64:
		return 8
	}
	panic(fmt.Sprintf("codec: unknown kind %d", k))
}

// Signed reports whether values of the kind are two's complement
func (k Kind) Signed() bool {
	return k == I8 || k == I16
}

func (k Kind) String() string {
	switch k {
	case U8:
		return "u8"
	case U16:
		return "u16"
	case U32:
		return "u32"
	case U64:
		return "u64"
	case I8:
		return "i8"
	case I16:
		return "i16"
	case F32:
		return "f32"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// wrap truncates v to the kind's width and sign-extends signed kinds
func (k Kind) wrap(v int64) int64 {
	switch k {
	case I8:
		return int64(int8(v))
	case I16:
		return int64(int16(v))
	case U8:
		return int64(uint8(v))
	case U16:
		return int64(uint16(v))
	case U32, F32:
		return int64(uint32(v))
	}
	return v
}

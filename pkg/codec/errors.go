package codec

// Errors
var (
	ErrTruncatedInput  = &CodecError{"truncated input"}
	ErrInvalidEncoding = &CodecError{"invalid encoding"}
)

// CodecError represents a codec error
type CodecError struct {
	Message string
}

func (e *CodecError) Error() string {
	return e.Message
}

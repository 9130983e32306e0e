package codec

import "fmt"

const (
	rleRepeatFlag = 0x80
	rleMaxCount   = 0x7F
	// shorter runs stay in the literal stream
	rleMinRepeat = 3
)

type repeatRegion struct {
	offset int
	value  byte
	count  int
}

// Compress run-length encodes data.
//
// The output is a sequence of tags. A tag with the high bit set is a repeat
// run: the low seven bits are a count followed by the byte to repeat. A tag
// with the high bit clear is a literal run of that many raw bytes.
func Compress(data []byte) []byte {
	var regions []repeatRegion
	for i, b := range data {
		n := len(regions)
		if n == 0 || regions[n-1].count >= rleMaxCount || regions[n-1].value != b {
			regions = append(regions, repeatRegion{offset: i, value: b})
			n++
		}
		regions[n-1].count++
	}

	repeats := regions[:0]
	for _, r := range regions {
		if r.count >= rleMinRepeat {
			repeats = append(repeats, r)
		}
	}

	out := make([]byte, 0, len(data)/2+1)
	for i := 0; i < len(data); {
		if len(repeats) > 0 && repeats[0].offset == i {
			r := repeats[0]
			out = append(out, byte(r.count)|rleRepeatFlag, r.value)
			i += r.count
			repeats = repeats[1:]
			continue
		}

		end := len(data)
		if len(repeats) > 0 {
			end = repeats[0].offset
		}
		for i < end {
			n := end - i
			if n > rleMaxCount {
				n = rleMaxCount
			}
			out = append(out, byte(n))
			out = append(out, data[i:i+n]...)
			i += n
		}
	}
	return out
}

// Decompress expands a run-length encoded stream until the input is exhausted
func Decompress(src []byte) ([]byte, error) {
	return decompress(src, -1)
}

// DecompressSize expands src until size bytes have been produced. Bytes a
// final run would add past size are dropped.
func DecompressSize(src []byte, size int) ([]byte, error) {
	if size < 0 {
		return nil, fmt.Errorf("negative decompressed size %d: %w", size, ErrInvalidEncoding)
	}
	return decompress(src, size)
}

func decompress(src []byte, limit int) ([]byte, error) {
	capacity := len(src) * 2
	if limit >= 0 {
		// a two byte repeat tag expands to at most 127 bytes, so an
		// oversized limit cannot force a huge allocation
		capacity = len(src) / 2 * rleMaxCount
		if limit < capacity {
			capacity = limit
		}
	}
	out := make([]byte, 0, capacity)

	for i := 0; i < len(src) && (limit < 0 || len(out) < limit); {
		tag := src[i]
		count := int(tag &^ rleRepeatFlag)
		if tag&rleRepeatFlag != 0 {
			if i+1 >= len(src) {
				return nil, fmt.Errorf("repeat tag at offset %d has no value byte: %w", i, ErrInvalidEncoding)
			}
			value := src[i+1]
			for j := 0; j < count; j++ {
				out = append(out, value)
			}
			i += 2
		} else {
			if i+1+count > len(src) {
				return nil, fmt.Errorf("literal tag at offset %d wants %d bytes, %d remain: %w",
					i, count, len(src)-i-1, ErrInvalidEncoding)
			}
			out = append(out, src[i+1:i+1+count]...)
			i += 1 + count
		}
	}

	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

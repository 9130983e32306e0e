package codec_test

import (
	"bytes"
	"fmt"
	"log"

	"github.com/ssargent/smbreplay/pkg/codec"
)

// ExampleWriter demonstrates big-endian fixed-width encoding
func ExampleWriter() {
	w := codec.NewWriter(6)
	w.PutU16(0x3850)
	w.PutF32(1.5)

	fmt.Printf("% x\n", w.Bytes())

	r := codec.NewReader(w.Bytes())
	maker, err := r.U16()
	if err != nil {
		log.Fatal(err)
	}
	f, err := r.F32()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%#04x %v\n", maker, f)

	// Output:
	// 38 50 3f c0 00 00
	// 0x3850 1.5
}

// ExampleCompress demonstrates the run-length tag stream
func ExampleCompress() {
	data := []byte{1, 2, 7, 7, 7, 7, 3}

	packed := codec.Compress(data)
	fmt.Printf("% x\n", packed)

	unpacked, err := codec.Decompress(packed)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(bytes.Equal(data, unpacked))

	// Output:
	// 02 01 02 84 07 01 03
	// true
}

// ExampleChannel demonstrates the byte-plane layout
func ExampleChannel() {
	channel := codec.Channel{Name: "example", Dimensions: 1, Kind: codec.I16, Scale: 1}

	w := codec.NewWriter(channel.Size(3))
	channel.EncodeScalars(w, []float32{1, -1, 258})
	fmt.Printf("% x\n", w.Bytes())

	// Output:
	// 01 ff 02 00 ff 01
}

// ExampleChecksum16 demonstrates the CRC-CCITT check value
func ExampleChecksum16() {
	fmt.Printf("%#04x\n", codec.Checksum16([]byte("123456789")))

	// Output:
	// 0xd64e
}

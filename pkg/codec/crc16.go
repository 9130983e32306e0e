package codec

const crc16Polynomial = 0x1021

// Checksum16 computes the CRC-CCITT of data: polynomial 0x1021, initial
// register 0xFFFF, MSB first, final value inverted.
func Checksum16(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ crc16Polynomial
			} else {
				crc <<= 1
			}
		}
	}
	return ^crc
}

package stegano

// Bit is a single payload bit, always 0 or 1.
type Bit = uint8

// convertByteToBits unpacks one byte most significant bit first.
func convertByteToBits(b byte, dst []Bit) {
	for j := 0; j < 8; j++ {
		dst[j] = (b >> uint(7-j)) & 1
	}
}

// BytesToBits unpacks data into a bit sequence, MSB first within each byte.
func BytesToBits(data []byte) []Bit {
	bits := make([]Bit, len(data)*8)
	for i, b := range data {
		convertByteToBits(b, bits[i*8:i*8+8])
	}
	return bits
}

// BitsToBytes packs a bit sequence back into bytes. The sequence length must
// be a multiple of 8.
func BitsToBytes(bits []Bit) ([]byte, error) {
	if len(bits)%8 != 0 {
		return nil, &LengthError{Bits: len(bits)}
	}
	return assemble(bits), nil
}

// assemble packs every complete group of 8 bits and ignores a trailing
// partial group.
func assemble(bits []Bit) []byte {
	result := make([]byte, len(bits)/8)
	for i := range result {
		var b byte
		for _, bit := range bits[i*8 : i*8+8] {
			b = b<<1 | bit&1
		}
		result[i] = b
	}
	return result
}

package stegano

import (
	"crypto/aes"
	"encoding/base64"
	"image"
	"io"
)

// setBit sets the LSB of n to bit.
func setBit(n uint8, bit Bit) uint8 {
	return n&0xFE | bit&1
}

// EmbedBits writes bits into the LSBs of a copy of cover, in scan order, and
// returns the copy. The cover itself is never modified.
//
// Writing stops at the first pixel after the bits run out. If they run out
// in the middle of a pixel, the pixel's remaining channels get a 0 bit.
func EmbedBits(cover image.Image, bits []Bit) (*image.NRGBA, error) {
	if need, have := len(bits), Capacity(cover); need > have {
		return nil, &CapacityError{Need: need, Have: have}
	}

	img := ToRGB(cover)
	idx := 0
	for s := range Scan(img.Bounds()) {
		if idx >= len(bits) && s.Channel == 0 {
			break
		}
		var bit Bit
		if idx < len(bits) {
			bit = bits[idx]
		}
		off := s.offset(img)
		img.Pix[off] = setBit(img.Pix[off], bit)
		idx++
	}
	return img, nil
}

// Embed hides raw payload bytes in cover. It is the counterpart of Extract
// and carries no framing: the reader must know the payload length.
func Embed(cover image.Image, payload []byte) (*image.NRGBA, error) {
	return EmbedBits(cover, BytesToBits(payload))
}

// EmbedMessage encrypts message, frames the envelope with the terminator and
// hides it in cover.
func EmbedMessage(cover image.Image, message string, c *Cipher) (*image.NRGBA, error) {
	envelope, err := c.Encrypt(message)
	if err != nil {
		return nil, err
	}
	return EmbedBits(cover, BytesToBits([]byte(Frame(envelope))))
}

// FramedSize returns the number of bytes EmbedMessage writes for a message
// of n bytes: the base64 envelope of IV and padded ciphertext plus the
// terminator.
func FramedSize(n int) int {
	padded := (n/aes.BlockSize + 1) * aes.BlockSize
	return base64.StdEncoding.EncodedLen(aes.BlockSize+padded) + len(Terminator)
}

// MessageCapacity returns the longest message, in bytes, that EmbedMessage
// can hide in img, or -1 if not even an empty message fits.
func MessageCapacity(img image.Image) int {
	// 4 base64 characters per 3 envelope bytes.
	quads := (Capacity(img)/8 - len(Terminator)) / 4
	if quads < 0 || 3*quads < 2*aes.BlockSize {
		return -1
	}
	// One IV block, then at least one block of padded plaintext.
	blocks := (3*quads - 2*aes.BlockSize) / aes.BlockSize
	return blocks*aes.BlockSize + aes.BlockSize - 1
}

// Encode reads a cover image from r, hides message under secret and writes
// the stego image to w as PNG. Nothing is written to w on failure.
func Encode(w io.Writer, r io.Reader, secret, message string) error {
	c, err := NewCipher(secret)
	if err != nil {
		return err
	}
	cover, _, err := DecodeImage(r)
	if err != nil {
		return err
	}
	stego, err := EmbedMessage(cover, message, c)
	if err != nil {
		return err
	}
	return EncodePNG(w, stego)
}

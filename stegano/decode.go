package stegano

import (
	"image"
	"io"
)

// Extract reads n payload bytes from the LSBs of stego in scan order. No
// terminator is searched for. If the image holds fewer than 8n bits the
// result is shorter than n; callers detect truncation by its length.
func Extract(stego image.Image, n int) []byte {
	if n <= 0 {
		return []byte{}
	}
	img := ToRGB(stego)
	want := n * 8
	bits := make([]Bit, 0, min(want, Capacity(img)))
	for s := range Scan(img.Bounds()) {
		if len(bits) == want {
			break
		}
		bits = append(bits, img.Pix[s.offset(img)]&1)
	}
	return assemble(bits)
}

type scanState int

const (
	stateScanning scanState = iota
	stateFound
	stateExhausted
)

// messageScanner accumulates LSBs into bytes and looks for the framed
// envelope. '$' is outside the base64 alphabet, so the first byte that cannot
// belong to an envelope must start the terminator. Only the prefix before it
// is tried; a failed decrypt there is final because every later terminator
// match would carry that byte in its prefix.
type messageScanner struct {
	cipher *Cipher
	state  scanState

	cur     byte
	nbits   int
	decoded []byte
	end     int // offset of the first non-envelope byte, -1 until seen

	message string
}

func newMessageScanner(c *Cipher) *messageScanner {
	return &messageScanner{cipher: c, end: -1}
}

// isEnvelopeByte reports whether b can appear in a base64 envelope as
// Decrypt reads it. Line breaks are skipped by the decoder.
func isEnvelopeByte(b byte) bool {
	switch {
	case 'A' <= b && b <= 'Z', 'a' <= b && b <= 'z', '0' <= b && b <= '9':
		return true
	}
	switch b {
	case '+', '/', '=', '\r', '\n':
		return true
	}
	return false
}

func (m *messageScanner) feed(bit Bit) {
	if m.state != stateScanning {
		return
	}
	m.cur = m.cur<<1 | bit&1
	m.nbits++
	if m.nbits < 8 {
		return
	}
	m.decoded = append(m.decoded, m.cur)
	m.cur, m.nbits = 0, 0

	if m.end < 0 {
		if isEnvelopeByte(m.decoded[len(m.decoded)-1]) {
			return
		}
		m.end = len(m.decoded) - 1
	}
	if len(m.decoded) < m.end+len(Terminator) {
		return
	}
	if Locate(m.decoded[m.end:m.end+len(Terminator)]) != 0 {
		m.state = stateExhausted
		return
	}
	message, err := m.cipher.Decrypt(string(m.decoded[:m.end]))
	if err != nil {
		m.state = stateExhausted
		return
	}
	m.message = message
	m.state = stateFound
}

// ExtractMessage scans stego for a framed envelope and returns its decrypted
// message. The first terminator decides: the scan stops there whether or not
// its prefix decrypts. A missing message and a wrong key both yield
// ErrNotFound.
func ExtractMessage(stego image.Image, c *Cipher) (string, error) {
	img := ToRGB(stego)
	m := newMessageScanner(c)
	for s := range Scan(img.Bounds()) {
		m.feed(img.Pix[s.offset(img)] & 1)
		if m.state != stateScanning {
			break
		}
	}
	if m.state == stateFound {
		return m.message, nil
	}
	return "", ErrNotFound
}

// Decode reads a stego image from r and returns the message hidden in it
// under secret.
func Decode(r io.Reader, secret string) (string, error) {
	c, err := NewCipher(secret)
	if err != nil {
		return "", err
	}
	img, _, err := DecodeImage(r)
	if err != nil {
		return "", err
	}
	return ExtractMessage(img, c)
}

package stegano

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// KeySize is the length of a derived AES-256 key.
const KeySize = 32

// DeriveKey creates an AES-256 key from a secret with a single SHA-256 pass.
// The same secret always yields the same key.
func DeriveKey(secret string) [KeySize]byte {
	return sha256.Sum256([]byte(secret))
}

// Cipher encrypts messages with AES-256-CBC and wraps them in a base64
// envelope of IV followed by ciphertext.
type Cipher struct {
	block  cipher.Block
	random io.Reader
}

// CipherOption configures a Cipher.
type CipherOption func(*Cipher)

// WithRandom sets the source used for IVs. It defaults to crypto/rand.
func WithRandom(r io.Reader) CipherOption {
	return func(c *Cipher) {
		c.random = r
	}
}

// NewCipher derives a key from secret and returns a Cipher using it.
func NewCipher(secret string, opts ...CipherOption) (*Cipher, error) {
	key := DeriveKey(secret)
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, errors.Wrap(err, "stegano: block cipher failure")
	}
	c := &Cipher{block: block, random: rand.Reader}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Encrypt pads plaintext to the block size, encrypts it under a fresh IV and
// returns base64(IV || ciphertext).
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	padded := pad([]byte(plaintext), aes.BlockSize)

	out := make([]byte, aes.BlockSize+len(padded))
	iv := out[:aes.BlockSize]
	if _, err := io.ReadFull(c.random, iv); err != nil {
		return "", errors.Wrap(err, "stegano: iv generation failure")
	}
	cipher.NewCBCEncrypter(c.block, iv).CryptBlocks(out[aes.BlockSize:], padded)

	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt reverses Encrypt. The trailing pad count is trusted as-is; only a
// count that cannot be applied is rejected. All failures are reported as
// ErrDecryptFailure.
func (c *Cipher) Decrypt(envelope string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(envelope)
	if err != nil {
		return "", ErrDecryptFailure
	}
	if len(data) < 2*aes.BlockSize || len(data)%aes.BlockSize != 0 {
		return "", ErrDecryptFailure
	}

	iv, ciphertext := data[:aes.BlockSize], data[aes.BlockSize:]
	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(c.block, iv).CryptBlocks(plaintext, ciphertext)

	if !utf8.Valid(plaintext) {
		return "", ErrDecryptFailure
	}
	plaintext, ok := unpad(plaintext)
	if !ok {
		return "", ErrDecryptFailure
	}
	return string(plaintext), nil
}

// pad appends n copies of byte n so the length becomes a multiple of size.
// A full block is added when data is already aligned.
func pad(data []byte, size int) []byte {
	n := size - len(data)%size
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(data []byte) ([]byte, bool) {
	n := int(data[len(data)-1])
	if n == 0 || n > len(data) {
		return nil, false
	}
	return data[:len(data)-n], true
}

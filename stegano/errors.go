package stegano

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrDecryptFailure is returned for any envelope that cannot be turned back
	// into plaintext: malformed base64, a wrong key or a corrupted IV all look
	// the same to the caller.
	ErrDecryptFailure = errors.New("stegano: unable to decrypt payload")

	// ErrNotFound is returned when a whole image was scanned without finding a
	// terminator whose prefix decrypts.
	ErrNotFound = errors.New("stegano: no valid message found or incorrect key")
)

// CapacityError reports a payload that does not fit in the cover image.
// Nothing has been written when it is returned.
type CapacityError struct {
	Need int // payload bits
	Have int // container bits
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("stegano: payload too large: %d bits > %d bits of capacity", e.Need, e.Have)
}

// LengthError reports a bit sequence that cannot be packed into whole bytes.
type LengthError struct {
	Bits int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("stegano: %d bits is not a multiple of 8", e.Bits)
}

package stegano

import "bytes"

// Terminator marks the end of an embedded envelope.
//
// The base64 alphabet has no '$', so a real envelope never contains it, but
// arbitrary LSB noise ahead of the real terminator can. The first match
// wins; a message behind a false match is not recovered.
const Terminator = "$$$"

var terminator = []byte(Terminator)

// Frame appends the terminator to an envelope.
func Frame(envelope string) string {
	return envelope + Terminator
}

// Locate returns the offset of the first terminator in decoded, or -1.
func Locate(decoded []byte) int {
	return bytes.Index(decoded, terminator)
}

package stegano

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"math/rand"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestEmbedExtractRoundTrip(t *testing.T) {
	cover := testCover(40, 30, 1)
	rng := rand.New(rand.NewSource(2))
	for _, n := range []int{0, 1, 3, 100, Capacity(cover) / 8} {
		payload := make([]byte, n)
		rng.Read(payload)

		stego, err := Embed(cover, payload)
		require.NoError(t, err)
		require.Equal(t, payload, Extract(stego, n))
	}
}

func TestEmbedCapacityBoundary(t *testing.T) {
	cover := testCover(10, 10, 3)
	capacity := Capacity(cover)
	require.Equal(t, 300, capacity)

	_, err := EmbedBits(cover, make([]Bit, capacity))
	require.NoError(t, err)

	_, err = EmbedBits(cover, make([]Bit, capacity+1))
	var capErr *CapacityError
	require.True(t, errors.As(err, &capErr))
	require.Equal(t, capacity+1, capErr.Need)
	require.Equal(t, capacity, capErr.Have)

	// 8x8 pixels hold exactly 24 bytes.
	small := testCover(8, 8, 4)
	_, err = Embed(small, make([]byte, 24))
	require.NoError(t, err)
	_, err = Embed(small, make([]byte, 25))
	require.True(t, errors.As(err, &capErr))
}

func TestEmbedLeavesCoverUntouched(t *testing.T) {
	cover := testCover(16, 16, 5)
	before := append([]byte(nil), cover.Pix...)

	_, err := Embed(cover, []byte("payload"))
	require.NoError(t, err)
	require.Equal(t, before, cover.Pix)
}

func TestEmbedPixelWritesAreAtomic(t *testing.T) {
	white := color.NRGBA{0xFF, 0xFF, 0xFF, 0xFF}
	cover := uniform(2, 1, white)

	stego, err := EmbedBits(cover, []Bit{1})
	require.NoError(t, err)

	// The first pixel is written whole: the bit, then zero fill.
	require.Equal(t, color.NRGBA{0xFF, 0xFE, 0xFE, 0xFF}, stego.NRGBAAt(0, 0))
	// Writing stops once the bits run out.
	require.Equal(t, white, stego.NRGBAAt(1, 0))
}

func TestEmbedOnlyTouchesLSB(t *testing.T) {
	cover := testCover(20, 20, 6)
	payload := make([]byte, Capacity(cover)/8)
	rand.New(rand.NewSource(7)).Read(payload)

	stego, err := Embed(cover, payload)
	require.NoError(t, err)
	for i := range cover.Pix {
		require.Equal(t, cover.Pix[i]&0xFE, stego.Pix[i]&0xFE)
	}
}

func TestEmbedNonZeroOrigin(t *testing.T) {
	cover := testCover(12, 12, 8).SubImage(image.Rect(2, 3, 10, 11))
	stego, err := Embed(cover, []byte("offset"))
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 8, 8), stego.Bounds())
	require.Equal(t, []byte("offset"), Extract(stego, 6))
}

func TestExtractTruncates(t *testing.T) {
	cover := testCover(2, 2, 9) // 12 bits
	require.Len(t, Extract(cover, 5), 1)
	require.Empty(t, Extract(cover, 0))
	require.Empty(t, Extract(cover, -1))
}

func TestMessageRoundTrip(t *testing.T) {
	cover := testCover(100, 100, 10)
	require.Equal(t, 30000, Capacity(cover))

	c := newTestCipher(t, "secret")
	for _, msg := range []string{"hi", "", "ünïcödé ✓", strings.Repeat("long message ", 100)} {
		stego, err := EmbedMessage(cover, msg, c)
		require.NoError(t, err)

		got, err := ExtractMessage(stego, c)
		require.NoError(t, err)
		require.Equal(t, msg, got)
	}
}

func TestEncodeDecodePNG(t *testing.T) {
	var coverPNG bytes.Buffer
	require.NoError(t, EncodePNG(&coverPNG, testCover(100, 100, 11)))

	var stegoPNG bytes.Buffer
	require.NoError(t, Encode(&stegoPNG, bytes.NewReader(coverPNG.Bytes()), "secret", "hi"))

	got, err := Decode(bytes.NewReader(stegoPNG.Bytes()), "secret")
	require.NoError(t, err)
	require.Equal(t, "hi", got)

	_, err = Decode(bytes.NewReader(stegoPNG.Bytes()), "wrong")
	require.True(t, errors.Is(err, ErrNotFound) || errors.Is(err, ErrDecryptFailure))
}

func TestEncodeCapacityWritesNothing(t *testing.T) {
	var coverPNG bytes.Buffer
	require.NoError(t, EncodePNG(&coverPNG, testCover(4, 4, 12)))

	var out bytes.Buffer
	err := Encode(&out, bytes.NewReader(coverPNG.Bytes()), "secret", "far too long for a 4x4 image")
	var capErr *CapacityError
	require.True(t, errors.As(err, &capErr))
	require.Zero(t, out.Len())
}

func TestLossyReencodingDestroysMessage(t *testing.T) {
	stego, err := EmbedMessage(testCover(64, 64, 13), "hi", newTestCipher(t, "secret"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, stego, &jpeg.Options{Quality: 75}))
	_, err = Decode(&buf, "secret")
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestExtractMessageNoMessage(t *testing.T) {
	_, err := ExtractMessage(testCover(50, 50, 14), newTestCipher(t, "secret"))
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestDecodeRejectsNonImage(t *testing.T) {
	_, err := Decode(strings.NewReader("not an image"), "secret")
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrNotFound))
}

func TestMessageScannerFindsEnvelope(t *testing.T) {
	c := newTestCipher(t, "secret")
	envelope, err := c.Encrypt("hi")
	require.NoError(t, err)

	m := newMessageScanner(c)
	for _, bit := range BytesToBits([]byte(Frame(envelope) + "trailing$$$")) {
		m.feed(bit)
	}
	require.Equal(t, stateFound, m.state)
	require.Equal(t, "hi", m.message)
	require.Len(t, m.decoded, len(envelope)+len(Terminator))
}

func TestMessageScannerFirstTerminatorDecides(t *testing.T) {
	c := newTestCipher(t, "secret")
	envelope, err := c.Encrypt("hi")
	require.NoError(t, err)

	// A real frame behind a false terminator is not recovered.
	m := newMessageScanner(c)
	for _, bit := range BytesToBits([]byte("xy$$$" + Frame(envelope))) {
		m.feed(bit)
	}
	require.Equal(t, stateExhausted, m.state)
	require.Empty(t, m.message)
	require.Len(t, m.decoded, 5)
}

func TestMessageScannerStopsAtForeignByte(t *testing.T) {
	m := newMessageScanner(newTestCipher(t, "secret"))
	for _, bit := range BytesToBits([]byte("ab#cdef$$$")) {
		m.feed(bit)
	}
	require.Equal(t, stateExhausted, m.state)
	require.Len(t, m.decoded, 5)

	m = newMessageScanner(m.cipher)
	for _, bit := range BytesToBits([]byte("ab$$")) {
		m.feed(bit)
	}
	require.Equal(t, stateScanning, m.state)
}

func TestExtractMessageTerminatorFlood(t *testing.T) {
	cover := testCover(300, 300, 17)
	stego, err := Embed(cover, bytes.Repeat([]byte("$"), Capacity(cover)/8))
	require.NoError(t, err)

	c := newTestCipher(t, "secret")
	_, err = ExtractMessage(stego, c)
	require.True(t, errors.Is(err, ErrNotFound))

	// The scan gives up on the first terminator instead of retrying every
	// later one.
	img := ToRGB(stego)
	m := newMessageScanner(c)
	for s := range Scan(img.Bounds()) {
		m.feed(img.Pix[s.offset(img)] & 1)
	}
	require.Equal(t, stateExhausted, m.state)
	require.Len(t, m.decoded, len(Terminator))
}

func TestExtractMessageToleratesNoise(t *testing.T) {
	// LSB noise full of terminators ahead of nothing valid.
	payload := bytes.Repeat([]byte("ab$$$"), 200)
	stego, err := Embed(testCover(60, 60, 15), payload)
	require.NoError(t, err)

	_, err = ExtractMessage(stego, newTestCipher(t, "secret"))
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestMessageCapacity(t *testing.T) {
	cover := testCover(100, 100, 16)
	n := MessageCapacity(cover)
	require.Equal(t, 2783, n)
	require.LessOrEqual(t, FramedSize(n)*8, Capacity(cover))
	require.Greater(t, FramedSize(n+1)*8, Capacity(cover))

	c := newTestCipher(t, "secret")
	_, err := EmbedMessage(cover, strings.Repeat("a", n), c)
	require.NoError(t, err)
	_, err = EmbedMessage(cover, strings.Repeat("a", n+1), c)
	var capErr *CapacityError
	require.True(t, errors.As(err, &capErr))

	require.Equal(t, -1, MessageCapacity(testCover(2, 2, 17)))

	// 126 pixels hold exactly the 47-byte frame of a one-block envelope.
	require.Equal(t, 15, MessageCapacity(testCover(126, 1, 18)))
	require.Equal(t, -1, MessageCapacity(testCover(125, 1, 18)))
}

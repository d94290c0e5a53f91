package stegano

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmbedImageKeepsCoverHighNibble(t *testing.T) {
	cover := testCover(32, 24, 20)
	secret := testCover(10, 10, 21)

	stego, err := EmbedImage(cover, secret)
	require.NoError(t, err)
	require.Equal(t, cover.Bounds(), stego.Bounds())
	for s := range Scan(cover.Bounds()) {
		off := s.offset(cover)
		require.Equal(t, cover.Pix[off]&0xF0, stego.Pix[off]&0xF0)
	}
}

func TestImageRoundTripQuantized(t *testing.T) {
	cover := testCover(40, 30, 22)
	secret := uniform(17, 9, color.NRGBA{200, 100, 37, 0xFF})

	stego, err := EmbedImage(cover, secret)
	require.NoError(t, err)

	revealed, err := ExtractImage(stego, image.Pt(25, 25))
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 25, 25), revealed.Bounds())

	want := color.NRGBA{192, 96, 32, 0xFF}
	for y := 0; y < 25; y++ {
		for x := 0; x < 25; x++ {
			require.Equal(t, want, revealed.NRGBAAt(x, y))
		}
	}
}

func TestExtractImageMultiplesOf16(t *testing.T) {
	stego, err := EmbedImage(testCover(30, 30, 23), testCover(50, 40, 24))
	require.NoError(t, err)

	revealed, err := ExtractImage(stego, image.Pt(45, 20))
	require.NoError(t, err)
	for s := range Scan(revealed.Bounds()) {
		require.Zero(t, revealed.Pix[s.offset(revealed)]%16)
	}
}

func TestNibbleErrors(t *testing.T) {
	cover := testCover(8, 8, 25)

	_, err := EmbedImage(cover, image.NewNRGBA(image.Rect(0, 0, 0, 0)))
	require.Error(t, err)

	_, err = ExtractImage(cover, image.Pt(0, 10))
	require.Error(t, err)
	_, err = ExtractImage(image.NewNRGBA(image.Rect(0, 0, 0, 0)), image.Pt(10, 10))
	require.Error(t, err)
}

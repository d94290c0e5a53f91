package stegano

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"

	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// Channels is the number of colour channels carrying payload per pixel.
const Channels = 3

// ToRGB copies img into a new opaque NRGBA buffer anchored at the origin.
// Alpha is dropped, so every embedder works on the same three 8-bit
// channels no matter what the source colour model was.
func ToRGB(img image.Image) *image.NRGBA {
	bounds := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	if src, ok := img.(*image.NRGBA); ok {
		// Copy rows directly so colour survives under zero alpha.
		row := 4 * bounds.Dx()
		for y := 0; y < bounds.Dy(); y++ {
			i := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(dst.Pix[y*dst.Stride:y*dst.Stride+row], src.Pix[i:i+row])
		}
	} else {
		draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	}
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xFF
	}
	return dst
}

// Capacity returns how many payload bits img can carry at one bit per
// channel per pixel.
func Capacity(img image.Image) int {
	bounds := img.Bounds()
	return bounds.Dx() * bounds.Dy() * Channels
}

// DecodeImage reads a PNG, JPEG, GIF or BMP image.
func DecodeImage(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", errors.Wrap(err, "stegano: unable to decode image")
	}
	return img, format, nil
}

// EncodePNG writes img as PNG. Stego images must never go through a lossy
// encoder.
func EncodePNG(w io.Writer, img image.Image) error {
	return errors.Wrap(png.Encode(w, img), "stegano: unable to encode png")
}

package stegano

import (
	"image"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

// EmbedImage hides the top four bits of every channel of secret in the low
// four bits of cover. secret is first resized to cover's dimensions. The
// result keeps only the top nibble of cover.
func EmbedImage(cover, secret image.Image) (*image.NRGBA, error) {
	if secret.Bounds().Empty() {
		return nil, errors.New("stegano: secret image is empty")
	}
	dst := ToRGB(cover)
	bounds := dst.Bounds()

	src := ToRGB(secret)
	hidden := image.NewNRGBA(bounds)
	draw.CatmullRom.Scale(hidden, bounds, src, src.Bounds(), draw.Src, nil)

	for s := range Scan(bounds) {
		off := s.offset(dst)
		dst.Pix[off] = dst.Pix[off]&0xF0 | hidden.Pix[s.offset(hidden)]>>4
	}
	return dst, nil
}

// ExtractImage recovers the image hidden by EmbedImage and resizes it to
// size. Every channel value of the result is a multiple of 16.
func ExtractImage(stego image.Image, size image.Point) (*image.NRGBA, error) {
	if size.X <= 0 || size.Y <= 0 {
		return nil, errors.Errorf("stegano: invalid output size %dx%d", size.X, size.Y)
	}
	if stego.Bounds().Empty() {
		return nil, errors.New("stegano: stego image is empty")
	}
	src := ToRGB(stego)
	for s := range Scan(src.Bounds()) {
		off := s.offset(src)
		src.Pix[off] = (src.Pix[off] & 0x0F) << 4
	}

	// Nearest neighbour copies values without blending, so the 16-level
	// quantization survives the resize.
	out := image.NewNRGBA(image.Rect(0, 0, size.X, size.Y))
	draw.NearestNeighbor.Scale(out, out.Bounds(), src, src.Bounds(), draw.Src, nil)
	return out, nil
}

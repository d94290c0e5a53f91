package stegano

import (
	"image"
	"iter"
)

// Slot is one channel of one pixel in scan order.
type Slot struct {
	X, Y    int
	Channel int // 0 = R, 1 = G, 2 = B
}

// offset returns the index of the slot's channel byte in img.Pix.
func (s Slot) offset(img *image.NRGBA) int {
	return img.PixOffset(s.X, s.Y) + s.Channel
}

// Scan yields the channels of bounds in the one order shared by every
// embedder and extractor: rows top to bottom, pixels left to right within a
// row, then R, G, B within a pixel.
func Scan(bounds image.Rectangle) iter.Seq[Slot] {
	return func(yield func(Slot) bool) {
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				for c := 0; c < Channels; c++ {
					if !yield(Slot{X: x, Y: y, Channel: c}) {
						return
					}
				}
			}
		}
	}
}

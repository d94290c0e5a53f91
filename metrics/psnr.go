package metrics

import (
	"fmt"
	"image"
	"math"

	"github.com/Sudarshan-cuk/advanced-image-steganography/stegano"
)

const maxPixel = 255.0

// ShapeMismatchError is returned when two images of different dimensions are
// compared.
type ShapeMismatchError struct {
	A, B image.Point
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("metrics: images must have the same shape: %dx%d != %dx%d",
		e.A.X, e.A.Y, e.B.X, e.B.Y)
}

// PSNR returns the peak signal-to-noise ratio in dB between a and b over
// their R, G and B channels. Identical images give +Inf.
func PSNR(a, b image.Image) (float64, error) {
	sa, sb := a.Bounds().Size(), b.Bounds().Size()
	if sa != sb {
		return 0, &ShapeMismatchError{A: sa, B: sb}
	}
	mse := meanSquaredError(stegano.ToRGB(a), stegano.ToRGB(b))
	if mse == 0 {
		return math.Inf(1), nil
	}
	return 10 * math.Log10(maxPixel*maxPixel/mse), nil
}

func meanSquaredError(a, b *image.NRGBA) float64 {
	var sum float64
	var n int
	for i := 0; i < len(a.Pix); i += 4 {
		for c := 0; c < channels; c++ {
			d := float64(a.Pix[i+c]) - float64(b.Pix[i+c])
			sum += d * d
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

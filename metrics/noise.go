package metrics

import (
	"image"
	"math"
	"math/rand"

	"github.com/pkg/errors"

	"github.com/Sudarshan-cuk/advanced-image-steganography/stegano"
)

// channels compared and perturbed per pixel (R, G, B).
const channels = 3

// AddGaussianNoise returns a copy of img with zero-mean Gaussian noise of
// standard deviation sigma added to every channel independently. Values are
// normalised to [0,1] before the noise is added, clipped, then rounded back
// to 8 bits. Alpha is dropped.
func AddGaussianNoise(img image.Image, sigma float64, rng *rand.Rand) (*image.NRGBA, error) {
	if sigma < 0 || math.IsNaN(sigma) {
		return nil, errors.Errorf("metrics: sigma must be non-negative, got %v", sigma)
	}
	if rng == nil {
		return nil, errors.New("metrics: nil random source")
	}

	out := stegano.ToRGB(img)
	for i := 0; i < len(out.Pix); i += 4 {
		for c := 0; c < channels; c++ {
			v := float64(out.Pix[i+c])/255 + rng.NormFloat64()*sigma
			v = math.Min(math.Max(v, 0), 1)
			out.Pix[i+c] = uint8(math.Round(v * 255))
		}
	}
	return out, nil
}

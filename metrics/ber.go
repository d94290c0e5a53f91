package metrics

import "github.com/Sudarshan-cuk/advanced-image-steganography/stegano"

// BitErrorRate returns the fraction of positions where a and b differ. Only
// the lowest bit of each element is compared. Sequences of different length
// are maximally wrong and give 1.0; two empty sequences give 0.0.
func BitErrorRate(a, b []stegano.Bit) float64 {
	if len(a) != len(b) {
		return 1.0
	}
	if len(a) == 0 {
		return 0.0
	}
	var diff int
	for i := range a {
		if a[i]&1 != b[i]&1 {
			diff++
		}
	}
	return float64(diff) / float64(len(a))
}

// ByteErrorRate is BitErrorRate over the bits of two byte slices.
func ByteErrorRate(a, b []byte) float64 {
	return BitErrorRate(stegano.BytesToBits(a), stegano.BytesToBits(b))
}

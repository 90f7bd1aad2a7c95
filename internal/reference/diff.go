package reference

import (
	"fmt"
	"image"
	"math"
)

// MeanAbsDiff returns the mean absolute per-channel difference between two
// images of equal size, on the 0..255 scale. Fully transparent pixels
// compare equal whatever their color channels hold.
func MeanAbsDiff(a, b *image.NRGBA) (float64, error) {
	ab, bb := a.Bounds(), b.Bounds()
	if ab.Dx() != bb.Dx() || ab.Dy() != bb.Dy() {
		return 0, fmt.Errorf("reference: size mismatch %dx%d vs %dx%d", ab.Dx(), ab.Dy(), bb.Dx(), bb.Dy())
	}
	w, h := ab.Dx(), ab.Dy()
	if w == 0 || h == 0 {
		return 0, nil
	}

	var sum float64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			pa := a.Pix[a.PixOffset(ab.Min.X+x, ab.Min.Y+y):]
			pb := b.Pix[b.PixOffset(bb.Min.X+x, bb.Min.Y+y):]
			if pa[3] == 0 && pb[3] == 0 {
				continue
			}
			for k := 0; k < 4; k++ {
				sum += math.Abs(float64(pa[k]) - float64(pb[k]))
			}
		}
	}
	return sum / float64(w*h*4), nil
}

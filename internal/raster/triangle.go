package raster

import (
	"math"

	"vco-icon-geom/internal/geom"
)

// ScreenVertex is a corner already mapped to pixel space.
type ScreenVertex struct {
	X, Y  float64
	Color geom.ColorRGBA
}

// RasterizeTriangle fills a triangle with per-corner colors interpolated
// barycentrically and alpha-blended over what is already in fb. Pixel
// centers are sampled; winding does not matter.
//
// This is the hot path and does not allocate inside the pixel loop.
func RasterizeTriangle(fb *FrameBuffer, v [3]ScreenVertex) {
	x0, y0 := v[0].X, v[0].Y
	x1, y1 := v[1].X, v[1].Y
	x2, y2 := v[2].X, v[2].Y

	// Bounding box
	minX := int(math.Floor(math.Min(math.Min(x0, x1), x2)))
	maxX := int(math.Ceil(math.Max(math.Max(x0, x1), x2)))
	minY := int(math.Floor(math.Min(math.Min(y0, y1), y2)))
	maxY := int(math.Ceil(math.Max(math.Max(y0, y1), y2)))

	if minX < 0 {
		minX = 0
	}
	if maxX > fb.Width-1 {
		maxX = fb.Width - 1
	}
	if minY < 0 {
		minY = 0
	}
	if maxY > fb.Height-1 {
		maxY = fb.Height - 1
	}
	if minX > maxX || minY > maxY {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det

	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	c0, c1, c2 := v[0].Color, v[1].Color, v[2].Color

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) + 0.5 - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) + 0.5 - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1

			if w0 < -1e-9 || w1 < -1e-9 || w2 < -1e-9 {
				continue
			}

			fb.blend((rowOff+sx)*4,
				w0*c0.R+w1*c1.R+w2*c2.R,
				w0*c0.G+w1*c1.G+w2*c2.G,
				w0*c0.B+w1*c1.B+w2*c2.B,
				w0*c0.A+w1*c1.A+w2*c2.A,
			)
		}
	}
}

package raster

import (
	"image"

	"vco-icon-geom/internal/geom"
	"vco-icon-geom/internal/icon"
	"vco-icon-geom/internal/postprocess"
)

// RenderTriangles draws triangles in list order into a w×h image. The
// normalized square [-1, 1]² fills the image with +Y pointing up.
func RenderTriangles(tris []geom.Triangle, w, h int) *image.NRGBA {
	fb := NewFrameBuffer(w, h)
	sx := float64(w) / 2
	sy := float64(h) / 2
	for _, tri := range tris {
		var sv [3]ScreenVertex
		for k, c := range tri {
			sv[k] = ScreenVertex{
				X:     (c.Pos.X + 1) * sx,
				Y:     (1 - c.Pos.Y) * sy,
				Color: c.Color,
			}
		}
		RasterizeTriangle(fb, sv)
	}
	return fb.Image()
}

// RenderIcon renders a decoded icon as a size×size preview. With
// supersample > 1 it draws at a higher resolution and filters down.
func RenderIcon(doc *icon.Document, size, supersample int) *image.NRGBA {
	if supersample < 1 {
		supersample = 1
	}
	img := RenderTriangles(doc.Geometry(), size*supersample, size*supersample)
	if supersample > 1 {
		img = postprocess.Downsample(img, size)
	}
	return img
}

package raster

import "image"

// FrameBuffer holds the rendering target as a flat RGBA slice for cache
// locality. Color is straight (non-premultiplied) alpha. Draw order decides
// visibility; there is no depth buffer.
type FrameBuffer struct {
	Width  int
	Height int
	Color  []uint8 // RGBA interleaved, len = W*H*4
}

// NewFrameBuffer allocates a fully transparent buffer.
func NewFrameBuffer(w, h int) *FrameBuffer {
	return &FrameBuffer{
		Width:  w,
		Height: h,
		Color:  make([]uint8, w*h*4),
	}
}

// Image copies the buffer into an NRGBA image.
func (fb *FrameBuffer) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	copy(img.Pix, fb.Color)
	return img
}

// blend composites a straight-alpha source color over pixel i.
func (fb *FrameBuffer) blend(i int, r, g, b, a float64) {
	if a <= 0 {
		return
	}
	px := fb.Color[i : i+4 : i+4]
	if a >= 1 || px[3] == 0 {
		px[0], px[1], px[2], px[3] = clamp255(r*255), clamp255(g*255), clamp255(b*255), clamp255(a*255)
		return
	}
	da := float64(px[3]) / 255
	outA := a + da*(1-a)
	mix := func(src float64, dst uint8) uint8 {
		return clamp255((src*255*a + float64(dst)*da*(1-a)) / outA)
	}
	px[0], px[1], px[2] = mix(r, px[0]), mix(g, px[1]), mix(b, px[2])
	px[3] = clamp255(outA * 255)
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

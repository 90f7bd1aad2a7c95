package icon

import "math"

// QuantizeCoord maps f in [-1, 1] onto 0..r. Halves round to even and
// values outside the range clamp.
func QuantizeCoord(f float64, r int) uint8 {
	q := math.RoundToEven((f + 1) * 0.5 * float64(r))
	if math.IsNaN(q) || q < 0 {
		return 0
	}
	if q > float64(r) {
		return uint8(r)
	}
	return uint8(q)
}

// DequantizeCoord is the inverse of QuantizeCoord up to one step of 2/r.
func DequantizeCoord(b uint8, r int) float64 {
	if r == 0 {
		return -1
	}
	return float64(b)/float64(r)*2 - 1
}

// QuantizeColor maps a channel in [0, 1] to a byte by truncation, so
// 0.999 becomes 254 and only 1.0 reaches 255.
func QuantizeColor(c float64) uint8 {
	if math.IsNaN(c) || c <= 0 {
		return 0
	}
	if c >= 1 {
		return 255
	}
	return uint8(c * 255)
}

// DequantizeColor maps a byte back to [0, 1].
func DequantizeColor(b uint8) float64 {
	return float64(b) / 255
}

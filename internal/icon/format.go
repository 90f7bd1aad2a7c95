// Package icon reads and writes VCO geometry icons.
//
// The layout is all single bytes, so there is no byte order:
//
//	0..3  "VCO\x00"  magic; the last byte is the format version (0)
//	4     size-x     coordinate range of the X axis
//	5     size-y     coordinate range of the Y axis
//	6     start-x    reserved, 0
//	7     start-y    reserved, 0
//	8..   6 bytes per triangle: X,Y for each of its three corners
//	      12 bytes per triangle: R,G,B,A for each of its three corners
//
// Every triangle's coordinates come before the first color. There is no
// triangle count; it follows from the remaining length.
package icon

import (
	"errors"
	"fmt"
)

const (
	Magic   = "VCO\x00"
	Version = 0

	HeaderSize       = 8
	CoordBytes       = 2 * 3
	ColorBytes       = 4 * 3
	BytesPerTriangle = CoordBytes + ColorBytes

	// MaxSize is the largest pixel size per axis; MaxSize+1 still fits a byte.
	MaxSize     = 254
	MaxRange    = 255
	DefaultSize = MaxSize

	FileExt = ".dat"
)

// ErrFormat matches every *FormatError via errors.Is.
var ErrFormat = errors.New("icon: malformed document")

// FormatError reports a document that cannot be decoded.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string { return "icon: malformed document: " + e.Reason }

func (e *FormatError) Is(target error) bool { return target == ErrFormat }

// ErrRange matches every *RangeError via errors.Is.
var ErrRange = errors.New("icon: size out of range")

// RangeError reports a requested icon size that does not fit a byte once
// the alignment step is added.
type RangeError struct {
	Axis string
	Size int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("icon: size-%s %d out of range [1, %d]", e.Axis, e.Size, MaxSize)
}

func (e *RangeError) Is(target error) bool { return target == ErrRange }

// AxisRange turns a pixel size into the coordinate range written to the
// header: one more step than the size, so the far pixel edge is
// addressable (a 32 pixel icon uses 0..33).
func AxisRange(axis string, size int) (int, error) {
	if size < 1 || size > MaxSize {
		return 0, &RangeError{Axis: axis, Size: size}
	}
	return min(size+1, MaxRange), nil
}

package icon

import (
	"fmt"
	"io"

	"vco-icon-geom/internal/geom"
)

// Marshal encodes triangles for an icon of sizeX × sizeY pixels.
// Each size must be in [1, MaxSize].
func Marshal(tris []geom.Triangle, sizeX, sizeY int) ([]byte, error) {
	doc, err := Quantize(tris, sizeX, sizeY)
	if err != nil {
		return nil, err
	}
	return doc.MarshalBinary()
}

// Encode writes the encoded icon to w with a single Write call. A size
// error is reported before anything reaches w.
func Encode(w io.Writer, tris []geom.Triangle, sizeX, sizeY int) error {
	buf, err := Marshal(tris, sizeX, sizeY)
	if err != nil {
		return err
	}
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("icon: write: %w", err)
	}
	return nil
}

// Quantize converts triangles to their byte form without serializing.
func Quantize(tris []geom.Triangle, sizeX, sizeY int) (*Document, error) {
	rx, err := AxisRange("x", sizeX)
	if err != nil {
		return nil, err
	}
	ry, err := AxisRange("y", sizeY)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		RangeX:    uint8(rx),
		RangeY:    uint8(ry),
		Triangles: make([]Triangle, len(tris)),
	}
	for i, tri := range tris {
		for k, c := range tri {
			doc.Triangles[i].Coords[k] = [2]uint8{
				QuantizeCoord(c.Pos.X, rx),
				QuantizeCoord(c.Pos.Y, ry),
			}
			doc.Triangles[i].Colors[k] = [4]uint8{
				QuantizeColor(c.Color.R),
				QuantizeColor(c.Color.G),
				QuantizeColor(c.Color.B),
				QuantizeColor(c.Color.A),
			}
		}
	}
	return doc, nil
}

package icon

import (
	"bytes"
	"fmt"
	"io"

	"vco-icon-geom/internal/geom"
)

// Triangle is a triangle in encoded form.
type Triangle struct {
	Coords [3][2]uint8
	Colors [3][4]uint8
}

// Document is a decoded icon. RangeX and RangeY are the header values,
// i.e. the pixel size plus one.
type Document struct {
	RangeX    uint8
	RangeY    uint8
	StartX    uint8
	StartY    uint8
	Triangles []Triangle
}

// Size returns the pixel size the document was encoded for.
func (d *Document) Size() (x, y int) {
	return int(d.RangeX) - 1, int(d.RangeY) - 1
}

// EncodedLen is the number of bytes MarshalBinary produces.
func (d *Document) EncodedLen() int {
	return HeaderSize + BytesPerTriangle*len(d.Triangles)
}

// MarshalBinary writes the header, then all coordinates, then all colors.
func (d *Document) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, d.EncodedLen())
	buf = append(buf, Magic...)
	buf = append(buf, d.RangeX, d.RangeY, d.StartX, d.StartY)
	for _, t := range d.Triangles {
		for _, c := range t.Coords {
			buf = append(buf, c[0], c[1])
		}
	}
	for _, t := range d.Triangles {
		for _, c := range t.Colors {
			buf = append(buf, c[0], c[1], c[2], c[3])
		}
	}
	return buf, nil
}

// UnmarshalBinary parses an encoded icon. On error d is left unchanged.
func (d *Document) UnmarshalBinary(data []byte) error {
	if len(data) < HeaderSize {
		return &FormatError{Reason: fmt.Sprintf("%d bytes, header needs %d", len(data), HeaderSize)}
	}
	if string(data[:len(Magic)]) != Magic {
		return &FormatError{Reason: fmt.Sprintf("bad magic %q", data[:len(Magic)])}
	}
	body := data[HeaderSize:]
	if len(body)%BytesPerTriangle != 0 {
		return &FormatError{Reason: fmt.Sprintf("body length %d is not a multiple of %d", len(body), BytesPerTriangle)}
	}

	n := len(body) / BytesPerTriangle
	tris := make([]Triangle, n)
	coords := body[:n*CoordBytes]
	colors := body[n*CoordBytes:]
	for i := range tris {
		for k := 0; k < 3; k++ {
			c := coords[i*CoordBytes+k*2:]
			tris[i].Coords[k] = [2]uint8{c[0], c[1]}
			col := colors[i*ColorBytes+k*4:]
			tris[i].Colors[k] = [4]uint8{col[0], col[1], col[2], col[3]}
		}
	}

	*d = Document{
		RangeX:    data[4],
		RangeY:    data[5],
		StartX:    data[6],
		StartY:    data[7],
		Triangles: tris,
	}
	return nil
}

// Unmarshal decodes an icon held in memory.
func Unmarshal(data []byte) (*Document, error) {
	d := new(Document)
	if err := d.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return d, nil
}

// Decode reads an entire icon from r.
func Decode(r io.Reader) (*Document, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("icon: read: %w", err)
	}
	return Unmarshal(buf.Bytes())
}

// Geometry dequantizes the document back into normalized triangles.
func (d *Document) Geometry() []geom.Triangle {
	rx, ry := int(d.RangeX), int(d.RangeY)
	out := make([]geom.Triangle, len(d.Triangles))
	for i, t := range d.Triangles {
		for k := 0; k < 3; k++ {
			out[i][k] = geom.Corner{
				Pos: geom.Vertex2D{
					X: DequantizeCoord(t.Coords[k][0], rx),
					Y: DequantizeCoord(t.Coords[k][1], ry),
				},
				Color: geom.ColorRGBA{
					R: DequantizeColor(t.Colors[k][0]),
					G: DequantizeColor(t.Colors[k][1]),
					B: DequantizeColor(t.Colors[k][2]),
					A: DequantizeColor(t.Colors[k][3]),
				},
			}
		}
	}
	return out
}

package scene

import (
	"errors"
	"fmt"

	"vco-icon-geom/internal/mathutil"
)

// ObjectType mirrors the host tool's object type names.
type ObjectType string

const (
	TypeMesh  ObjectType = "MESH"
	TypeEmpty ObjectType = "EMPTY"
)

var (
	ErrNotMesh        = errors.New("not a mesh object")
	ErrNoVertexColors = errors.New("no vertex colors")
	ErrInvalidMesh    = errors.New("invalid mesh")
)

// Object is one node of the scene forest.
type Object struct {
	Name        string
	Type        ObjectType
	Parent      *Object
	Collections []string
	MatrixWorld mathutil.Mat4
	Properties  Properties
	Mesh        *Mesh
}

// Properties holds custom per-object settings. Zero means unset.
type Properties struct {
	SizeX int
	SizeY int
}

// Root follows the parent chain to the top-most ancestor.
func (o *Object) Root() *Object {
	r := o
	for r.Parent != nil {
		r = r.Parent
	}
	return r
}

// InCollection reports whether o is a member of the named collection.
func (o *Object) InCollection(name string) bool {
	for _, c := range o.Collections {
		if c == name {
			return true
		}
	}
	return false
}

// Color is a vertex color in [0, 1] per channel, RGBA order.
type Color [4]float64

// Loop is one polygon corner; it references a vertex by index.
type Loop struct {
	Vertex int
}

// Polygon spans Loops[LoopStart : LoopStart+LoopTotal].
type Polygon struct {
	LoopStart int
	LoopTotal int
	Normal    mathutil.Vec3
	Center    mathutil.Vec3
}

// ColorLayer holds one color per loop.
type ColorLayer struct {
	Name   string
	Active bool
	Data   []Color
}

// Mesh is the polygon data of an object in its local space.
type Mesh struct {
	Name        string
	Vertices    []mathutil.Vec3
	Loops       []Loop
	Polygons    []Polygon
	ColorLayers []ColorLayer
}

// ActiveColors returns the layer flagged active. A mesh with exactly one
// layer uses it even without the flag. Nil when there is none.
func (m *Mesh) ActiveColors() *ColorLayer {
	for i := range m.ColorLayers {
		if m.ColorLayers[i].Active {
			return &m.ColorLayers[i]
		}
	}
	if len(m.ColorLayers) == 1 {
		return &m.ColorLayers[0]
	}
	return nil
}

// HasVertexColors reports whether any color layer exists.
func (m *Mesh) HasVertexColors() bool {
	return len(m.ColorLayers) > 0
}

// PolygonPositions returns the vertex positions of p in loop order.
// Indices must already be validated.
func (m *Mesh) PolygonPositions(p Polygon) []mathutil.Vec3 {
	pts := make([]mathutil.Vec3, p.LoopTotal)
	for i := 0; i < p.LoopTotal; i++ {
		pts[i] = m.Vertices[m.Loops[p.LoopStart+i].Vertex]
	}
	return pts
}

func (m *Mesh) polygonInRange(p Polygon) bool {
	if p.LoopTotal < 3 || p.LoopStart < 0 || p.LoopStart+p.LoopTotal > len(m.Loops) {
		return false
	}
	for li := p.LoopStart; li < p.LoopStart+p.LoopTotal; li++ {
		if v := m.Loops[li].Vertex; v < 0 || v >= len(m.Vertices) {
			return false
		}
	}
	return true
}

// RecalcPolygons recomputes polygon normals and centers from the current
// vertex positions. Polygons with broken indices are left as they are.
func (m *Mesh) RecalcPolygons() {
	for i := range m.Polygons {
		if !m.polygonInRange(m.Polygons[i]) {
			continue
		}
		pts := m.PolygonPositions(m.Polygons[i])
		m.Polygons[i].Normal = mathutil.PolygonNormal(pts)
		m.Polygons[i].Center = mathutil.Centroid(pts)
	}
}

// Transform moves all vertices by mat and refreshes polygon normals and centers.
func (m *Mesh) Transform(mat mathutil.Mat4) {
	for i, v := range m.Vertices {
		m.Vertices[i] = mat.MulPoint(v)
	}
	m.RecalcPolygons()
}

// Copy returns a deep copy of m.
func (m *Mesh) Copy() *Mesh {
	c := &Mesh{
		Name:        m.Name,
		Vertices:    append([]mathutil.Vec3(nil), m.Vertices...),
		Loops:       append([]Loop(nil), m.Loops...),
		Polygons:    append([]Polygon(nil), m.Polygons...),
		ColorLayers: make([]ColorLayer, len(m.ColorLayers)),
	}
	for i, l := range m.ColorLayers {
		c.ColorLayers[i] = ColorLayer{
			Name:   l.Name,
			Active: l.Active,
			Data:   append([]Color(nil), l.Data...),
		}
	}
	return c
}

// Validate checks the loop structure and the active color layer.
// Errors wrap ErrInvalidMesh or ErrNoVertexColors.
func (m *Mesh) Validate() error {
	for pi, p := range m.Polygons {
		if p.LoopTotal < 3 {
			return fmt.Errorf("%w: polygon %d has %d loops", ErrInvalidMesh, pi, p.LoopTotal)
		}
		if p.LoopStart < 0 || p.LoopStart+p.LoopTotal > len(m.Loops) {
			return fmt.Errorf("%w: polygon %d loops [%d:%d] out of range", ErrInvalidMesh, pi, p.LoopStart, p.LoopStart+p.LoopTotal)
		}
		for li := p.LoopStart; li < p.LoopStart+p.LoopTotal; li++ {
			if v := m.Loops[li].Vertex; v < 0 || v >= len(m.Vertices) {
				return fmt.Errorf("%w: loop %d references vertex %d", ErrInvalidMesh, li, v)
			}
		}
	}
	layer := m.ActiveColors()
	if layer == nil {
		return ErrNoVertexColors
	}
	if len(layer.Data) != len(m.Loops) {
		return fmt.Errorf("%w: color layer %q has %d entries for %d loops", ErrInvalidMesh, layer.Name, len(layer.Data), len(m.Loops))
	}
	return nil
}

// Scene is a read-only snapshot of the host tool's object graph.
type Scene struct {
	Objects     []*Object
	Collections []string
	byName      map[string]*Object
}

// Object returns the object with the given name, or nil.
func (s *Scene) Object(name string) *Object {
	return s.byName[name]
}

// HasCollection reports whether the collection is declared or has members.
func (s *Scene) HasCollection(name string) bool {
	for _, c := range s.Collections {
		if c == name {
			return true
		}
	}
	for _, o := range s.Objects {
		if o.InCollection(name) {
			return true
		}
	}
	return false
}

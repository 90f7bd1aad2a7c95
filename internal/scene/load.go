package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"vco-icon-geom/internal/mathutil"
)

// Format selects the scene document encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
	FormatMsgpack
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatMsgpack:
		return "msgpack"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// FormatFromPath picks the format by file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".msgpack", ".mpk":
		return FormatMsgpack, nil
	}
	return 0, fmt.Errorf("scene: unknown document extension %q", filepath.Ext(path))
}

// document is the on-disk scene snapshot written by the host tool's dump script.
type document struct {
	Collections []string    `json:"collections,omitempty" yaml:"collections,omitempty" msgpack:"collections,omitempty"`
	Objects     []objectDoc `json:"objects" yaml:"objects" msgpack:"objects"`
}

type objectDoc struct {
	Name               string        `json:"name" yaml:"name" msgpack:"name"`
	Type               string        `json:"type,omitempty" yaml:"type,omitempty" msgpack:"type,omitempty"`
	Parent             string        `json:"parent,omitempty" yaml:"parent,omitempty" msgpack:"parent,omitempty"`
	Collections        []string      `json:"collections,omitempty" yaml:"collections,omitempty" msgpack:"collections,omitempty"`
	MatrixWorld        []float64     `json:"matrix_world,omitempty" yaml:"matrix_world,omitempty" msgpack:"matrix_world,omitempty"`
	Location           []float64     `json:"location,omitempty" yaml:"location,omitempty" msgpack:"location,omitempty"`
	RotationEuler      []float64     `json:"rotation_euler,omitempty" yaml:"rotation_euler,omitempty" msgpack:"rotation_euler,omitempty"`
	RotationQuaternion []float64     `json:"rotation_quaternion,omitempty" yaml:"rotation_quaternion,omitempty" msgpack:"rotation_quaternion,omitempty"`
	Scale              []float64     `json:"scale,omitempty" yaml:"scale,omitempty" msgpack:"scale,omitempty"`
	Properties         propertiesDoc `json:"properties,omitempty" yaml:"properties,omitempty" msgpack:"properties,omitempty"`
	Mesh               *meshDoc      `json:"mesh,omitempty" yaml:"mesh,omitempty" msgpack:"mesh,omitempty"`
}

type propertiesDoc struct {
	SizeX int `json:"size_x,omitempty" yaml:"size_x,omitempty" msgpack:"size_x,omitempty"`
	SizeY int `json:"size_y,omitempty" yaml:"size_y,omitempty" msgpack:"size_y,omitempty"`
}

type meshDoc struct {
	Vertices    [][]float64     `json:"vertices" yaml:"vertices" msgpack:"vertices"`
	Polygons    []polygonDoc    `json:"polygons" yaml:"polygons" msgpack:"polygons"`
	ColorLayers []colorLayerDoc `json:"color_layers,omitempty" yaml:"color_layers,omitempty" msgpack:"color_layers,omitempty"`
}

type polygonDoc struct {
	Vertices []int     `json:"vertices" yaml:"vertices" msgpack:"vertices"`
	Normal   []float64 `json:"normal,omitempty" yaml:"normal,omitempty" msgpack:"normal,omitempty"`
	Center   []float64 `json:"center,omitempty" yaml:"center,omitempty" msgpack:"center,omitempty"`
}

type colorLayerDoc struct {
	Name   string      `json:"name" yaml:"name" msgpack:"name"`
	Active bool        `json:"active,omitempty" yaml:"active,omitempty" msgpack:"active,omitempty"`
	Colors [][]float64 `json:"colors" yaml:"colors" msgpack:"colors"`
}

// Load reads a scene document, choosing the decoder by extension.
func Load(path string) (*Scene, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("scene: open %s: %w", path, err)
	}
	defer f.Close()

	s, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("scene: load %s: %w", path, err)
	}
	return s, nil
}

// Decode parses a scene document from r.
func Decode(r io.Reader, format Format) (*Scene, error) {
	var doc document
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case FormatMsgpack:
		if err := msgpack.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode msgpack: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format %v", format)
	}
	return build(&doc)
}

func build(doc *document) (*Scene, error) {
	s := &Scene{
		Collections: append([]string(nil), doc.Collections...),
		byName:      make(map[string]*Object, len(doc.Objects)),
	}

	for i := range doc.Objects {
		od := &doc.Objects[i]
		if od.Name == "" {
			return nil, fmt.Errorf("object %d: empty name", i)
		}
		if _, dup := s.byName[od.Name]; dup {
			return nil, fmt.Errorf("object %q: duplicate name", od.Name)
		}
		ob, err := buildObject(od)
		if err != nil {
			return nil, fmt.Errorf("object %q: %w", od.Name, err)
		}
		s.byName[ob.Name] = ob
		s.Objects = append(s.Objects, ob)
	}

	// Parents resolve in a second pass so documents may list children first.
	for i, od := range doc.Objects {
		if od.Parent == "" {
			continue
		}
		p := s.byName[od.Parent]
		if p == nil {
			return nil, fmt.Errorf("object %q: unknown parent %q", od.Name, od.Parent)
		}
		s.Objects[i].Parent = p
	}
	for _, ob := range s.Objects {
		steps := 0
		for p := ob.Parent; p != nil; p = p.Parent {
			if steps++; steps > len(s.Objects) {
				return nil, fmt.Errorf("object %q: parent cycle", ob.Name)
			}
		}
	}
	return s, nil
}

func buildObject(od *objectDoc) (*Object, error) {
	ob := &Object{
		Name:        od.Name,
		Type:        ObjectType(strings.ToUpper(od.Type)),
		Collections: append([]string(nil), od.Collections...),
		Properties:  Properties{SizeX: od.Properties.SizeX, SizeY: od.Properties.SizeY},
	}
	if ob.Type == "" {
		ob.Type = TypeEmpty
		if od.Mesh != nil {
			ob.Type = TypeMesh
		}
	}

	m, err := buildMatrix(od)
	if err != nil {
		return nil, err
	}
	ob.MatrixWorld = m

	if od.Mesh != nil {
		me, err := buildMesh(od.Name, od.Mesh)
		if err != nil {
			return nil, err
		}
		ob.Mesh = me
	}
	return ob, nil
}

func vec3(name string, v []float64, def mathutil.Vec3) (mathutil.Vec3, error) {
	switch len(v) {
	case 0:
		return def, nil
	case 3:
		return mathutil.Vec3{v[0], v[1], v[2]}, nil
	}
	return def, fmt.Errorf("%s: want 3 components, got %d", name, len(v))
}

func buildMatrix(od *objectDoc) (mathutil.Mat4, error) {
	if len(od.MatrixWorld) > 0 {
		if len(od.MatrixWorld) != 16 {
			return mathutil.Mat4{}, fmt.Errorf("matrix_world: want 16 values, got %d", len(od.MatrixWorld))
		}
		var m mathutil.Mat4
		copy(m[:], od.MatrixWorld)
		return m, nil
	}

	loc, err := vec3("location", od.Location, mathutil.Vec3{})
	if err != nil {
		return mathutil.Mat4{}, err
	}
	scale, err := vec3("scale", od.Scale, mathutil.Vec3{1, 1, 1})
	if err != nil {
		return mathutil.Mat4{}, err
	}

	rot := mathutil.Mat3Identity()
	switch {
	case len(od.RotationQuaternion) == 4:
		q := od.RotationQuaternion
		rot = mathutil.QuatToMat3(mathutil.QuatWXYZ(q[0], q[1], q[2], q[3]))
	case len(od.RotationQuaternion) != 0:
		return mathutil.Mat4{}, fmt.Errorf("rotation_quaternion: want 4 components, got %d", len(od.RotationQuaternion))
	default:
		e, err := vec3("rotation_euler", od.RotationEuler, mathutil.Vec3{})
		if err != nil {
			return mathutil.Mat4{}, err
		}
		rot = mathutil.EulerXYZ(e[0], e[1], e[2])
	}

	linear := mathutil.Mat3Mul(rot, mathutil.Mat3Diag(scale[0], scale[1], scale[2]))
	return mathutil.FromMat3Translation(linear, loc), nil
}

func buildMesh(name string, md *meshDoc) (*Mesh, error) {
	me := &Mesh{
		Name:     name,
		Vertices: make([]mathutil.Vec3, len(md.Vertices)),
		Polygons: make([]Polygon, len(md.Polygons)),
	}
	for i, v := range md.Vertices {
		if len(v) == 0 {
			return nil, fmt.Errorf("vertex %d: empty", i)
		}
		p, err := vec3(fmt.Sprintf("vertex %d", i), v, mathutil.Vec3{})
		if err != nil {
			return nil, err
		}
		me.Vertices[i] = p
	}

	for i, pd := range md.Polygons {
		poly := Polygon{LoopStart: len(me.Loops), LoopTotal: len(pd.Vertices)}
		for _, vi := range pd.Vertices {
			me.Loops = append(me.Loops, Loop{Vertex: vi})
		}
		me.Polygons[i] = poly
	}

	for _, ld := range md.ColorLayers {
		layer := ColorLayer{Name: ld.Name, Active: ld.Active, Data: make([]Color, len(ld.Colors))}
		for i, c := range ld.Colors {
			switch len(c) {
			case 3:
				layer.Data[i] = Color{c[0], c[1], c[2], 1}
			case 4:
				layer.Data[i] = Color{c[0], c[1], c[2], c[3]}
			default:
				return nil, fmt.Errorf("color layer %q entry %d: want 3 or 4 channels, got %d", ld.Name, i, len(c))
			}
		}
		me.ColorLayers = append(me.ColorLayers, layer)
	}

	// Normals and centers supplied by the host win; missing ones are derived,
	// but only for polygons whose indices are usable.
	for i, pd := range md.Polygons {
		poly := &me.Polygons[i]
		usable := me.polygonInRange(*poly)
		var pts []mathutil.Vec3
		if usable {
			pts = me.PolygonPositions(*poly)
		}

		n, err := vec3("normal", pd.Normal, mathutil.Vec3{})
		if err != nil {
			return nil, fmt.Errorf("polygon %d: %w", i, err)
		}
		if len(pd.Normal) == 0 && usable {
			n = mathutil.PolygonNormal(pts)
		}
		c, err := vec3("center", pd.Center, mathutil.Vec3{})
		if err != nil {
			return nil, fmt.Errorf("polygon %d: %w", i, err)
		}
		if len(pd.Center) == 0 && usable {
			c = mathutil.Centroid(pts)
		}
		poly.Normal, poly.Center = n, c
	}
	return me, nil
}

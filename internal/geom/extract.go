package geom

import (
	"errors"
	"math"
	"sort"

	"vco-icon-geom/internal/mathutil"
	"vco-icon-geom/internal/scene"
)

// Extractor collects triangles from an object and its descendants.
// The zero value is usable; it then keeps its own scratch store.
type Extractor struct {
	// Scratch holds temporary mesh copies while an object is processed.
	Scratch *scene.Scratch
	// OnSkip is called for each child object dropped because of a
	// precondition failure. The root failing aborts Extract instead.
	OnSkip func(err *PreconditionError)
}

// Extract returns the triangles of root followed by those of children, in
// the order given (callers pass children sorted by name). Children are
// moved into root's local frame before the Z axis is dropped.
func (e *Extractor) Extract(root *scene.Object, children []*scene.Object) ([]Triangle, error) {
	scratch := e.Scratch
	if scratch == nil {
		scratch = scene.NewScratch()
	}

	var rootInv mathutil.Mat4
	if len(children) > 0 {
		inv, ok := root.MatrixWorld.Inverse()
		if !ok {
			return nil, &PreconditionError{Object: root.Name, Err: errSingularMatrix}
		}
		rootInv = inv
	}

	tris, err := extractObject(scratch, root, nil)
	if err != nil {
		return nil, err
	}

	for _, ob := range children {
		m := mathutil.Mat4Mul(rootInv, ob.MatrixWorld)
		obTris, err := extractObject(scratch, ob, &m)
		if err != nil {
			var pe *PreconditionError
			if errors.As(err, &pe) && e.OnSkip != nil {
				e.OnSkip(pe)
			}
			continue
		}
		tris = append(tris, obTris...)
	}
	return tris, nil
}

// extractObject holds one scratch copy for its whole duration and always
// gives it back, including on the error paths.
func extractObject(scratch *scene.Scratch, ob *scene.Object, m *mathutil.Mat4) ([]Triangle, error) {
	me, release, err := scratch.Acquire(ob, m)
	if err != nil {
		return nil, &PreconditionError{Object: ob.Name, Err: err}
	}
	defer release()

	if err := me.Validate(); err != nil {
		return nil, &PreconditionError{Object: ob.Name, Err: err}
	}
	return Triangulate(me), nil
}

// DepthKey is the sort key giving 100 layers per unit of Z. It truncates
// toward zero.
func DepthKey(p scene.Polygon) int {
	return int(math.Trunc(p.Center[2] * 100))
}

// Triangulate fan-triangulates the front-facing polygons of a validated
// mesh. Polygons are visited by ascending DepthKey (ties keep mesh order);
// polygons whose normal has Z <= 0 are culled.
func Triangulate(me *scene.Mesh) []Triangle {
	order := make([]int, len(me.Polygons))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return DepthKey(me.Polygons[order[a]]) < DepthKey(me.Polygons[order[b]])
	})

	colors := me.ActiveColors().Data
	corner := func(loop int) Corner {
		v := me.Vertices[me.Loops[loop].Vertex]
		c := colors[loop]
		return Corner{
			Pos:   Vertex2D{X: v[0], Y: v[1]},
			Color: ColorRGBA{R: c[0], G: c[1], B: c[2], A: c[3]},
		}
	}

	var tris []Triangle
	for _, pi := range order {
		p := me.Polygons[pi]
		if p.Normal[2] <= 0 {
			continue
		}
		first := corner(p.LoopStart)
		for i := 1; i+1 < p.LoopTotal; i++ {
			tris = append(tris, Triangle{
				first,
				corner(p.LoopStart + i),
				corner(p.LoopStart + i + 1),
			})
		}
	}
	return tris
}

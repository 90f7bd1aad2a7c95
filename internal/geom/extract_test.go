package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vco-icon-geom/internal/mathutil"
	"vco-icon-geom/internal/scene"
)

// meshObject builds a mesh object from polygons given as vertex lists;
// every loop gets the color of its polygon.
func meshObject(name string, verts []mathutil.Vec3, polys [][]int, colors []scene.Color) *scene.Object {
	me := &scene.Mesh{Name: name, Vertices: verts}
	layer := scene.ColorLayer{Name: "Col", Active: true}
	for i, p := range polys {
		poly := scene.Polygon{LoopStart: len(me.Loops), LoopTotal: len(p)}
		for _, v := range p {
			me.Loops = append(me.Loops, scene.Loop{Vertex: v})
			layer.Data = append(layer.Data, colors[i])
		}
		me.Polygons = append(me.Polygons, poly)
	}
	me.ColorLayers = []scene.ColorLayer{layer}
	me.RecalcPolygons()
	return &scene.Object{Name: name, Type: scene.TypeMesh, MatrixWorld: mathutil.Mat4Identity(), Mesh: me}
}

func translate(x, y, z float64) mathutil.Mat4 {
	return mathutil.FromMat3Translation(mathutil.Mat3Identity(), mathutil.Vec3{x, y, z})
}

var (
	red   = scene.Color{1, 0, 0, 1}
	green = scene.Color{0, 1, 0, 1}
	blue  = scene.Color{0, 0, 1, 0.5}
)

func TestTriangulateBackfaceCull(t *testing.T) {
	ob := meshObject("Cull",
		[]mathutil.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		[][]int{{0, 1, 2}, {0, 2, 1}},
		[]scene.Color{red, green},
	)
	tris := Triangulate(ob.Mesh)
	require.Len(t, tris, 1)
	assert.Equal(t, ColorRGBA{1, 0, 0, 1}, tris[0][0].Color)

	// Edge-on polygons have normal Z == 0 and are dropped too.
	edge := meshObject("Edge",
		[]mathutil.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 0, 1}},
		[][]int{{0, 1, 2}},
		[]scene.Color{red},
	)
	assert.Empty(t, Triangulate(edge.Mesh))
}

func TestTriangulateFan(t *testing.T) {
	ob := meshObject("Quad",
		[]mathutil.Vec3{{-1, -1, 0}, {1, -1, 0}, {1, 1, 0}, {-1, 1, 0}, {-1, 0, 0}},
		[][]int{{0, 1, 2, 3, 4}},
		[]scene.Color{blue},
	)
	tris := Triangulate(ob.Mesh)
	require.Len(t, tris, 3)
	pos := func(tri Triangle) [3]Vertex2D {
		return [3]Vertex2D{tri[0].Pos, tri[1].Pos, tri[2].Pos}
	}
	assert.Equal(t, [3]Vertex2D{{-1, -1}, {1, -1}, {1, 1}}, pos(tris[0]))
	assert.Equal(t, [3]Vertex2D{{-1, -1}, {1, 1}, {-1, 1}}, pos(tris[1]))
	assert.Equal(t, [3]Vertex2D{{-1, -1}, {-1, 1}, {-1, 0}}, pos(tris[2]))
	assert.Equal(t, ColorRGBA{0, 0, 1, 0.5}, tris[2][2].Color)
}

func TestTriangulateDepthOrder(t *testing.T) {
	// Polygon i sits at height zs[i]; colors identify them.
	zs := []float64{0.5, -0.3, 0.004, -0.009, 0.2}
	cols := []scene.Color{{0.5}, {0.1}, {0.2}, {0.3}, {0.4}}
	var verts []mathutil.Vec3
	var polys [][]int
	for i, z := range zs {
		verts = append(verts, mathutil.Vec3{0, 0, z}, mathutil.Vec3{1, 0, z}, mathutil.Vec3{0, 1, z})
		polys = append(polys, []int{3 * i, 3*i + 1, 3*i + 2})
	}
	ob := meshObject("Layers", verts, polys, cols)

	var got []float64
	for _, tri := range Triangulate(ob.Mesh) {
		got = append(got, tri[0].Color.R)
	}
	// -0.3 first; 0.004 and -0.009 both truncate to key 0 and keep mesh order.
	assert.Equal(t, []float64{0.1, 0.2, 0.3, 0.4, 0.5}, got)

	assert.Equal(t, 0, DepthKey(scene.Polygon{Center: mathutil.Vec3{0, 0, -0.009}}))
	assert.Equal(t, -30, DepthKey(scene.Polygon{Center: mathutil.Vec3{0, 0, -0.3}}))
	assert.Equal(t, 123, DepthKey(scene.Polygon{Center: mathutil.Vec3{0, 0, 1.239}}))
}

func TestExtractChildrenInRootFrame(t *testing.T) {
	tri := []mathutil.Vec3{{0, 0, 0}, {0.5, 0, 0}, {0, 0.5, 0}}
	root := meshObject("Root", tri, [][]int{{0, 1, 2}}, []scene.Color{red})
	root.MatrixWorld = translate(10, 20, 0)

	child := meshObject("Child", tri, [][]int{{0, 1, 2}}, []scene.Color{green})
	child.MatrixWorld = translate(10.25, 19.5, 3)
	child.Parent = root

	// A child rotated 180 degrees about X faces away from the root's view.
	flipped := meshObject("Flipped", tri, [][]int{{0, 1, 2}}, []scene.Color{blue})
	flipped.MatrixWorld = mathutil.FromMat3Translation(mathutil.RotX(3.141592653589793), mathutil.Vec3{10, 20, 0})
	flipped.Parent = root

	var ex Extractor
	tris, err := ex.Extract(root, []*scene.Object{child, flipped})
	require.NoError(t, err)
	require.Len(t, tris, 2)

	assert.Equal(t, Vertex2D{0, 0}, tris[0][0].Pos)
	assert.InDelta(t, 0.25, tris[1][0].Pos.X, 1e-12)
	assert.InDelta(t, -0.5, tris[1][0].Pos.Y, 1e-12)
	assert.InDelta(t, 0.75, tris[1][1].Pos.X, 1e-12)
	assert.Equal(t, ColorRGBA{0, 1, 0, 1}, tris[1][0].Color)

	// Source meshes are not modified by the transform.
	assert.Equal(t, mathutil.Vec3{0.5, 0, 0}, child.Mesh.Vertices[1])
}

func TestExtractSkipsBadChildren(t *testing.T) {
	tri := []mathutil.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	root := meshObject("Root", tri, [][]int{{0, 1, 2}}, []scene.Color{red})

	broken := meshObject("Broken", tri, [][]int{{0, 1, 2}}, []scene.Color{green})
	broken.Mesh.Loops[2].Vertex = 9
	empty := &scene.Object{Name: "Empty", Type: scene.TypeEmpty, MatrixWorld: mathutil.Mat4Identity()}
	noColors := meshObject("NoColors", tri, [][]int{{0, 1, 2}}, []scene.Color{green})
	noColors.Mesh.ColorLayers = nil
	good := meshObject("Good", tri, [][]int{{0, 1, 2}}, []scene.Color{blue})

	scratch := scene.NewScratch()
	var skipped []*PreconditionError
	ex := Extractor{Scratch: scratch, OnSkip: func(err *PreconditionError) { skipped = append(skipped, err) }}

	tris, err := ex.Extract(root, []*scene.Object{broken, empty, noColors, good})
	require.NoError(t, err)
	assert.Len(t, tris, 2)
	require.Len(t, skipped, 3)
	assert.Equal(t, "Broken", skipped[0].Object)
	assert.ErrorIs(t, skipped[0], scene.ErrInvalidMesh)
	assert.ErrorIs(t, skipped[1], scene.ErrNotMesh)
	assert.ErrorIs(t, skipped[2], scene.ErrNoVertexColors)
	assert.ErrorIs(t, skipped[2], ErrPrecondition)

	assert.Equal(t, 0, scratch.Len(), "every scratch copy is released")
	assert.Equal(t, 1, scratch.Peak(), "copies are held one object at a time")
}

func TestExtractRootFailureReleasesScratch(t *testing.T) {
	tri := []mathutil.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	root := meshObject("Root", tri, [][]int{{0, 1, 2}}, []scene.Color{red})
	root.Mesh.Polygons[0].LoopTotal = 2

	scratch := scene.NewScratch()
	ex := Extractor{Scratch: scratch}
	tris, err := ex.Extract(root, nil)
	assert.Nil(t, tris)

	var pe *PreconditionError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "Root", pe.Object)
	assert.ErrorIs(t, err, scene.ErrInvalidMesh)
	assert.Equal(t, 0, scratch.Len())
	assert.Equal(t, 1, scratch.Peak())
}

func TestExtractSingularRoot(t *testing.T) {
	tri := []mathutil.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	root := meshObject("Flat", tri, [][]int{{0, 1, 2}}, []scene.Color{red})
	root.MatrixWorld = mathutil.FromMat3Translation(mathutil.Mat3Diag(1, 1, 0), mathutil.Vec3{})
	child := meshObject("Child", tri, [][]int{{0, 1, 2}}, []scene.Color{red})

	var ex Extractor
	_, err := ex.Extract(root, []*scene.Object{child})
	assert.ErrorIs(t, err, ErrPrecondition)

	// Without children the root matrix is never inverted.
	tris, err := ex.Extract(root, nil)
	require.NoError(t, err)
	assert.Len(t, tris, 1)
}

func TestExtractDeterministic(t *testing.T) {
	var verts []mathutil.Vec3
	var polys [][]int
	var cols []scene.Color
	for i := 0; i < 20; i++ {
		z := float64(i%5) * 0.013
		verts = append(verts, mathutil.Vec3{float64(i) * 0.01, 0, z}, mathutil.Vec3{1, 0, z}, mathutil.Vec3{0, 1, z})
		polys = append(polys, []int{3 * i, 3*i + 1, 3*i + 2})
		cols = append(cols, scene.Color{float64(i) / 20, 0, 0, 1})
	}
	root := meshObject("Root", verts, polys, cols)
	child := meshObject("Child", verts, polys, cols)

	var ex Extractor
	a, err := ex.Extract(root, []*scene.Object{child})
	require.NoError(t, err)
	b, err := ex.Extract(root, []*scene.Object{child})
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 40)
}

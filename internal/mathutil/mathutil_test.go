package mathutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertMat4InDelta(t *testing.T, want, got Mat4) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-9, "element %d", i)
	}
}

func TestMat4InverseRoundTrip(t *testing.T) {
	rot := EulerXYZ(math.Pi/6, -math.Pi/4, math.Pi/18)
	m := FromMat3Translation(Mat3Mul(rot, Mat3Diag(2, 0.5, 3)), Vec3{1, -2, 4})

	inv, ok := m.Inverse()
	require.True(t, ok)
	assertMat4InDelta(t, Mat4Identity(), Mat4Mul(m, inv))
	assertMat4InDelta(t, Mat4Identity(), Mat4Mul(inv, m))

	p := Vec3{0.3, 0.7, -1.1}
	back := inv.MulPoint(m.MulPoint(p))
	for k := 0; k < 3; k++ {
		assert.InDelta(t, p[k], back[k], 1e-9)
	}
}

func TestMat4InverseSingular(t *testing.T) {
	m := FromMat3Translation(Mat3Diag(1, 0, 1), Vec3{})
	inv, ok := m.Inverse()
	assert.False(t, ok)
	assert.True(t, inv.IsIdentity())
}

func TestEulerXYZOrder(t *testing.T) {
	// X first: +Y turns to +Z, then Z turns +Z in place.
	m := EulerXYZ(math.Pi/2, 0, math.Pi/2)
	v := m.MulVec3(Vec3{0, 1, 0})
	assert.InDelta(t, 0, v[0], 1e-12)
	assert.InDelta(t, 0, v[1], 1e-12)
	assert.InDelta(t, 1, v[2], 1e-12)

	// Then Z turns the X axis to +Y.
	v = m.MulVec3(Vec3{1, 0, 0})
	assert.InDelta(t, 0, v[0], 1e-12)
	assert.InDelta(t, 1, v[1], 1e-12)
	assert.InDelta(t, 0, v[2], 1e-12)
}

func TestQuatWXYZ(t *testing.T) {
	// 90 degrees around Z.
	h := math.Sqrt2 / 2
	m := QuatToMat3(QuatWXYZ(h, 0, 0, h))
	v := m.MulVec3(Vec3{1, 0, 0})
	assert.InDelta(t, 0, v[0], 1e-12)
	assert.InDelta(t, 1, v[1], 1e-12)
}

func TestPolygonNormal(t *testing.T) {
	ccw := []Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	assert.Equal(t, Vec3{0, 0, 1}, PolygonNormal(ccw))

	cw := []Vec3{{0, 0, 0}, {0, 1, 0}, {1, 0, 0}}
	assert.Equal(t, Vec3{0, 0, -1}, PolygonNormal(cw))

	quad := []Vec3{{0, 0, 1}, {2, 0, 1}, {2, 2, 1}, {0, 2, 1}}
	assert.Equal(t, Vec3{0, 0, 1}, PolygonNormal(quad))
	assert.Equal(t, Vec3{1, 1, 1}, Centroid(quad))
}

func TestMulPointHomogeneous(t *testing.T) {
	m := Mat4Identity()
	m[15] = 2
	assert.Equal(t, Vec3{1, 2, 3}, m.MulPoint(Vec3{2, 4, 6}))
}

package mathutil

import "math"

// Mat4 is a 4×4 matrix stored row-major. Object world transforms use it.
type Mat4 [16]float64

func Mat4Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mat4Mul returns a × b.
func Mat4Mul(a, b Mat4) Mat4 {
	var m Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			m[r*4+c] = a[r*4+0]*b[0*4+c] + a[r*4+1]*b[1*4+c] +
				a[r*4+2]*b[2*4+c] + a[r*4+3]*b[3*4+c]
		}
	}
	return m
}

// MulPoint transforms a 3D point (w=1). A projective bottom row is
// honored by dividing through w.
func (m Mat4) MulPoint(v Vec3) Vec3 {
	p := Vec3{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2] + m[3],
		m[4]*v[0] + m[5]*v[1] + m[6]*v[2] + m[7],
		m[8]*v[0] + m[9]*v[1] + m[10]*v[2] + m[11],
	}
	w := m[12]*v[0] + m[13]*v[1] + m[14]*v[2] + m[15]
	if w != 1 && w != 0 {
		p = p.Scale(1 / w)
	}
	return p
}

// FromMat3Translation builds a 4×4 affine matrix from a 3×3 linear part and translation.
func FromMat3Translation(r Mat3, t Vec3) Mat4 {
	return Mat4{
		r[0], r[1], r[2], t[0],
		r[3], r[4], r[5], t[1],
		r[6], r[7], r[8], t[2],
		0, 0, 0, 1,
	}
}

// Inverse returns the inverse of m using Gauss-Jordan elimination with
// partial pivoting. ok is false when m is singular.
func (m Mat4) Inverse() (inv Mat4, ok bool) {
	a := m
	inv = Mat4Identity()
	for col := 0; col < 4; col++ {
		pivot := col
		for r := col + 1; r < 4; r++ {
			if math.Abs(a[r*4+col]) > math.Abs(a[pivot*4+col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot*4+col]) < 1e-12 {
			return Mat4Identity(), false
		}
		if pivot != col {
			for c := 0; c < 4; c++ {
				a[col*4+c], a[pivot*4+c] = a[pivot*4+c], a[col*4+c]
				inv[col*4+c], inv[pivot*4+c] = inv[pivot*4+c], inv[col*4+c]
			}
		}
		s := 1 / a[col*4+col]
		for c := 0; c < 4; c++ {
			a[col*4+c] *= s
			inv[col*4+c] *= s
		}
		for r := 0; r < 4; r++ {
			if r == col {
				continue
			}
			f := a[r*4+col]
			if f == 0 {
				continue
			}
			for c := 0; c < 4; c++ {
				a[r*4+c] -= f * a[col*4+c]
				inv[r*4+c] -= f * inv[col*4+c]
			}
		}
	}
	return inv, true
}

// IsIdentity checks if the matrix is approximately identity.
func (m Mat4) IsIdentity() bool {
	id := Mat4Identity()
	for i := 0; i < 16; i++ {
		d := m[i] - id[i]
		if d > 1e-8 || d < -1e-8 {
			return false
		}
	}
	return true
}

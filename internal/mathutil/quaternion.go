package mathutil

import "math"

// Quat represents a quaternion (x, y, z, w).
type Quat [4]float64

// QuatWXYZ builds a Quat from scalar-first components, the order scene
// documents store rotation_quaternion in.
func QuatWXYZ(w, x, y, z float64) Quat {
	return Quat{x, y, z, w}
}

// QuatToMat3 converts a quaternion to a 3×3 rotation matrix.
// Non-unit input is normalized first.
func QuatToMat3(q Quat) Mat3 {
	l := math.Sqrt(q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3])
	if l < 1e-12 {
		return Mat3Identity()
	}
	x, y, z, w := q[0]/l, q[1]/l, q[2]/l, q[3]/l
	xx, yy, zz := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z

	return Mat3{
		1 - 2*(yy+zz), 2 * (xy - wz), 2 * (xz + wy),
		2 * (xy + wz), 1 - 2*(xx+zz), 2 * (yz - wx),
		2 * (xz - wy), 2 * (yz + wx), 1 - 2*(xx+yy),
	}
}

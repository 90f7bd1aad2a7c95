package mathutil

// PolygonNormal computes the unit normal of a planar or near-planar polygon
// using Newell's method. Winding is counter-clockwise for a +Z normal.
func PolygonNormal(pts []Vec3) Vec3 {
	var n Vec3
	for i := range pts {
		cur := pts[i]
		next := pts[(i+1)%len(pts)]
		n[0] += (cur[1] - next[1]) * (cur[2] + next[2])
		n[1] += (cur[2] - next[2]) * (cur[0] + next[0])
		n[2] += (cur[0] - next[0]) * (cur[1] + next[1])
	}
	return n.Normalize()
}

// Centroid returns the mean of pts. Empty input yields the origin.
func Centroid(pts []Vec3) Vec3 {
	var c Vec3
	if len(pts) == 0 {
		return c
	}
	for _, p := range pts {
		c = c.Add(p)
	}
	return c.Scale(1 / float64(len(pts)))
}

// Package geom turns scene objects into the ordered, vertex-colored
// triangle list that the icon encoder consumes.
package geom

// Vertex2D is a position in the root object's local XY plane, nominally
// in [-1, 1] on both axes.
type Vertex2D struct {
	X, Y float64
}

// ColorRGBA holds four channels in [0, 1].
type ColorRGBA struct {
	R, G, B, A float64
}

// Corner is one triangle corner.
type Corner struct {
	Pos   Vertex2D
	Color ColorRGBA
}

// Triangle is an ordered triple of corners. Colors are per corner so the
// consumer can shade smoothly.
type Triangle [3]Corner

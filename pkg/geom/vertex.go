// Package geom provides the planar primitives used by the clipper:
// vertices, polygons and axis-aligned boxes.
package geom

// Vertex is a point or vector in the plane.
type Vertex struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// V is shorthand for Vertex{X: x, Y: y}.
func V(x, y float64) Vertex {
	return Vertex{X: x, Y: y}
}

// Sub returns a - b.
func (a Vertex) Sub(b Vertex) Vertex {
	return Vertex{X: a.X - b.X, Y: a.Y - b.Y}
}

// Add returns a + b.
func (a Vertex) Add(b Vertex) Vertex {
	return Vertex{X: a.X + b.X, Y: a.Y + b.Y}
}

// Cross returns the 2D cross product a.X*b.Y - a.Y*b.X, which is twice the
// signed area of the triangle (origin, a, b).
func Cross(a, b Vertex) float64 {
	return a.X*b.Y - a.Y*b.X
}

// SideOf reports on which side of the directed line e0->e1 the point p lies.
//
//	< 0  p is on the interior (left) side
//	> 0  p is on the exterior side
//	= 0  p is on the line through e0 and e1
func SideOf(p, e0, e1 Vertex) float64 {
	return Cross(e0.Sub(e1), p.Sub(e1))
}

// LineIntersection returns the intersection of the infinite lines through
// (p0, p1) and (q0, q1). It reports false when the lines are parallel.
func LineIntersection(p0, p1, q0, q1 Vertex) (Vertex, bool) {
	dp := Cross(p0, p1)
	dq := Cross(q0, q1)
	d := Vertex{X: dp, Y: dq}
	n := Cross(p0.Sub(p1), q0.Sub(q1))
	if n == 0 {
		return Vertex{}, false
	}
	x := Cross(d, Vertex{X: p0.X - p1.X, Y: q0.X - q1.X})
	y := Cross(d, Vertex{X: p0.Y - p1.Y, Y: q0.Y - q1.Y})
	return Vertex{X: x / n, Y: y / n}, true
}

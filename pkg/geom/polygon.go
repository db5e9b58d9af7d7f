package geom

import (
	"iter"
	"math"
	"strconv"
	"strings"
)

// Polygon is a cyclic sequence of vertices. The edge from the last vertex
// back to the first is implicit. A polygon with fewer than 3 vertices is
// degenerate; the empty polygon means "no polygon".
type Polygon []Vertex

// Edge is a directed pair of adjacent polygon vertices.
type Edge struct {
	P0, P1 Vertex
}

// Edges yields every boundary edge of p. For each vertex i it yields the
// edge ending at i, so the closing edge (last, first) comes first.
// Polygons with fewer than 2 vertices have no edges.
func (p Polygon) Edges() iter.Seq[Edge] {
	return func(yield func(Edge) bool) {
		n := len(p)
		if n < 2 {
			return
		}
		prev := p[n-1]
		for _, cur := range p {
			if !yield(Edge{P0: prev, P1: cur}) {
				return
			}
			prev = cur
		}
	}
}

// IsEmpty reports whether p has no vertices.
func (p Polygon) IsEmpty() bool {
	return len(p) == 0
}

// IsDegenerate reports whether p has fewer than 3 vertices.
func (p Polygon) IsDegenerate() bool {
	return len(p) < 3
}

// SignedArea returns the shoelace area of p: positive for counter-clockwise
// rings, negative for clockwise ones.
func (p Polygon) SignedArea() float64 {
	var sum float64
	for e := range p.Edges() {
		sum += Cross(e.P0, e.P1)
	}
	return sum / 2
}

// Area returns the absolute area of p.
func (p Polygon) Area() float64 {
	return math.Abs(p.SignedArea())
}

// IsCCW reports whether p winds counter-clockwise.
func (p Polygon) IsCCW() bool {
	return p.SignedArea() > 0
}

// IsConvex reports whether p is convex: every turn has the same sign,
// ignoring collinear vertices. Degenerate polygons are not convex.
func (p Polygon) IsConvex() bool {
	return p.ConvexWithin(0)
}

// ConvexWithin is IsConvex with turns of magnitude at most tol treated as
// collinear. Clip results carry rounding noise at vertices that lie on a
// clip boundary, so derived polygons are checked with a small tol.
func (p Polygon) ConvexWithin(tol float64) bool {
	n := len(p)
	if n < 3 {
		return false
	}
	var sign float64
	for i := range p {
		a, b, c := p[i], p[(i+1)%n], p[(i+2)%n]
		turn := Cross(b.Sub(a), c.Sub(b))
		if math.Abs(turn) <= tol {
			continue
		}
		if sign == 0 {
			sign = turn
			continue
		}
		if (turn > 0) != (sign > 0) {
			return false
		}
	}
	return sign != 0
}

// Reverse returns a copy of p with the opposite winding.
func (p Polygon) Reverse() Polygon {
	out := make(Polygon, len(p))
	for i, v := range p {
		out[len(p)-1-i] = v
	}
	return out
}

// Bounds returns the smallest box covering p. The returned box is not
// validated; a degenerate polygon yields a degenerate box.
func (p Polygon) Bounds() Box {
	if len(p) == 0 {
		return Box{}
	}
	b := Box{XMin: p[0].X, YMin: p[0].Y, XMax: p[0].X, YMax: p[0].Y}
	for _, v := range p[1:] {
		b.XMin = math.Min(b.XMin, v.X)
		b.YMin = math.Min(b.YMin, v.Y)
		b.XMax = math.Max(b.XMax, v.X)
		b.YMax = math.Max(b.YMax, v.Y)
	}
	return b
}

// Contains reports whether q lies inside p using the even-odd rule.
// Points on the boundary may report either way.
func (p Polygon) Contains(q Vertex) bool {
	inside := false
	for e := range p.Edges() {
		a, b := e.P0, e.P1
		if (a.Y > q.Y) != (b.Y > q.Y) {
			x := a.X + (q.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if q.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

// Equal reports whether p and o have the same vertices in the same order,
// each coordinate within tol.
func (p Polygon) Equal(o Polygon, tol float64) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if math.Abs(p[i].X-o[i].X) > tol || math.Abs(p[i].Y-o[i].Y) > tol {
			return false
		}
	}
	return true
}

// String renders p as "Polygon x0,y0  x1,y1  ", each vertex followed by two
// spaces.
func (p Polygon) String() string {
	var sb strings.Builder
	sb.WriteString("Polygon ")
	for _, v := range p {
		sb.WriteString(formatCoord(v.X))
		sb.WriteByte(',')
		sb.WriteString(formatCoord(v.Y))
		sb.WriteString("  ")
	}
	return sb.String()
}

func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'g', 6, 64)
}

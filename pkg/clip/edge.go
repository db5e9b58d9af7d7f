package clip

import (
	"fmt"

	"github.com/chazu/hodgman/pkg/geom"
)

// ClipEdge is one oriented boundary of a convex clip region, used as a
// half-plane test.
type ClipEdge interface {
	// Inside reports whether p lies strictly on the interior side.
	// Points exactly on the boundary are exterior.
	Inside(p geom.Vertex) bool

	// Intersect returns the point where the line through the subject edge
	// (p0, p1) crosses the boundary. It reports false when the subject edge
	// is parallel to the boundary.
	Intersect(p0, p1 geom.Vertex) (geom.Vertex, bool)
}

// Compile-time interface checks.
var (
	_ ClipEdge = SegmentEdge{}
	_ ClipEdge = BoxEdge{}
)

// SegmentEdge is a directed edge of a convex clip polygon. The interior is
// on the left of P0->P1, so a counter-clockwise polygon keeps its inside.
type SegmentEdge struct {
	P0, P1 geom.Vertex
}

// Inside reports whether p is strictly left of the edge.
func (e SegmentEdge) Inside(p geom.Vertex) bool {
	return geom.SideOf(p, e.P0, e.P1) < 0
}

// Intersect uses the homogeneous line formula on the two infinite lines.
func (e SegmentEdge) Intersect(p0, p1 geom.Vertex) (geom.Vertex, bool) {
	return geom.LineIntersection(p0, p1, e.P0, e.P1)
}

func (e SegmentEdge) String() string {
	return fmt.Sprintf("segment(%g,%g -> %g,%g)", e.P0.X, e.P0.Y, e.P1.X, e.P1.Y)
}

// BoxSide names one of the four boundaries of an axis-aligned box.
type BoxSide int

const (
	Left BoxSide = iota
	Bottom
	Right
	Top
)

func (s BoxSide) String() string {
	switch s {
	case Left:
		return "left"
	case Bottom:
		return "bottom"
	case Right:
		return "right"
	case Top:
		return "top"
	default:
		return fmt.Sprintf("BoxSide(%d)", int(s))
	}
}

// BoxEdge is an axis-aligned half-plane boundary. V is the x bound for
// Left and Right, the y bound for Bottom and Top.
type BoxEdge struct {
	Side BoxSide
	V    float64
}

// Inside compares the relevant coordinate of p against V.
func (e BoxEdge) Inside(p geom.Vertex) bool {
	switch e.Side {
	case Left:
		return p.X > e.V
	case Bottom:
		return p.Y > e.V
	case Right:
		return p.X < e.V
	case Top:
		return p.Y < e.V
	}
	return false
}

// Intersect solves the subject edge p0 + t*(p1-p0) directly for the
// boundary coordinate.
func (e BoxEdge) Intersect(p0, p1 geom.Vertex) (geom.Vertex, bool) {
	switch e.Side {
	case Bottom, Top:
		dy := p1.Y - p0.Y
		if dy == 0 {
			return geom.Vertex{}, false
		}
		t := (e.V - p0.Y) / dy
		return geom.Vertex{X: p0.X + t*(p1.X-p0.X), Y: e.V}, true
	case Left, Right:
		dx := p1.X - p0.X
		if dx == 0 {
			return geom.Vertex{}, false
		}
		t := (e.V - p0.X) / dx
		return geom.Vertex{X: e.V, Y: p0.Y + t*(p1.Y-p0.Y)}, true
	}
	return geom.Vertex{}, false
}

func (e BoxEdge) String() string {
	return fmt.Sprintf("%s(%g)", e.Side, e.V)
}

// BoxEdges returns the boundaries of b in the order Left, Bottom, Right,
// Top. This is the same boundary order that the edges of geom.FromBox(b)
// produce, so clipping by either gives the same vertex sequence.
func BoxEdges(b geom.Box) ([]ClipEdge, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return []ClipEdge{
		BoxEdge{Side: Left, V: b.XMin},
		BoxEdge{Side: Bottom, V: b.YMin},
		BoxEdge{Side: Right, V: b.XMax},
		BoxEdge{Side: Top, V: b.YMax},
	}, nil
}

// PolygonEdges returns one SegmentEdge per boundary edge of the convex
// polygon p, in the order p.Edges yields them. Convexity and orientation
// are not checked.
func PolygonEdges(p geom.Polygon) []ClipEdge {
	edges := make([]ClipEdge, 0, len(p))
	for e := range p.Edges() {
		edges = append(edges, SegmentEdge{P0: e.P0, P1: e.P1})
	}
	return edges
}

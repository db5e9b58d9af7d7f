// Package kernel defines the geometry kernel used to cross-check clip
// results. Implementations represent regions as signed distance fields,
// which gives an intersection that is independent of the clipping code.
package kernel

import "github.com/chazu/hodgman/pkg/geom"

// Region is an opaque handle to a kernel region.
// Implementations wrap their internal representation.
type Region interface {
	// Bounds returns the axis-aligned bounding box.
	Bounds() geom.Box
}

// Kernel builds regions from polygons and intersects them.
type Kernel interface {
	// Polygon returns the region enclosed by p.
	Polygon(p geom.Polygon) (Region, error)

	// Intersection returns the region common to a and b.
	Intersection(a, b Region) Region

	// Distance returns the signed distance from p to the boundary of r,
	// negative inside.
	Distance(r Region, p geom.Vertex) float64
}

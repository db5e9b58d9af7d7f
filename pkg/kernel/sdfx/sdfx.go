// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"github.com/chazu/hodgman/pkg/geom"
	"github.com/chazu/hodgman/pkg/kernel"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/pkg/errors"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// sdfxRegion wraps an sdf.SDF2 to implement kernel.Region.
type sdfxRegion struct {
	s sdf.SDF2
}

// Bounds returns the axis-aligned bounding box.
func (r *sdfxRegion) Bounds() geom.Box {
	bb := r.s.BoundingBox()
	return geom.Box{XMin: bb.Min.X, YMin: bb.Min.Y, XMax: bb.Max.X, YMax: bb.Max.Y}
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct{}

// New returns a new SdfxKernel.
func New() *SdfxKernel {
	return &SdfxKernel{}
}

// unwrap extracts the underlying sdf.SDF2 from a kernel.Region.
func unwrap(r kernel.Region) sdf.SDF2 {
	return r.(*sdfxRegion).s
}

// wrap creates a kernel.Region from an sdf.SDF2.
func wrap(s sdf.SDF2) kernel.Region {
	return &sdfxRegion{s: s}
}

// Polygon returns the region enclosed by p. The field's sign does not
// depend on the winding of p.
func (k *SdfxKernel) Polygon(p geom.Polygon) (kernel.Region, error) {
	if p.IsDegenerate() {
		return nil, errors.Errorf("sdfx: polygon has %d vertices, need at least 3", len(p))
	}
	vs := make([]v2.Vec, len(p))
	for i, v := range p {
		vs[i] = v2.Vec{X: v.X, Y: v.Y}
	}
	s, err := sdf.Polygon2D(vs)
	if err != nil {
		return nil, errors.Wrap(err, "sdfx: polygon")
	}
	return wrap(s), nil
}

// Intersection returns the intersection of two regions.
func (k *SdfxKernel) Intersection(a, b kernel.Region) kernel.Region {
	return wrap(sdf.Intersect2D(unwrap(a), unwrap(b)))
}

// Distance evaluates the field of r at p.
func (k *SdfxKernel) Distance(r kernel.Region, p geom.Vertex) float64 {
	return unwrap(r).Evaluate(v2.Vec{X: p.X, Y: p.Y})
}

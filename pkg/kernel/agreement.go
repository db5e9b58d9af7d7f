package kernel

import (
	"math"

	"github.com/chazu/hodgman/pkg/geom"
	"github.com/pkg/errors"
)

// DefaultSamples is the grid resolution per axis used when a caller passes
// a non-positive sample count.
const DefaultSamples = 64

// boundaryTolerance is the fraction of the sampled extent within which a
// point counts as on a boundary and is not compared.
const boundaryTolerance = 1e-6

// Report summarizes a sampled comparison of a clip result against the
// kernel intersection of its operands.
type Report struct {
	Compared int // grid points away from every boundary
	Agreed   int // compared points classified the same way by both
}

// Ratio returns Agreed/Compared, or 1 when nothing was compared.
func (r Report) Ratio() float64 {
	if r.Compared == 0 {
		return 1
	}
	return float64(r.Agreed) / float64(r.Compared)
}

// Agreement samples a samples x samples grid over the bounds of subject
// and reports for how many points "inside the kernel intersection of
// subject and region" matches "inside result". Points within a small
// tolerance of the subject or region boundary are skipped.
//
// A degenerate subject has nothing to sample and yields an empty report.
func Agreement(k Kernel, subject, region, result geom.Polygon, samples int) (Report, error) {
	if subject.IsDegenerate() {
		return Report{}, nil
	}
	if samples <= 0 {
		samples = DefaultSamples
	}

	subj, err := k.Polygon(subject)
	if err != nil {
		return Report{}, errors.Wrap(err, "kernel: subject")
	}
	reg, err := k.Polygon(region)
	if err != nil {
		return Report{}, errors.Wrap(err, "kernel: region")
	}
	inter := k.Intersection(subj, reg)

	b := subject.Bounds()
	tol := boundaryTolerance * math.Max(b.Width(), b.Height())
	// Cell centres, so no sample sits on the bounding box itself.
	dx := b.Width() / float64(samples)
	dy := b.Height() / float64(samples)

	var rep Report
	for i := 0; i < samples; i++ {
		for j := 0; j < samples; j++ {
			p := geom.V(b.XMin+(float64(i)+0.5)*dx, b.YMin+(float64(j)+0.5)*dy)
			if math.Abs(k.Distance(subj, p)) <= tol || math.Abs(k.Distance(reg, p)) <= tol {
				continue
			}
			rep.Compared++
			if (k.Distance(inter, p) < 0) == result.Contains(p) {
				rep.Agreed++
			}
		}
	}
	return rep, nil
}

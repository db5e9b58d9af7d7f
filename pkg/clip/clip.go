// Package clip implements Sutherland-Hodgman clipping of a subject polygon
// against a convex clip region. The clip region is given as a sequence of
// ClipEdge values, so the same loop serves polygon regions (SegmentEdge)
// and axis-aligned boxes (BoxEdge).
package clip

import (
	"slices"

	"github.com/chazu/hodgman/pkg/geom"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrParallelEdge is returned under FailParallel when a subject edge that
// crosses a clip boundary turns out to be parallel to it.
var ErrParallelEdge = errors.New("clip: subject edge parallel to clip boundary at a crossing")

// ParallelPolicy selects what happens when a crossing has no intersection
// point.
type ParallelPolicy int

const (
	// SkipParallel emits nothing for the crossing and keeps clipping.
	SkipParallel ParallelPolicy = iota
	// FailParallel aborts with ErrParallelEdge.
	FailParallel
)

func (p ParallelPolicy) String() string {
	switch p {
	case SkipParallel:
		return "skip"
	case FailParallel:
		return "fail"
	default:
		return "unknown"
	}
}

// Option configures a Clipper.
type Option func(*Clipper)

// WithPolicy sets the parallel-crossing policy.
func WithPolicy(p ParallelPolicy) Option {
	return func(c *Clipper) { c.policy = p }
}

// WithLogger sets the logger used to report skipped crossings.
func WithLogger(l *zap.Logger) Option {
	return func(c *Clipper) {
		if l != nil {
			c.log = l
		}
	}
}

// Clipper runs the clipping loop. A Clipper is immutable once built and
// safe for concurrent use.
type Clipper struct {
	policy ParallelPolicy
	log    *zap.Logger
}

// New returns a Clipper. The default policy is SkipParallel.
func New(opts ...Option) *Clipper {
	c := &Clipper{policy: SkipParallel, log: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Policy returns the configured parallel-crossing policy.
func (c *Clipper) Policy() ParallelPolicy {
	return c.policy
}

// Clip intersects subject with the region bounded by edges. The result
// keeps the subject's orientation. An empty result means the subject and
// region do not overlap.
func (c *Clipper) Clip(subject geom.Polygon, edges []ClipEdge) (geom.Polygon, error) {
	out := slices.Clone(subject)
	for i, ce := range edges {
		in := out
		out = make(geom.Polygon, 0, len(in)+1)
		for e := range in.Edges() {
			var err error
			if ce.Inside(e.P1) {
				if !ce.Inside(e.P0) {
					if out, err = c.crossing(out, e, ce, i); err != nil {
						return nil, err
					}
				}
				out = append(out, e.P1)
			} else if ce.Inside(e.P0) {
				if out, err = c.crossing(out, e, ce, i); err != nil {
					return nil, err
				}
			}
		}
	}
	return out, nil
}

// crossing appends the point where e crosses ce.
func (c *Clipper) crossing(out geom.Polygon, e geom.Edge, ce ClipEdge, index int) (geom.Polygon, error) {
	p, ok := ce.Intersect(e.P0, e.P1)
	if ok {
		return append(out, p), nil
	}
	if c.policy == FailParallel {
		return nil, errors.Wrapf(ErrParallelEdge, "clip edge %d %v, subject edge %v", index, ce, e)
	}
	c.log.Debug("skipping parallel crossing",
		zap.Int("clip_edge", index),
		zap.Any("subject_edge", e))
	return out, nil
}

var defaultClipper = New()

// Clip intersects subject with the region bounded by edges using the
// SkipParallel policy.
func Clip(subject geom.Polygon, edges []ClipEdge) geom.Polygon {
	out, _ := defaultClipper.Clip(subject, edges)
	return out
}

// ClipBox intersects subject with the box b.
func ClipBox(subject geom.Polygon, b geom.Box) (geom.Polygon, error) {
	edges, err := BoxEdges(b)
	if err != nil {
		return nil, err
	}
	return Clip(subject, edges), nil
}

// ClipPolygon intersects subject with the convex polygon region, which
// must wind counter-clockwise. A degenerate region encloses nothing, so
// the result is empty.
func ClipPolygon(subject, region geom.Polygon) geom.Polygon {
	if region.IsDegenerate() {
		return geom.Polygon{}
	}
	return Clip(subject, PolygonEdges(region))
}

// Package pipeline walks a scene and clips every output. Node polygons
// are memoized, so a subject or region shared by several clips is built
// once.
package pipeline

import (
	"github.com/chazu/hodgman/pkg/clip"
	"github.com/chazu/hodgman/pkg/geom"
	"github.com/chazu/hodgman/pkg/index"
	"github.com/chazu/hodgman/pkg/kernel"
	"github.com/chazu/hodgman/pkg/scene"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrUnknownNode is returned when a scene references a node it does not
// contain.
var ErrUnknownNode = errors.New("pipeline: unknown node")

// ErrNotGeometry is returned when a clip operand does not evaluate to a
// single polygon.
var ErrNotGeometry = errors.New("pipeline: operand has no single polygon")

// ErrNonConvexRegion is returned when a region, typically the result of an
// earlier clip of a concave subject, is not convex.
var ErrNonConvexRegion = errors.New("pipeline: clip region is not convex")

// regionTolerance scales the squared extent of a region to the turn and
// area magnitudes treated as zero.
const regionTolerance = 1e-9

// Options configures Run.
type Options struct {
	// Policy decides what happens at a crossing with no intersection point.
	Policy clip.ParallelPolicy
	// Kernel, when set, cross-checks every output by sampling.
	Kernel kernel.Kernel
	// Samples is the per-axis grid size for verification.
	Samples int
	Logger  *zap.Logger
}

// Output is one clipped polygon. A clip node yields one output; a
// clip-all node yields one per subject.
type Output struct {
	NodeID  scene.NodeID
	Name    string
	Subject string
	Region  string
	Polygon geom.Polygon
	// Agreement is set when Options.Kernel is.
	Agreement *kernel.Report
}

// Run evaluates the outputs of s in root order. The scene should already
// have passed scene.ValidateAll; Run reports the first failure it meets.
// It never mutates the scene.
func Run(s *scene.Scene, opts Options) ([]Output, error) {
	if s == nil {
		return nil, nil
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	ev := &evaluator{
		s:       s,
		opts:    opts,
		log:     log,
		clipper: clip.New(clip.WithPolicy(opts.Policy), clip.WithLogger(log)),
		memo:    make(map[scene.NodeID]geom.Polygon),
		active:  make(map[scene.NodeID]bool),
	}

	var outputs []Output
	for _, root := range s.Outputs() {
		var (
			outs []Output
			err  error
		)
		switch root.Kind {
		case scene.NodeClip:
			outs, err = ev.runClip(root)
		case scene.NodeClipAll:
			outs, err = ev.runClipAll(root)
		default:
			err = errors.Errorf("root %q is a %s, not a clip operation", root.Label(), root.Kind)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "pipeline: output %q", root.Label())
		}
		outputs = append(outputs, outs...)
	}

	log.Info("pipeline finished",
		zap.Int("outputs", len(outputs)),
		zap.Int("nodes_evaluated", len(ev.memo)))
	return outputs, nil
}

// evaluator holds the per-run state.
type evaluator struct {
	s       *scene.Scene
	opts    Options
	log     *zap.Logger
	clipper *clip.Clipper
	memo    map[scene.NodeID]geom.Polygon
	active  map[scene.NodeID]bool // nodes being evaluated, for cycle detection
}

func (ev *evaluator) node(id scene.NodeID) (*scene.Node, error) {
	n := ev.s.Get(id)
	if n == nil {
		return nil, errors.Wrapf(ErrUnknownNode, "id %s", id.Short())
	}
	return n, nil
}

// shape returns the polygon node id evaluates to.
func (ev *evaluator) shape(id scene.NodeID) (geom.Polygon, error) {
	if p, ok := ev.memo[id]; ok {
		return p, nil
	}
	n, err := ev.node(id)
	if err != nil {
		return nil, err
	}
	if ev.active[id] {
		return nil, errors.Errorf("cycle through node %q", n.Label())
	}
	ev.active[id] = true
	defer delete(ev.active, id)

	var p geom.Polygon
	switch d := n.Data.(type) {
	case scene.PolygonData:
		p = d.Vertices
	case scene.BoxData:
		p, err = geom.FromBox(d.Box)
	case scene.ClipData:
		p, err = ev.clip(d.Subject, d.Region)
	default:
		err = errors.Wrapf(ErrNotGeometry, "%s %q", n.Kind, n.Label())
	}
	if err != nil {
		return nil, err
	}

	ev.log.Debug("evaluated node",
		zap.String("node", n.Label()),
		zap.Stringer("kind", n.Kind),
		zap.Int("vertices", len(p)))
	ev.memo[id] = p
	return p, nil
}

// edges returns the clip edges of a region node. Boxes use the
// axis-aligned fast path. empty is true when the region encloses no area,
// such as a clip result that came out empty; clipping by it yields the
// empty polygon.
func (ev *evaluator) edges(region scene.NodeID) (edges []clip.ClipEdge, empty bool, err error) {
	n, err := ev.node(region)
	if err != nil {
		return nil, false, err
	}
	if bd, ok := n.Data.(scene.BoxData); ok {
		edges, err := clip.BoxEdges(bd.Box)
		if err != nil {
			return nil, false, errors.Wrapf(err, "region %q", n.Label())
		}
		return edges, false, nil
	}
	p, err := ev.shape(region)
	if err != nil {
		return nil, false, errors.Wrapf(err, "region %q", n.Label())
	}

	b := p.Bounds()
	extent := max(b.Width(), b.Height())
	tol := regionTolerance * extent * extent
	if p.IsDegenerate() || p.Area() <= tol {
		ev.log.Debug("region encloses no area",
			zap.String("region", n.Label()),
			zap.Int("vertices", len(p)))
		return nil, true, nil
	}
	if !p.ConvexWithin(tol) {
		return nil, false, errors.Wrapf(ErrNonConvexRegion, "region %q (%s)", n.Label(), n.Kind)
	}
	if _, derived := n.Data.(scene.ClipData); derived && !p.IsCCW() {
		ev.log.Warn("clip region winds clockwise; every clip against it is empty",
			zap.String("region", n.Label()))
	}
	return clip.PolygonEdges(p), false, nil
}

func (ev *evaluator) clip(subject, region scene.NodeID) (geom.Polygon, error) {
	edges, empty, err := ev.edges(region)
	if err != nil {
		return nil, err
	}
	return ev.clipWith(subject, edges, empty)
}

func (ev *evaluator) clipWith(subject scene.NodeID, edges []clip.ClipEdge, empty bool) (geom.Polygon, error) {
	sp, err := ev.shape(subject)
	if err != nil {
		return nil, err
	}
	if empty {
		return geom.Polygon{}, nil
	}
	return ev.clipper.Clip(sp, edges)
}

func (ev *evaluator) runClip(n *scene.Node) ([]Output, error) {
	d, ok := n.Data.(scene.ClipData)
	if !ok {
		return nil, errors.Errorf("clip node %s has unexpected data type %T", n.ID.Short(), n.Data)
	}
	p, err := ev.shape(n.ID)
	if err != nil {
		return nil, err
	}
	out := Output{
		NodeID:  n.ID,
		Name:    n.Label(),
		Subject: ev.label(d.Subject),
		Region:  ev.label(d.Region),
		Polygon: p,
	}
	if err := ev.verify(&out, d.Subject, d.Region); err != nil {
		return nil, err
	}
	return []Output{out}, nil
}

// runClipAll clips each subject by the region. Subjects whose bounds miss
// the region's bounds cannot meet its interior and yield empty outputs
// without clipping.
func (ev *evaluator) runClipAll(n *scene.Node) ([]Output, error) {
	d, ok := n.Data.(scene.ClipAllData)
	if !ok {
		return nil, errors.Errorf("clip-all node %s has unexpected data type %T", n.ID.Short(), n.Data)
	}
	region, err := ev.shape(d.Region)
	if err != nil {
		return nil, errors.Wrapf(err, "region %q", ev.label(d.Region))
	}
	edges, empty, err := ev.edges(d.Region)
	if err != nil {
		return nil, err
	}

	hit := make(map[scene.NodeID]bool, len(d.Subjects))
	if !empty {
		ix := index.New()
		for _, sub := range d.Subjects {
			sp, err := ev.shape(sub)
			if err != nil {
				return nil, err
			}
			if err := ix.Insert(string(sub), sp); err != nil {
				return nil, err
			}
		}
		candidates, err := ix.Search(region.Bounds())
		if err != nil {
			return nil, err
		}
		for _, key := range candidates {
			hit[scene.NodeID(key)] = true
		}
	}

	outputs := make([]Output, 0, len(d.Subjects))
	for _, sub := range d.Subjects {
		out := Output{
			NodeID:  n.ID,
			Name:    n.Label() + "/" + ev.label(sub),
			Subject: ev.label(sub),
			Region:  ev.label(d.Region),
		}
		if hit[sub] {
			if out.Polygon, err = ev.clipWith(sub, edges, false); err != nil {
				return nil, errors.Wrapf(err, "subject %q", out.Subject)
			}
		} else {
			ev.log.Debug("subject outside region",
				zap.String("node", n.Label()),
				zap.String("subject", out.Subject))
			out.Polygon = geom.Polygon{}
		}
		if err := ev.verify(&out, sub, d.Region); err != nil {
			return nil, err
		}
		outputs = append(outputs, out)
	}
	return outputs, nil
}

// verify attaches a kernel agreement report to out when a kernel is set.
func (ev *evaluator) verify(out *Output, subject, region scene.NodeID) error {
	if ev.opts.Kernel == nil {
		return nil
	}
	sp, err := ev.shape(subject)
	if err != nil {
		return err
	}
	rp, err := ev.shape(region)
	if err != nil {
		return err
	}
	if sp.IsDegenerate() || rp.IsDegenerate() || rp.Area() == 0 {
		return nil
	}
	rep, err := kernel.Agreement(ev.opts.Kernel, sp, rp, out.Polygon, ev.opts.Samples)
	if err != nil {
		return errors.Wrapf(err, "verify %q", out.Name)
	}
	out.Agreement = &rep
	if rep.Ratio() < 1 {
		ev.log.Warn("clip result disagrees with kernel",
			zap.String("output", out.Name),
			zap.Int("compared", rep.Compared),
			zap.Int("agreed", rep.Agreed))
	}
	return nil
}

func (ev *evaluator) label(id scene.NodeID) string {
	if n := ev.s.Get(id); n != nil {
		return n.Label()
	}
	return id.Short()
}

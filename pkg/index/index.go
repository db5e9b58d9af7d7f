// Package index is a spatial index of polygons keyed by bounding box. It
// lets batch clipping skip subjects that cannot meet the clip region.
package index

import (
	"sort"

	"github.com/chazu/hodgman/pkg/geom"
	"github.com/dhconnelly/rtreego"
	"github.com/pkg/errors"
)

// MinExtent pads zero-width or zero-height bounds so every entry is a
// proper rectangle.
const MinExtent = 1e-9

// R-tree branching limits.
const (
	minChildren = 25
	maxChildren = 50
)

// entry is one indexed polygon.
type entry struct {
	key  string
	seq  int
	rect rtreego.Rect
}

func (e *entry) Bounds() rtreego.Rect { return e.rect }

// Index is a 2-D R-tree of polygon bounds. It is not safe for concurrent
// mutation.
type Index struct {
	tree *rtreego.Rtree
	n    int
}

// New returns an empty index.
func New() *Index {
	return &Index{tree: rtreego.NewTree(2, minChildren, maxChildren)}
}

// Insert adds p under key. Empty polygons are not indexed.
func (ix *Index) Insert(key string, p geom.Polygon) error {
	if p.IsEmpty() {
		return nil
	}
	rect, err := toRect(p.Bounds())
	if err != nil {
		return errors.Wrapf(err, "index: %s", key)
	}
	ix.tree.Insert(&entry{key: key, seq: ix.n, rect: rect})
	ix.n++
	return nil
}

// Len returns the number of indexed polygons.
func (ix *Index) Len() int {
	return ix.tree.Size()
}

// Search returns the keys whose bounds overlap b, in insertion order.
func (ix *Index) Search(b geom.Box) ([]string, error) {
	rect, err := toRect(b)
	if err != nil {
		return nil, errors.Wrap(err, "index: search")
	}
	hits := ix.tree.SearchIntersect(rect)
	sort.Slice(hits, func(i, j int) bool {
		return hits[i].(*entry).seq < hits[j].(*entry).seq
	})
	keys := make([]string, len(hits))
	for i, h := range hits {
		keys[i] = h.(*entry).key
	}
	return keys, nil
}

// toRect converts b to an R-tree rectangle, padding degenerate extents.
func toRect(b geom.Box) (rtreego.Rect, error) {
	w := max(b.Width(), MinExtent)
	h := max(b.Height(), MinExtent)
	return rtreego.NewRect(rtreego.Point{b.XMin, b.YMin}, []float64{w, h})
}

package geom

import "github.com/pkg/errors"

// Box is an axis-aligned rectangle. A well-formed box has XMin < XMax and
// YMin < YMax.
type Box struct {
	XMin float64 `json:"xmin"`
	YMin float64 `json:"ymin"`
	XMax float64 `json:"xmax"`
	YMax float64 `json:"ymax"`
}

// NewBox returns a validated box.
func NewBox(xmin, ymin, xmax, ymax float64) (Box, error) {
	b := Box{XMin: xmin, YMin: ymin, XMax: xmax, YMax: ymax}
	if err := b.Validate(); err != nil {
		return Box{}, err
	}
	return b, nil
}

// Validate returns ErrInvalidRegion if b encloses no area. NaN bounds are
// rejected as well.
func (b Box) Validate() error {
	if !(b.XMin < b.XMax) || !(b.YMin < b.YMax) {
		return errors.Wrapf(ErrInvalidRegion,
			"box x=[%g,%g] y=[%g,%g]", b.XMin, b.XMax, b.YMin, b.YMax)
	}
	return nil
}

// Width returns XMax - XMin.
func (b Box) Width() float64 { return b.XMax - b.XMin }

// Height returns YMax - YMin.
func (b Box) Height() float64 { return b.YMax - b.YMin }

// Overlaps reports whether b and o share any area or boundary.
func (b Box) Overlaps(o Box) bool {
	return b.XMin <= o.XMax && o.XMin <= b.XMax &&
		b.YMin <= o.YMax && o.YMin <= b.YMax
}

// Union returns the smallest box covering both b and o.
func (b Box) Union(o Box) Box {
	return Box{
		XMin: min(b.XMin, o.XMin),
		YMin: min(b.YMin, o.YMin),
		XMax: max(b.XMax, o.XMax),
		YMax: max(b.YMax, o.YMax),
	}
}

// FromBox returns the four corners of b in counter-clockwise order,
// starting at (XMin, YMin).
func FromBox(b Box) (Polygon, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return Polygon{
		{X: b.XMin, Y: b.YMin},
		{X: b.XMax, Y: b.YMin},
		{X: b.XMax, Y: b.YMax},
		{X: b.XMin, Y: b.YMax},
	}, nil
}

// Package export writes clip outputs as text, SVG, PNG, GeoJSON or DXF.
package export

import (
	"fmt"
	"image/color"
	"math"

	"github.com/chazu/hodgman/pkg/geom"
	"github.com/chazu/hodgman/pkg/pipeline"
	"github.com/pkg/errors"
	"golang.org/x/image/colornames"
)

// Format names an output encoding.
type Format string

const (
	FormatText    Format = "text"
	FormatSVG     Format = "svg"
	FormatPNG     Format = "png"
	FormatGeoJSON Format = "geojson"
	FormatDXF     Format = "dxf"
)

// Formats lists every supported format.
var Formats = []Format{FormatText, FormatSVG, FormatPNG, FormatGeoJSON, FormatDXF}

// ParseFormat returns the Format named s.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", errors.Errorf("unknown format %q (want one of %v)", s, Formats)
}

// Style controls the raster and vector renderers.
type Style struct {
	Width, Height int
	Margin        float64 // canvas units kept clear on every side
	StrokeWidth   float64
	Background    color.RGBA
	Stroke        color.RGBA
	Palette       []color.RGBA // fill colours, cycled per output
}

// DefaultStyle returns a 512x512 canvas with a light palette.
func DefaultStyle() Style {
	return Style{
		Width:       512,
		Height:      512,
		Margin:      16,
		StrokeWidth: 1.5,
		Background:  colornames.White,
		Stroke:      colornames.Dimgray,
		Palette: []color.RGBA{
			colornames.Steelblue,
			colornames.Darkorange,
			colornames.Seagreen,
			colornames.Crimson,
			colornames.Slateblue,
			colornames.Goldenrod,
		},
	}
}

// fill returns the fill colour of output i.
func (s Style) fill(i int) color.RGBA {
	if len(s.Palette) == 0 {
		return colornames.Lightgray
	}
	return s.Palette[i%len(s.Palette)]
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Frame maps scene coordinates onto a canvas. It fits the bounds of every
// non-empty output inside the margin, keeps the aspect ratio and flips y
// so that up is up.
type Frame struct {
	Bounds geom.Box
	scale  float64
	offX   float64
	offY   float64
	height float64
}

// NewFrame fits outputs onto a width x height canvas.
func NewFrame(outputs []pipeline.Output, width, height int, margin float64) Frame {
	var b geom.Box
	found := false
	for _, o := range outputs {
		if o.Polygon.IsEmpty() {
			continue
		}
		if !found {
			b = o.Polygon.Bounds()
			found = true
			continue
		}
		b = b.Union(o.Polygon.Bounds())
	}
	if !found {
		b = geom.Box{XMax: 1, YMax: 1}
	}
	// Give points and slivers some extent.
	if b.Width() == 0 {
		b.XMin, b.XMax = b.XMin-0.5, b.XMax+0.5
	}
	if b.Height() == 0 {
		b.YMin, b.YMax = b.YMin-0.5, b.YMax+0.5
	}

	w := math.Max(float64(width)-2*margin, 1)
	h := math.Max(float64(height)-2*margin, 1)
	scale := math.Min(w/b.Width(), h/b.Height())
	return Frame{
		Bounds: b,
		scale:  scale,
		offX:   margin + (w-b.Width()*scale)/2,
		offY:   margin + (h-b.Height()*scale)/2,
		height: float64(height),
	}
}

// Point returns the canvas position of v.
func (f Frame) Point(v geom.Vertex) (x, y float64) {
	x = f.offX + (v.X-f.Bounds.XMin)*f.scale
	y = f.height - (f.offY + (v.Y-f.Bounds.YMin)*f.scale)
	return x, y
}

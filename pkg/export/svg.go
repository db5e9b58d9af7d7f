package export

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
	"github.com/chazu/hodgman/pkg/pipeline"
)

// SVG draws every non-empty output as a filled polygon, one group per
// output. svgo works in integer canvas units, so vertices are rounded.
func SVG(w io.Writer, outputs []pipeline.Output, style Style) error {
	frame := NewFrame(outputs, style.Width, style.Height, style.Margin)

	canvas := svg.New(w)
	canvas.Start(style.Width, style.Height)
	canvas.Rect(0, 0, style.Width, style.Height, "fill:"+hex(style.Background))
	for i, o := range outputs {
		if o.Polygon.IsEmpty() {
			continue
		}
		xs := make([]int, len(o.Polygon))
		ys := make([]int, len(o.Polygon))
		for j, v := range o.Polygon {
			x, y := frame.Point(v)
			xs[j], ys[j] = int(math.Round(x)), int(math.Round(y))
		}
		canvas.Gid(svgID(i, o.Name))
		canvas.Title(o.Name)
		canvas.Polygon(xs, ys, fmt.Sprintf("fill:%s;fill-opacity:0.6;stroke:%s;stroke-width:%g",
			hex(style.fill(i)), hex(style.Stroke), style.StrokeWidth))
		canvas.Gend()
	}
	canvas.End()
	return nil
}

// svgID returns an XML id for output i.
func svgID(i int, name string) string {
	return fmt.Sprintf("out%d-%s", i, layerName(name))
}

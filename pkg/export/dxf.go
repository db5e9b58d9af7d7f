package export

import (
	"fmt"
	"strings"

	"github.com/chazu/hodgman/pkg/pipeline"
	"github.com/pkg/errors"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
)

// dxfColors cycles through the basic ACI colours, red to magenta.
var dxfColors = []color.ColorNumber{color.Red, color.Yellow, color.Green, color.Cyan, color.Blue, color.Magenta}

// DXF writes outputs to path as closed LWPOLYLINE entities, one layer per
// output. Coordinates are written unscaled.
func DXF(path string, outputs []pipeline.Output) error {
	d := dxf.NewDrawing()
	for i, o := range outputs {
		layer := fmt.Sprintf("%02d_%s", i, layerName(o.Name))
		if _, err := d.AddLayer(layer, dxfColors[i%len(dxfColors)], dxf.DefaultLineType, true); err != nil {
			return errors.Wrapf(err, "export: dxf layer %q", layer)
		}
		if o.Polygon.IsEmpty() {
			continue
		}
		vertices := make([][]float64, len(o.Polygon))
		for j, v := range o.Polygon {
			vertices[j] = []float64{v.X, v.Y}
		}
		if _, err := d.LwPolyline(true, vertices...); err != nil {
			return errors.Wrapf(err, "export: dxf polyline %q", o.Name)
		}
	}
	if err := d.SaveAs(path); err != nil {
		return errors.Wrapf(err, "export: dxf save %s", path)
	}
	return nil
}

// layerName keeps letters, digits, '-' and '_' and replaces the rest.
func layerName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, name)
}

package export

import (
	"image"
	"image/png"
	"io"

	"github.com/chazu/hodgman/pkg/pipeline"
	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/llgcode/draw2d/draw2dkit"
	"github.com/pkg/errors"
)

// PNG rasterizes every non-empty output onto a Width x Height image.
func PNG(w io.Writer, outputs []pipeline.Output, style Style) error {
	img := Rasterize(outputs, style)
	if err := png.Encode(w, img); err != nil {
		return errors.Wrap(err, "export: png")
	}
	return nil
}

// Rasterize draws outputs onto a new RGBA image.
func Rasterize(outputs []pipeline.Output, style Style) *image.RGBA {
	frame := NewFrame(outputs, style.Width, style.Height, style.Margin)
	img := image.NewRGBA(image.Rect(0, 0, style.Width, style.Height))
	gc := draw2dimg.NewGraphicContext(img)

	gc.SetFillColor(style.Background)
	draw2dkit.Rectangle(gc, 0, 0, float64(style.Width), float64(style.Height))
	gc.Fill()

	gc.SetStrokeColor(style.Stroke)
	gc.SetLineWidth(style.StrokeWidth)
	for i, o := range outputs {
		if o.Polygon.IsEmpty() {
			continue
		}
		gc.SetFillColor(style.fill(i))
		for j, v := range o.Polygon {
			x, y := frame.Point(v)
			if j == 0 {
				gc.MoveTo(x, y)
			} else {
				gc.LineTo(x, y)
			}
		}
		gc.Close()
		gc.FillStroke()
	}
	return img
}

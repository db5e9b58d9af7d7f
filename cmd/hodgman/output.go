package main

import (
	"fmt"
	"io"
	"os"

	"github.com/chazu/hodgman/pkg/export"
	"github.com/chazu/hodgman/pkg/pipeline"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// createOutput opens the --out file. Tests replace it.
var createOutput = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

// writeOutputs encodes outputs in the selected format to --out, or to
// the command's stdout. Bare text output prints only the polygons.
func writeOutputs(cmd *cobra.Command, opts *options, outputs []pipeline.Output, bare bool) (rerr error) {
	format, err := export.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	if format == export.FormatDXF {
		if opts.out == "" {
			return errors.New("dxf output needs --out")
		}
		return export.DXF(opts.out, outputs)
	}

	var w io.Writer = cmd.OutOrStdout()
	if opts.out != "" {
		f, err := createOutput(opts.out)
		if err != nil {
			return errors.Wrap(err, "create output")
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && rerr == nil {
				rerr = errors.Wrap(cerr, "close output")
			}
		}()
		w = f
	}

	switch format {
	case export.FormatText:
		if bare {
			err = writePolygons(w, outputs)
		} else {
			err = export.Text(w, outputs)
		}
	case export.FormatSVG:
		err = export.SVG(w, outputs, export.DefaultStyle())
	case export.FormatPNG:
		err = export.PNG(w, outputs, export.DefaultStyle())
	case export.FormatGeoJSON:
		var data []byte
		if data, err = export.GeoJSON(outputs); err == nil {
			_, err = w.Write(append(data, '\n'))
		}
	}
	if err != nil {
		return errors.Wrapf(err, "write %s", format)
	}

	if opts.logger != nil {
		opts.logger.Info("wrote outputs",
			zap.String("format", string(format)),
			zap.Int("count", len(outputs)),
			zap.String("out", opts.out))
	}
	return nil
}

func writePolygons(w io.Writer, outputs []pipeline.Output) error {
	for _, o := range outputs {
		if _, err := fmt.Fprintln(w, o.Polygon); err != nil {
			return err
		}
	}
	return nil
}

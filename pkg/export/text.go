package export

import (
	"fmt"
	"io"

	"github.com/chazu/hodgman/pkg/pipeline"
)

// Text writes one line per output: its name and the polygon in the
// "Polygon x,y  ..." form, plus the kernel agreement when present.
func Text(w io.Writer, outputs []pipeline.Output) error {
	for _, o := range outputs {
		line := fmt.Sprintf("%s: %s", o.Name, o.Polygon)
		if o.Agreement != nil {
			line += fmt.Sprintf(" [agreement %.1f%% of %d samples]", 100*o.Agreement.Ratio(), o.Agreement.Compared)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

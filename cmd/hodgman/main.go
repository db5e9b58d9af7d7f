// Command hodgman clips polygons against convex regions. Scenes are
// written in a small Lisp; single clips can be given on the command line.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newEvalCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "eval FILE",
		Short: "Evaluate a scene script and write its clipped outputs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrap(err, "read script")
			}

			result := NewApp(opts).Evaluate(string(source))
			if len(result.Errors) > 0 {
				for _, e := range result.Errors {
					if e.Line > 0 {
						fmt.Fprintf(cmd.ErrOrStderr(), "%s:%d: %s\n", args[0], e.Line, e.Message)
					} else {
						fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", args[0], e.Message)
					}
				}
				return errors.Errorf("%s: %d error(s)", args[0], len(result.Errors))
			}

			return writeOutputs(cmd, opts, result.Outputs, false)
		},
	}
}

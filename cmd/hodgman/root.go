package main

import (
	"os"
	"strings"
	"time"

	"github.com/chazu/hodgman/pkg/engine"
	"github.com/chazu/hodgman/pkg/export"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// envPrefix prefixes the environment variable that overrides each flag:
// --log-level is read from HODGMAN_LOG_LEVEL.
const envPrefix = "HODGMAN_"

const (
	formatFlag    = "format"
	outFlag       = "out"
	strictFlag    = "strict"
	verifyFlag    = "verify"
	samplesFlag   = "samples"
	timeoutFlag   = "timeout"
	logLevelFlag  = "log-level"
	logFormatFlag = "log-format"
)

// options holds the flags shared by every subcommand.
type options struct {
	format    string
	out       string
	strict    bool
	verify    bool
	samples   int
	timeout   time.Duration
	logLevel  string
	logFormat string

	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "hodgman",
		Short:         "Clip polygons against convex regions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := applyEnv(cmd.Flags()); err != nil {
				return err
			}
			if _, err := export.ParseFormat(opts.format); err != nil {
				return err
			}
			logger, err := newLogger(opts.logLevel, opts.logFormat)
			if err != nil {
				return err
			}
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.format, formatFlag, "f", string(export.FormatText), "output format: text, svg, png, geojson or dxf")
	pf.StringVarP(&opts.out, outFlag, "o", "", "output file (default stdout; required for dxf)")
	pf.BoolVar(&opts.strict, strictFlag, false, "fail on a crossing with no intersection point instead of skipping it")
	pf.BoolVar(&opts.verify, verifyFlag, false, "cross-check every output against the SDF kernel")
	pf.IntVar(&opts.samples, samplesFlag, 64, "verification grid size per axis")
	pf.DurationVar(&opts.timeout, timeoutFlag, engine.EvalTimeout, "script evaluation time limit")
	pf.StringVar(&opts.logLevel, logLevelFlag, "warn", "log level: debug, info, warn or error")
	pf.StringVar(&opts.logFormat, logFormatFlag, "console", "log encoding: console or json")

	cmd.AddCommand(newEvalCmd(opts), newClipCmd(opts))
	return cmd
}

// applyEnv sets every flag not given on the command line from its
// HODGMAN_ environment variable, if present.
func applyEnv(fs *pflag.FlagSet) error {
	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		if err != nil || f.Changed {
			return
		}
		key := envPrefix + strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
		v, ok := os.LookupEnv(key)
		if !ok {
			return
		}
		// FlagSet.Set marks the flag changed, so required and
		// mutually exclusive checks see it.
		if setErr := fs.Set(f.Name, v); setErr != nil {
			err = errors.Wrapf(setErr, "%s", key)
		}
	})
	return err
}

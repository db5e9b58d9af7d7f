package main

import (
	"github.com/chazu/hodgman/pkg/clip"
	"github.com/chazu/hodgman/pkg/engine"
	"github.com/chazu/hodgman/pkg/kernel"
	"github.com/chazu/hodgman/pkg/kernel/sdfx"
	"github.com/chazu/hodgman/pkg/pipeline"
	"github.com/chazu/hodgman/pkg/scene"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// App runs scripts end to end: evaluate, validate, clip.
type App struct {
	engine  *engine.Engine
	kernel  kernel.Kernel
	policy  clip.ParallelPolicy
	samples int
	log     *zap.Logger
}

// MessageData is a script error or warning.
type MessageData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// Result is the full outcome of one evaluation.
type Result struct {
	Outputs  []pipeline.Output `json:"outputs"`
	Errors   []MessageData     `json:"errors"`
	Warnings []MessageData     `json:"warnings"`
}

// NewApp creates an App from the shared command options.
func NewApp(opts *options) *App {
	a := &App{
		engine:  engine.NewEngine(engine.WithTimeout(opts.timeout)),
		samples: opts.samples,
		log:     opts.logger,
	}
	if a.log == nil {
		a.log = zap.NewNop()
	}
	if opts.strict {
		a.policy = clip.FailParallel
	}
	if opts.verify {
		a.kernel = sdfx.New()
	}
	return a
}

// Evaluate takes Lisp source and returns the clipped outputs, or the
// errors that stopped it.
func (a *App) Evaluate(source string) Result {
	result := Result{
		Outputs:  []pipeline.Output{},
		Errors:   []MessageData{},
		Warnings: []MessageData{},
	}

	s, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		a.log.Error("evaluate failed", zap.Error(err))
		result.Errors = append(result.Errors, MessageData{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		result.Errors = lo.Map(evalErrs, func(e engine.EvalError, _ int) MessageData {
			return MessageData{Line: e.Line, Col: e.Col, Message: e.Message}
		})
		return result
	}

	return a.Run(s, result)
}

// Run validates and clips an evaluated scene, appending to result.
func (a *App) Run(s *scene.Scene, result Result) Result {
	vr := scene.ValidateAll(s)
	for _, w := range vr.Warnings {
		a.log.Warn("validation warning", zap.String("node", w.NodeID.Short()), zap.String("message", w.Message))
		result.Warnings = append(result.Warnings, MessageData{Message: w.Message})
	}
	if !vr.OK() {
		result.Errors = append(result.Errors, lo.Map(vr.Errors, func(e scene.ValidationError, _ int) MessageData {
			return MessageData{Message: e.Error()}
		})...)
		return result
	}

	outputs, err := pipeline.Run(s, pipeline.Options{
		Policy:  a.policy,
		Kernel:  a.kernel,
		Samples: a.samples,
		Logger:  a.log,
	})
	if err != nil {
		a.log.Error("clip failed", zap.Error(err))
		result.Errors = append(result.Errors, MessageData{Message: "clip failed: " + err.Error()})
		return result
	}
	result.Outputs = outputs
	return result
}

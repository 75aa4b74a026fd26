package typoscript

import (
	"maps"

	"github.com/ardnew/typoscript/log"
)

// DefaultMaxDepth is the default bound on nested path evaluations.
const DefaultMaxDepth = 100

// Option configures a [Runtime].
type Option func(*Runtime)

// WithCatchRuntimeExceptions controls whether [Runtime.Render] converts
// non-fatal errors into an inline diagnostic comment instead of returning
// them.
func WithCatchRuntimeExceptions(catch bool) Option {
	return func(rt *Runtime) { rt.catch = catch }
}

// WithDebug controls whether [Runtime.Render] wraps string results in
// comments naming the path and the context keys.
func WithDebug(debug bool) Option {
	return func(rt *Runtime) { rt.debug = debug }
}

// WithLogger sets the structured logger for trace-level breadcrumbs and
// swallowed render errors.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(rt *Runtime) { rt.logger = logger }
}

// WithMaxDepth bounds nested path evaluations. Non-positive values restore
// [DefaultMaxDepth].
func WithMaxDepth(depth int) Option {
	return func(rt *Runtime) {
		if depth <= 0 {
			depth = DefaultMaxDepth
		}

		rt.maxDepth = depth
	}
}

// WithRegistry sets the object implementations available to the runtime.
func WithRegistry(reg *Registry) Option {
	return func(rt *Runtime) {
		if reg != nil {
			rt.objects = reg
		}
	}
}

// WithProcessors sets the processors available to processor chains.
func WithProcessors(procs *Processors) Option {
	return func(rt *Runtime) {
		if procs != nil {
			rt.processors = procs
		}
	}
}

// WithEvaluator sets the expression evaluator.
func WithEvaluator(ev Evaluator) Option {
	return func(rt *Runtime) {
		if ev != nil {
			rt.evaluator = ev
		}
	}
}

// WithContext sets the variables of the root context frame.
func WithContext(frame Frame) Option {
	return func(rt *Runtime) { rt.root = maps.Clone(frame) }
}

// WithHelpers adds helper bindings to every expression, replacing built-in
// helpers of the same name. A nil value removes the binding.
func WithHelpers(helpers map[string]any) Option {
	return func(rt *Runtime) {
		for name, helper := range helpers {
			if helper == nil {
				delete(rt.helpers, name)
			} else {
				rt.helpers[name] = helper
			}
		}
	}
}

func applyDefaults(rt *Runtime) {
	rt.maxDepth = DefaultMaxDepth
	rt.objects = NewRegistry()
	rt.processors = NewProcessors()
	rt.evaluator = NewExprEvaluator()
	rt.helpers = Helpers()
}

func applyOptions(rt *Runtime, opts ...Option) {
	for _, opt := range opts {
		if opt != nil {
			opt(rt)
		}
	}
}

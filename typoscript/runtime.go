package typoscript

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"maps"
	"strings"

	"github.com/ardnew/typoscript/log"
)

// Reserved expression bindings.
const (
	BindThis    = "this"
	BindQuery   = "q"
	BindContext = "context"
	BindNode    = "node" // legacy source of BindContext
)

// ProcessorAll names the chain applied to every object's output.
const ProcessorAll = "__all"

// overridePrefix names the chain applied to an override value.
const overridePrefix = "@override."

// Runtime evaluates paths of one configuration tree.
//
// A Runtime is not safe for concurrent use: its context stack is shared by
// every nested evaluation. Objects may call back into the runtime that
// activated them; each call leaves the stack as it found it.
type Runtime struct {
	tree       Node
	root       Frame
	stack      Stack
	objects    *Registry
	processors *Processors
	evaluator  Evaluator
	helpers    map[string]any
	logger     log.Logger
	chain      []string // paths under evaluation, outermost first
	maxDepth   int
	catch      bool
	debug      bool
}

// NewRuntime returns a runtime over tree. The context stack starts with one
// root frame (see [WithContext]).
func NewRuntime(tree Node, opts ...Option) *Runtime {
	rt := &Runtime{tree: tree}

	applyDefaults(rt)
	applyOptions(rt, opts...)

	if rt.tree == nil {
		rt.tree = Node{}
	}

	rt.stack.Push(Frame(rt.root))

	return rt
}

// Tree returns the configuration tree.
func (rt *Runtime) Tree() Node { return rt.tree }

// Registry returns the object registry.
func (rt *Runtime) Registry() *Registry { return rt.objects }

// Processors returns the processor registry.
func (rt *Runtime) Processors() *Processors { return rt.processors }

// Logger returns the runtime's logger.
func (rt *Runtime) Logger() log.Logger { return rt.logger }

// PushContextArray pushes frame as the current context.
func (rt *Runtime) PushContextArray(frame Frame) { rt.stack.Push(frame) }

// PushContext pushes a copy of the current context with key set to value.
func (rt *Runtime) PushContext(key string, value any) { rt.stack.PushKey(key, value) }

// PopContext removes and returns the current context.
func (rt *Runtime) PopContext() Frame { return rt.stack.Pop() }

// CurrentContext returns the current context.
func (rt *Runtime) CurrentContext() Frame { return rt.stack.Current() }

// Resolve returns the effective configuration of path.
func (rt *Runtime) Resolve(path string) (Node, error) {
	p, err := ParsePath(path)
	if err != nil {
		return nil, err
	}

	return Resolve(rt.tree, p), nil
}

// CanRender reports whether path resolves to a typed configuration with a
// registered implementation.
func (rt *Runtime) CanRender(path string) (bool, error) {
	cfg, err := rt.Resolve(path)
	if err != nil {
		return false, err
	}

	_, err = rt.implementation(cfg)

	return err == nil, nil
}

// Evaluate evaluates path and returns the object's post-processed output.
// When path is not renderable, ok is false and err is nil. Every other
// failure is returned as is.
func (rt *Runtime) Evaluate(
	ctx context.Context,
	path string,
) (value any, ok bool, err error) {
	p, err := ParsePath(path)
	if err != nil {
		return nil, false, err
	}

	cfg := Resolve(rt.tree, p)

	id, err := rt.implementation(cfg)
	if err != nil {
		rt.logger.TraceContext(ctx, "evaluate skipped",
			slog.String("path", path),
			slog.Any("reason", err),
		)

		return nil, false, nil
	}

	value, err = rt.evaluate(ctx, p, cfg, id)
	if err != nil {
		return nil, false, err
	}

	return value, true, nil
}

// Render evaluates path in must-succeed mode. A path that is not renderable
// is an [ErrNotRenderable] error. String results are trimmed and, in debug
// mode, wrapped in comments naming the path and the context keys.
//
// With runtime exceptions caught, every error other than those reported by
// [IsFatal] is logged and replaced by an inline diagnostic comment.
func (rt *Runtime) Render(ctx context.Context, path string) (any, error) {
	out, err := rt.render(ctx, path)
	if err == nil {
		return out, nil
	}

	if !rt.catch || IsFatal(err) {
		return nil, err
	}

	rt.logger.WarnContext(ctx, "render failed",
		slog.String("path", path),
		slog.Any("error", err),
	)

	return fmt.Sprintf(
		"<!-- Exception while rendering %s: %s -->",
		html.EscapeString(path),
		html.EscapeString(err.Error()),
	), nil
}

func (rt *Runtime) render(ctx context.Context, path string) (any, error) {
	p, err := ParsePath(path)
	if err != nil {
		return nil, err
	}

	cfg := Resolve(rt.tree, p)

	id, err := rt.implementation(cfg)
	if err != nil {
		return nil, err
	}

	out, err := rt.evaluate(ctx, p, cfg, id)
	if err != nil {
		return nil, err
	}

	s, ok := out.(string)
	if !ok {
		return out, nil
	}

	s = strings.TrimSpace(s)

	if rt.debug {
		keys := strings.Join(rt.CurrentContext().Keys(), ", ")
		s = fmt.Sprintf(
			"\n<!-- Beginning to render TS path \"%s\" (Context: %s) -->%s"+
				"\n<!-- End to render TS path \"%s\" (Context: %s) -->",
			path, keys, s, path, keys,
		)
	}

	return s, nil
}

// implementation returns the implementation identifier of an effective
// configuration, or an [ErrNotRenderable] error naming what is missing.
func (rt *Runtime) implementation(cfg Node) (string, error) {
	typ, ok := cfg.ObjectType()
	if !ok {
		return "", ErrNotRenderable.With(slog.String("reason", ReasonTypeMissing))
	}

	if class, ok := cfg.Meta(MetaClass); ok {
		if id, ok := class.(string); ok && id != "" {
			if _, ok := rt.objects.Lookup(id); ok {
				return id, nil
			}

			return "", ErrNotRenderable.With(
				slog.String("reason", ReasonImplementationMissing),
				slog.String("type", typ),
				slog.String("class", id),
			)
		}
	}

	if id, ok := rt.objects.Implementation(typ); ok {
		return id, nil
	}

	return "", ErrNotRenderable.With(
		slog.String("reason", ReasonImplementationMissing),
		slog.String("type", typ),
	)
}

// evaluate activates the object for cfg, evaluates it under its override
// frame, and applies the __all chain to its output.
func (rt *Runtime) evaluate(
	ctx context.Context,
	path Path,
	cfg Node,
	id string,
) (any, error) {
	typ, _ := cfg.ObjectType()
	typed := path.WithType(typ).String()

	if len(rt.chain) >= rt.maxDepth {
		return nil, ErrMaxDepthExceeded.
			With(slog.Int("depth", len(rt.chain))).
			With(slog.Int("max_depth", rt.maxDepth)).
			With(slog.String("chain", strings.Join(append(rt.chain, typed), " → ")))
	}

	rt.chain = append(rt.chain, typed)
	defer func() { rt.chain = rt.chain[:len(rt.chain)-1] }()

	factory, _ := rt.objects.Lookup(id)
	obj := factory(rt, typed, typ)

	rt.logger.TraceContext(ctx, "object activated",
		slog.String("path", typed),
		slog.String("implementation", id),
		slog.Int("depth", len(rt.chain)),
	)

	if err := rt.inject(obj, cfg); err != nil {
		return nil, err
	}

	out, err := rt.evaluateObject(ctx, obj, cfg)
	if err != nil {
		return nil, err
	}

	return rt.EvaluateProcessor(ctx, ProcessorAll, obj, out)
}

// inject hands every property of cfg to obj, and __processors as its
// internal processor chain.
func (rt *Runtime) inject(obj Object, cfg Node) error {
	if chain, ok := AsNode(cfg[KeyProcessors]); ok {
		obj.SetInternalProcessors(Chain(chain))
	}

	for key, value := range cfg.Properties() {
		if err := obj.SetProperty(key, value); err != nil {
			return err
		}
	}

	return nil
}

// evaluateObject evaluates obj with the override frame of cfg, if any,
// pushed for the duration of the call.
func (rt *Runtime) evaluateObject(
	ctx context.Context,
	obj Object,
	cfg Node,
) (any, error) {
	overlay, err := rt.overrides(ctx, obj, cfg)
	if err != nil {
		return nil, err
	}

	if overlay != nil {
		rt.stack.PushOverlay(overlay)

		rt.logger.TraceContext(ctx, "override pushed",
			slog.Any("keys", overlay.Keys()),
			slog.Int("stack_depth", rt.stack.Depth()),
		)

		defer func() {
			rt.stack.Pop()
			rt.logger.TraceContext(ctx, "override popped",
				slog.Int("stack_depth", rt.stack.Depth()),
			)
		}()
	}

	return obj.Evaluate(ctx)
}

// overrides evaluates every entry of __meta.override against the current
// context. It returns nil when cfg declares no overrides.
func (rt *Runtime) overrides(
	ctx context.Context,
	obj Object,
	cfg Node,
) (Frame, error) {
	v, ok := cfg.Meta(MetaOverride)
	if !ok {
		return nil, nil
	}

	entries, ok := AsNode(v)
	if !ok || len(entries) == 0 {
		return nil, nil
	}

	overlay := make(Frame, len(entries))

	for _, key := range entries.Keys() {
		if key == BindThis || key == BindQuery {
			return nil, ErrReservedName.With(
				slog.String("name", key),
				slog.String("source", "override"),
			)
		}

		value, err := rt.EvaluateProcessor(ctx, overridePrefix+key, obj, entries[key])
		if err != nil {
			return nil, err
		}

		overlay[key] = value
	}

	return overlay, nil
}

// EvaluateProcessor post-processes value for the property name of obj.
//
// An expression marker node is first replaced by the result of its
// expression, evaluated against the helpers, the current context, and the
// bindings this (obj) and q (a [Query] constructor). A context binding is derived from a
// legacy node binding when absent. A current context that already binds
// this or q is an [ErrReservedName] error.
//
// The chain entry of obj for name is then applied; a missing entry leaves
// the value unchanged.
func (rt *Runtime) EvaluateProcessor(
	ctx context.Context,
	name string,
	obj Object,
	value any,
) (any, error) {
	if n, ok := AsNode(value); ok {
		if source, ok := n.Expression(); ok {
			env, err := rt.expressionEnv(obj)
			if err != nil {
				return nil, err
			}

			if value, err = rt.evaluator.Evaluate(ctx, source, env); err != nil {
				return nil, err
			}

			rt.logger.TraceContext(ctx, "expression evaluated",
				slog.String("name", name),
				slog.String("source", source),
			)
		}
	}

	var chain Chain
	if obj != nil {
		chain = obj.InternalProcessors()
	}

	return rt.processors.applyChain(ctx, chain, name, value)
}

func (rt *Runtime) expressionEnv(obj Object) (map[string]any, error) {
	frame := rt.CurrentContext()

	for _, reserved := range []string{BindThis, BindQuery} {
		if _, exists := frame[reserved]; exists {
			return nil, ErrReservedName.With(
				slog.String("name", reserved),
				slog.String("source", "context"),
			)
		}
	}

	env := make(map[string]any, len(rt.helpers)+len(frame)+3)
	maps.Copy(env, rt.helpers)
	maps.Copy(env, frame)

	env[BindThis] = obj
	env[BindQuery] = func(elems ...any) *Query {
		if len(elems) == 0 {
			return NewQuery(map[string]any(frame))
		}

		return NewQuery(elems...)
	}

	if _, exists := env[BindContext]; !exists {
		if node, exists := env[BindNode]; exists {
			env[BindContext] = NewQuery(node)
		}
	}

	return env, nil
}

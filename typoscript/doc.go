// Package typoscript evaluates TypoScript configuration trees.
//
// A configuration tree is a nested [Node] produced by an external parser or
// read from YAML or JSON with [ParseTree]. Keys starting with "__" are
// metadata; every other key is a property of the rendering object built for
// its node.
//
// # Resolution
//
// [Resolve] walks a [Path] such as "page/body<Template>" through the tree.
// Prototypes declared under __prototypes at any level are accumulated along
// the walk, and a node of type T is merged over the prototype of T with
// [MergeOverrule]. A prototype may itself declare __prototypes, which
// become visible below any node of its type. A <Type> annotation on a
// segment wins over the node's own __objectType.
//
// # Evaluation
//
// A [Runtime] owns the tree, a context [Stack], an object [Registry], a
// processor registry and an expression [Evaluator]:
//
//	rt := typoscript.NewRuntime(tree,
//		typoscript.WithRegistry(objects),
//		typoscript.WithProcessors(procs),
//		typoscript.WithCatchRuntimeExceptions(true),
//	)
//	out, err := rt.Render(ctx, "page")
//
// [Runtime.Evaluate] returns ok=false for paths that are not renderable;
// [Runtime.Render] reports them as [ErrNotRenderable], trims string results,
// and optionally wraps them in debug comments or converts non-fatal errors
// into an inline diagnostic.
//
// For each path the runtime resolves the effective configuration, activates
// the registered [Object] for its type, injects its properties, evaluates
// the __meta.override entries against the current context and pushes them
// as one frame, evaluates the object, pops the frame, and finally applies
// the object's __all processor chain.
//
// # Expressions
//
// A value of the form {__expression: "source"} is evaluated by the
// runtime's [Evaluator] (expr-lang by default) when it passes through
// [Runtime.EvaluateProcessor]. Expressions see the current context plus
// "this" (the active object) and "q" (a [Query] constructor).
package typoscript

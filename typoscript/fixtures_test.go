package typoscript

import (
	"context"
	"errors"
	"strings"
	"testing"
)

var errBoom = errors.New("boom")

// testObject is a configurable rendering object for runtime tests.
type testObject struct {
	Base

	props map[string]any
	eval  func(ctx context.Context, o *testObject) (any, error)
}

func (o *testObject) SetProperty(name string, value any) error {
	if name == "bogus" {
		return o.UnknownProperty(name)
	}

	o.props[name] = value

	return nil
}

func (o *testObject) Evaluate(ctx context.Context) (any, error) {
	return o.eval(ctx, o)
}

func testFactory(
	eval func(ctx context.Context, o *testObject) (any, error),
) Factory {
	return func(rt *Runtime, path, objectType string) Object {
		return &testObject{
			Base:  NewBase(rt, path, objectType),
			props: map[string]any{},
			eval:  eval,
		}
	}
}

func testRegistry(t *testing.T) *Registry {
	t.Helper()

	reg := NewRegistry()

	objects := map[string]func(ctx context.Context, o *testObject) (any, error){
		// Value returns its processed value property.
		"Value": func(ctx context.Context, o *testObject) (any, error) {
			return o.Runtime().EvaluateProcessor(ctx, "value", o, o.props["value"])
		},
		// Context returns the context variable named by its var property.
		"Context": func(_ context.Context, o *testObject) (any, error) {
			name, _ := o.props["var"].(string)

			return o.Runtime().CurrentContext()[name], nil
		},
		// Fail always fails.
		"Fail": func(context.Context, *testObject) (any, error) {
			return nil, errBoom
		},
		// Nest renders its inner child.
		"Nest": func(ctx context.Context, o *testObject) (any, error) {
			return o.Runtime().Render(ctx, JoinPath(o.Path(), "inner"))
		},
		// Self renders its own path forever.
		"Self": func(ctx context.Context, o *testObject) (any, error) {
			return o.Runtime().Render(ctx, o.Path())
		},
	}

	for id, eval := range objects {
		if err := reg.Register(id, testFactory(eval)); err != nil {
			t.Fatalf("Register(%q) error = %v", id, err)
		}
	}

	return reg
}

func testProcessors(t *testing.T) *Processors {
	t.Helper()

	procs := NewProcessors()

	if err := procs.Register("upper", func(Node) (Processor, error) {
		return ProcessorFunc(func(_ context.Context, v any) (any, error) {
			s, _ := v.(string)

			return strings.ToUpper(s), nil
		}), nil
	}); err != nil {
		t.Fatal(err)
	}

	if err := procs.Register("wrap", func(opts Node) (Processor, error) {
		prefix, _ := opts["prefix"].(string)
		suffix, _ := opts["suffix"].(string)

		return ProcessorFunc(func(_ context.Context, v any) (any, error) {
			s, _ := v.(string)

			return prefix + s + suffix, nil
		}), nil
	}); err != nil {
		t.Fatal(err)
	}

	return procs
}

func newTestRuntime(t *testing.T, tree Node, opts ...Option) *Runtime {
	t.Helper()

	base := []Option{
		WithRegistry(testRegistry(t)),
		WithProcessors(testProcessors(t)),
	}

	return NewRuntime(tree, append(base, opts...)...)
}

func expression(source string) Node { return Node{KeyExpression: source} }

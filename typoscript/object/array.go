package object

import (
	"context"
	"strings"

	"github.com/ardnew/typoscript/typoscript"
)

// Array renders its children in key order and concatenates the results.
//
// A child carrying an object type is rendered as a sub-path. Expressions
// and scalars are post-processed under their key. Other nodes are skipped.
type Array struct {
	typoscript.Base

	items typoscript.Node
}

// NewArray is the [typoscript.Factory] of [Array].
func NewArray(rt *typoscript.Runtime, path, objectType string) typoscript.Object {
	return &Array{Base: typoscript.NewBase(rt, path, objectType), items: typoscript.Node{}}
}

// SetProperty implements [typoscript.Object]. Every property is an item.
func (a *Array) SetProperty(name string, value any) error {
	a.items[name] = value

	return nil
}

// Evaluate implements [typoscript.Object].
func (a *Array) Evaluate(ctx context.Context) (any, error) {
	var sb strings.Builder

	for _, key := range a.items.Keys() {
		out, err := renderItem(ctx, &a.Base, a, key, a.items[key])
		if err != nil {
			return nil, err
		}

		sb.WriteString(stringify(out))
	}

	return sb.String(), nil
}

// renderItem renders the property key of obj: object-typed nodes through
// the runtime, everything else through the property's processor chain.
func renderItem(
	ctx context.Context,
	base *typoscript.Base,
	obj typoscript.Object,
	key string,
	value any,
) (any, error) {
	rt := base.Runtime()

	n, ok := typoscript.AsNode(value)
	if !ok {
		return rt.EvaluateProcessor(ctx, key, obj, value)
	}

	if _, ok := n.Expression(); ok {
		return rt.EvaluateProcessor(ctx, key, obj, value)
	}

	if _, ok := n.ObjectType(); !ok {
		return nil, nil
	}

	return rt.Render(ctx, typoscript.JoinPath(base.Path(), key))
}

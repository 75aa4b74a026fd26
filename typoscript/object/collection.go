package object

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"strings"

	"github.com/ardnew/typoscript/typoscript"
)

// ItemRenderer names the sub-path a [Collection] renders per element.
const ItemRenderer = "itemRenderer"

// Collection renders its itemRenderer sub-path once per element of
// collection. Each element is bound to itemName in a pushed context frame,
// along with iteration details under iterationName when set.
type Collection struct {
	typoscript.Base

	collection    any
	itemName      string
	iterationName string
}

// NewCollection is the [typoscript.Factory] of [Collection].
func NewCollection(rt *typoscript.Runtime, path, objectType string) typoscript.Object {
	return &Collection{Base: typoscript.NewBase(rt, path, objectType)}
}

// SetProperty implements [typoscript.Object].
func (c *Collection) SetProperty(name string, value any) error {
	switch name {
	case "collection":
		c.collection = value
	case "itemName":
		c.itemName = stringify(value)
	case "iterationName":
		c.iterationName = stringify(value)
	case ItemRenderer:
		// rendered as a sub-path
	default:
		return c.UnknownProperty(name)
	}

	return nil
}

// Evaluate implements [typoscript.Object].
func (c *Collection) Evaluate(ctx context.Context) (any, error) {
	if c.itemName == "" {
		return nil, typoscript.ErrInvalidValueType.With(
			slog.String("reason", "itemName missing"),
			slog.String("path", c.Path()),
		)
	}

	rt := c.Runtime()

	v, err := rt.EvaluateProcessor(ctx, "collection", c, c.collection)
	if err != nil {
		return nil, err
	}

	items, ierr := elements(v)
	if ierr != nil {
		return nil, ierr.With(slog.String("path", c.Path()))
	}

	var sb strings.Builder

	for i, item := range items {
		out, err := c.renderOne(ctx, item, iteration(i, len(items)))
		if err != nil {
			return nil, err
		}

		sb.WriteString(stringify(out))
	}

	return sb.String(), nil
}

func (c *Collection) renderOne(
	ctx context.Context,
	item any,
	iter map[string]any,
) (any, error) {
	rt := c.Runtime()

	frame := maps.Clone(rt.CurrentContext())
	if frame == nil {
		frame = typoscript.Frame{}
	}

	frame[c.itemName] = item
	if c.iterationName != "" {
		frame[c.iterationName] = iter
	}

	rt.PushContextArray(frame)
	defer rt.PopContext()

	return rt.Render(ctx, typoscript.JoinPath(c.Path(), ItemRenderer))
}

func iteration(index, count int) map[string]any {
	cycle := index + 1

	return map[string]any{
		"index":   index,
		"cycle":   cycle,
		"isFirst": index == 0,
		"isLast":  cycle == count,
		"isEven":  cycle%2 == 0,
		"isOdd":   cycle%2 == 1,
	}
}

// elements lists the members of a collection value. Nodes yield their
// values in key order.
func elements(v any) ([]any, *typoscript.Error) {
	switch v := v.(type) {
	case nil:
		return nil, nil
	case []any:
		return v, nil
	case *typoscript.Query:
		return v.Elements(), nil
	}

	if n, ok := typoscript.AsNode(v); ok {
		keys := n.Keys()
		items := make([]any, 0, len(keys))

		for _, k := range keys {
			items = append(items, n[k])
		}

		return items, nil
	}

	return nil, typoscript.ErrInvalidValueType.With(
		slog.String("reason", "collection is not iterable"),
		slog.String("type", fmt.Sprintf("%T", v)),
	)
}

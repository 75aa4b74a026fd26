package object

import (
	"context"
	"fmt"

	"github.com/ardnew/typoscript/typoscript"
)

// Value returns its value property, post-processed, without conversion.
type Value struct {
	typoscript.Base

	value any
}

// NewValue is the [typoscript.Factory] of [Value].
func NewValue(rt *typoscript.Runtime, path, objectType string) typoscript.Object {
	return &Value{Base: typoscript.NewBase(rt, path, objectType)}
}

// SetProperty implements [typoscript.Object].
func (v *Value) SetProperty(name string, value any) error {
	if name != "value" {
		return v.UnknownProperty(name)
	}

	v.value = value

	return nil
}

// Evaluate implements [typoscript.Object].
func (v *Value) Evaluate(ctx context.Context) (any, error) {
	return v.Runtime().EvaluateProcessor(ctx, "value", v, v.value)
}

// Text is a [Value] whose result is always a string. A nil value renders
// as the empty string.
type Text struct {
	Value
}

// NewText is the [typoscript.Factory] of [Text].
func NewText(rt *typoscript.Runtime, path, objectType string) typoscript.Object {
	return &Text{Value: Value{Base: typoscript.NewBase(rt, path, objectType)}}
}

// Evaluate implements [typoscript.Object].
func (t *Text) Evaluate(ctx context.Context) (any, error) {
	v, err := t.Runtime().EvaluateProcessor(ctx, "value", t, t.value)
	if err != nil {
		return nil, err
	}

	return stringify(v), nil
}

func stringify(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

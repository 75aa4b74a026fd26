package object

import (
	"context"
	"log/slog"
	"strings"
	"text/template"

	"github.com/ardnew/typoscript/typoscript"
)

// TemplateRenderer is the template engine behind a [Template] object.
type TemplateRenderer interface {
	SetSource(source string) error
	Assign(name string, value any)
	Render(ctx context.Context) (string, error)
}

// Template renders its source property with every other property assigned
// as a template variable. Object-typed properties are rendered as sub-paths
// before assignment.
type Template struct {
	typoscript.Base

	newRenderer func() TemplateRenderer
	source      any
	variables   typoscript.Node
}

// NewTemplate returns the [typoscript.Factory] of [Template] objects that
// render with engines created by newRenderer.
func NewTemplate(newRenderer func() TemplateRenderer) typoscript.Factory {
	return func(rt *typoscript.Runtime, path, objectType string) typoscript.Object {
		return &Template{
			Base:        typoscript.NewBase(rt, path, objectType),
			newRenderer: newRenderer,
			variables:   typoscript.Node{},
		}
	}
}

// SetProperty implements [typoscript.Object].
func (t *Template) SetProperty(name string, value any) error {
	if name == "source" {
		t.source = value
	} else {
		t.variables[name] = value
	}

	return nil
}

// Evaluate implements [typoscript.Object].
func (t *Template) Evaluate(ctx context.Context) (any, error) {
	source, err := t.Runtime().EvaluateProcessor(ctx, "source", t, t.source)
	if err != nil {
		return nil, err
	}

	r := t.newRenderer()
	if err := r.SetSource(stringify(source)); err != nil {
		return nil, err
	}

	for _, key := range t.variables.Keys() {
		v, err := t.variable(ctx, key)
		if err != nil {
			return nil, err
		}

		r.Assign(key, v)
	}

	return r.Render(ctx)
}

func (t *Template) variable(ctx context.Context, key string) (any, error) {
	value := t.variables[key]

	if n, ok := typoscript.AsNode(value); ok {
		if _, typed := n.ObjectType(); typed {
			return t.Runtime().Render(ctx, typoscript.JoinPath(t.Path(), key))
		}
	}

	return t.Runtime().EvaluateProcessor(ctx, key, t, value)
}

// TextTemplate is the default [TemplateRenderer], backed by text/template.
// Variables are fields of the template's root data.
type TextTemplate struct {
	tmpl *template.Template
	data map[string]any
}

// NewTextTemplate returns an empty [TextTemplate].
func NewTextTemplate() TemplateRenderer {
	return &TextTemplate{data: map[string]any{}}
}

// SetSource implements [TemplateRenderer].
func (tt *TextTemplate) SetSource(source string) error {
	tmpl, err := template.New("source").Parse(source)
	if err != nil {
		return typoscript.ErrInvalidValueType.Wrap(err).
			With(slog.String("reason", "template source invalid"))
	}

	tt.tmpl = tmpl

	return nil
}

// Assign implements [TemplateRenderer].
func (tt *TextTemplate) Assign(name string, value any) { tt.data[name] = value }

// Render implements [TemplateRenderer].
func (tt *TextTemplate) Render(_ context.Context) (string, error) {
	if tt.tmpl == nil {
		return "", nil
	}

	var sb strings.Builder

	if err := tt.tmpl.Execute(&sb, tt.data); err != nil {
		return "", typoscript.ErrInvalidValueType.Wrap(err).
			With(slog.String("reason", "template execution failed"))
	}

	return sb.String(), nil
}

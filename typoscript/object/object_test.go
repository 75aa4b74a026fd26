package object

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/typoscript/typoscript"
)

var errRender = errors.New("renderer failed")

func newRuntime(t *testing.T, tree typoscript.Node, opts ...typoscript.Option) *typoscript.Runtime {
	t.Helper()

	reg := typoscript.NewRegistry()
	if err := Register(reg); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	procs := typoscript.NewProcessors()
	if err := procs.Register("upper", func(typoscript.Node) (typoscript.Processor, error) {
		return typoscript.ProcessorFunc(func(_ context.Context, v any) (any, error) {
			return strings.ToUpper(stringify(v)), nil
		}), nil
	}); err != nil {
		t.Fatal(err)
	}

	base := []typoscript.Option{
		typoscript.WithRegistry(reg),
		typoscript.WithProcessors(procs),
	}

	return typoscript.NewRuntime(tree, append(base, opts...)...)
}

func expression(source string) typoscript.Node {
	return typoscript.Node{typoscript.KeyExpression: source}
}

func text(value any) typoscript.Node {
	return typoscript.Node{typoscript.KeyObjectType: "Vendor.Site:Text", "value": value}
}

func render(t *testing.T, rt *typoscript.Runtime, path string) any {
	t.Helper()

	out, err := rt.Render(t.Context(), path)
	if err != nil {
		t.Fatalf("Render(%q) error = %v", path, err)
	}

	return out
}

func TestRegister_Duplicate(t *testing.T) {
	reg := typoscript.NewRegistry()

	if err := Register(reg); err != nil {
		t.Fatal(err)
	}

	if err := Register(reg); !errors.Is(err, typoscript.ErrImplementationExists) {
		t.Errorf("Register() twice error = %v, want ErrImplementationExists", err)
	}
}

func TestTextAndValue(t *testing.T) {
	rt := newRuntime(t, typoscript.Node{
		"number": text(5),
		"empty":  typoscript.Node{typoscript.KeyObjectType: "Text"},
		"padded": text("  hi  "),
		"value":  typoscript.Node{typoscript.KeyObjectType: "Value", "value": 5},
		"list":   typoscript.Node{typoscript.KeyObjectType: "Value", "value": expression("[1, 2]")},
		"upper": typoscript.Node{
			typoscript.KeyObjectType: "Text",
			"value":                  "loud",
			typoscript.KeyProcessors: typoscript.Node{"value": typoscript.Node{"1": "upper"}},
		},
	})

	tests := []struct {
		path string
		want any
	}{
		{"number", "5"},
		{"empty", ""},
		{"padded", "hi"},
		{"value", 5},
		{"upper", "LOUD"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := render(t, rt, tt.path); got != tt.want {
				t.Errorf("Render() = %#v, want %#v", got, tt.want)
			}
		})
	}

	list, ok := render(t, rt, "list").([]any)
	if !ok || len(list) != 2 {
		t.Errorf("Render(list) = %#v, want a two-element list", list)
	}
}

func TestText_UnknownProperty(t *testing.T) {
	rt := newRuntime(t, typoscript.Node{
		"bad": typoscript.Node{typoscript.KeyObjectType: "Text", "colour": "red"},
	})

	_, err := rt.Render(t.Context(), "bad")
	if !errors.Is(err, typoscript.ErrUnknownProperty) {
		t.Errorf("Render() error = %v, want ErrUnknownProperty", err)
	}
}

func TestArray(t *testing.T) {
	rt := newRuntime(t, typoscript.Node{
		"page": typoscript.Node{
			typoscript.KeyObjectType: "Array",
			"10":                     text("c"),
			"2":                      text("b"),
			"1":                      text("a"),
			"note":                   "!",
			"plain":                  typoscript.Node{"ignored": true},
			"expr":                   expression("'?'"),
		},
	})

	// integer keys first, then expr, note, plain
	if got := render(t, rt, "page"); got != "abc?!" {
		t.Errorf("Render() = %q, want %q", got, "abc?!")
	}
}

func TestCollection(t *testing.T) {
	tree := typoscript.Node{
		"list": typoscript.Node{
			typoscript.KeyObjectType: "Collection",
			"collection":             expression("items"),
			"itemName":               "item",
			"iterationName":          "iter",
			"itemRenderer":           text(expression("item + (iter.isLast ? '' : ',')")),
		},
		"odd": typoscript.Node{
			typoscript.KeyObjectType: "Collection",
			"collection":             typoscript.Node{"b": 2, "a": 1, "c": 3},
			"itemName":               "n",
			"iterationName":          "i",
			"itemRenderer":           text(expression("i.isOdd ? string(n) : '-'")),
		},
		"nothing": typoscript.Node{
			typoscript.KeyObjectType: "Collection",
			"itemName":               "item",
			"itemRenderer":           text("never"),
		},
		"scalar": typoscript.Node{
			typoscript.KeyObjectType: "Collection",
			"collection":             7,
			"itemName":               "item",
			"itemRenderer":           text("never"),
		},
		"unnamed": typoscript.Node{
			typoscript.KeyObjectType: "Collection",
			"collection":             []any{1},
			"itemRenderer":           text("never"),
		},
	}

	rt := newRuntime(t, tree, typoscript.WithContext(typoscript.Frame{
		"items": []any{"a", "b", "c"},
	}))

	tests := map[string]string{
		"list":    "a,b,c",
		"odd":     "1-3",
		"nothing": "",
	}

	for path, want := range tests {
		t.Run(path, func(t *testing.T) {
			if got := render(t, rt, path); got != want {
				t.Errorf("Render() = %q, want %q", got, want)
			}

			if _, ok := rt.CurrentContext()["item"]; ok {
				t.Error("item frame left on the stack")
			}
		})
	}

	for _, path := range []string{"scalar", "unnamed"} {
		if _, err := rt.Render(t.Context(), path); !errors.Is(err, typoscript.ErrInvalidValueType) {
			t.Errorf("Render(%q) error = %v, want ErrInvalidValueType", path, err)
		}
	}

	_, err := rt.Render(t.Context(), "scalar")
	if err == nil || !strings.Contains(err.Error(), "collection is not iterable") {
		t.Errorf("Render(scalar) error = %v, want the not-iterable reason", err)
	}
}

func TestTemplate(t *testing.T) {
	rt := newRuntime(t, typoscript.Node{
		"page": typoscript.Node{
			typoscript.KeyObjectType: "Template",
			"source":                 "<h1>{{.title}}</h1>{{.body}}",
			"title":                  expression("'Hi'"),
			"body":                   text("  body  "),
		},
		"broken": typoscript.Node{
			typoscript.KeyObjectType: "Template",
			"source":                 "{{.title",
		},
	})

	if got := render(t, rt, "page"); got != "<h1>Hi</h1>body" {
		t.Errorf("Render() = %q", got)
	}

	if _, err := rt.Render(t.Context(), "broken"); !errors.Is(err, typoscript.ErrInvalidValueType) {
		t.Errorf("Render(broken) error = %v, want ErrInvalidValueType", err)
	}
}

// recorder is a TemplateRenderer that reports what it was given.
type recorder struct {
	source string
	names  []string
}

func (r *recorder) SetSource(source string) error {
	r.source = source

	return nil
}

func (r *recorder) Assign(name string, _ any) { r.names = append(r.names, name) }

func (r *recorder) Render(context.Context) (string, error) {
	if r.source == "fail" {
		return "", errRender
	}

	return r.source + ":" + strings.Join(r.names, ","), nil
}

func TestTemplate_Renderer(t *testing.T) {
	reg := typoscript.NewRegistry()
	if err := reg.Register("Custom", NewTemplate(func() TemplateRenderer { return &recorder{} })); err != nil {
		t.Fatal(err)
	}

	rt := typoscript.NewRuntime(typoscript.Node{
		"ok":   typoscript.Node{typoscript.KeyObjectType: "Custom", "source": "src", "b": 1, "a": 2},
		"fail": typoscript.Node{typoscript.KeyObjectType: "Custom", "source": "fail"},
	}, typoscript.WithRegistry(reg))

	if got := render(t, rt, "ok"); got != "src:a,b" {
		t.Errorf("Render() = %q, want %q", got, "src:a,b")
	}

	if _, err := rt.Render(t.Context(), "fail"); !errors.Is(err, errRender) {
		t.Errorf("Render(fail) error = %v, want %v", err, errRender)
	}
}

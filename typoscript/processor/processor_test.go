package processor

import (
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/typoscript/typoscript"
	"github.com/ardnew/typoscript/typoscript/object"
)

func process(t *testing.T, factory typoscript.ProcessorFactory, options typoscript.Node, value any) any {
	t.Helper()

	p, err := factory(options)
	if err != nil {
		t.Fatalf("factory(%v) error = %v", options, err)
	}

	out, err := p.Process(t.Context(), value)
	if err != nil {
		t.Fatalf("Process(%#v) error = %v", value, err)
	}

	return out
}

func TestProcessors(t *testing.T) {
	tests := []struct {
		name    string
		factory typoscript.ProcessorFactory
		options typoscript.Node
		value   any
		want    any
	}{
		{"trim", NewTrim, nil, "  x \n", "x"},
		{"trim nil", NewTrim, nil, nil, ""},
		{"wrap", NewWrap, typoscript.Node{"prefix": "<p>", "suffix": "</p>"}, "x", "<p>x</p>"},
		{"wrap number", NewWrap, typoscript.Node{"prefix": "#"}, 7, "#7"},
		{"replace", NewReplace, typoscript.Node{"search": "a", "replace": "o"}, "banana", "bonono"},
		{"crop short", NewCrop, typoscript.Node{"maximumCharacters": 10}, "short", "short"},
		{"crop end", NewCrop, typoscript.Node{"maximumCharacters": 4, "preOrSuffixString": "…"}, "abcdefg", "abcd…"},
		{"crop start", NewCrop, typoscript.Node{"maximumCharacters": 3, "preOrSuffixString": "..", "position": "start"}, "abcdefg", "..efg"},
		{"crop runes", NewCrop, typoscript.Node{"maximumCharacters": 2}, "äöü", "äö"},
		{"crop float", NewCrop, typoscript.Node{"maximumCharacters": 2.0}, "abc", "ab"},
		{"case default", NewCase, nil, "ABC", "abc"},
		{"case upper", NewCase, typoscript.Node{"mode": "upper"}, "abc", "ABC"},
		{"case title", NewCase, typoscript.Node{"mode": "title"}, "hello world", "Hello World"},
		{"case turkish", NewCase, typoscript.Node{"mode": "upper", "language": "tr"}, "i", "İ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := process(t, tt.factory, tt.options, tt.value); got != tt.want {
				t.Errorf("Process() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestProcessors_InvalidOptions(t *testing.T) {
	tests := []struct {
		name    string
		factory typoscript.ProcessorFactory
		options typoscript.Node
	}{
		{"replace without search", NewReplace, typoscript.Node{"replace": "x"}},
		{"crop without limit", NewCrop, nil},
		{"crop negative", NewCrop, typoscript.Node{"maximumCharacters": -1}},
		{"crop fraction", NewCrop, typoscript.Node{"maximumCharacters": 1.5}},
		{"crop position", NewCrop, typoscript.Node{"maximumCharacters": 1, "position": "middle"}},
		{"case mode", NewCase, typoscript.Node{"mode": "sponge"}},
		{"case language", NewCase, typoscript.Node{"language": "not a tag!"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.factory(tt.options); !errors.Is(err, typoscript.ErrInvalidValueType) {
				t.Errorf("factory() error = %v, want ErrInvalidValueType", err)
			}
		})
	}
}

func TestPathList(t *testing.T) {
	dir := t.TempDir()

	out := process(t, NewPathList, typoscript.Node{"prefix": []any{dir}}, "/usr/bin")
	if s, _ := out.(string); !strings.Contains(s, dir) {
		t.Errorf("Process() = %q, want it to contain %q", s, dir)
	}

	out = process(t, NewPathList, typoscript.Node{"prefix": dir, "existing": true}, "")
	if s, _ := out.(string); !strings.Contains(s, dir) {
		t.Errorf("Process(existing) = %q, want it to contain %q", s, dir)
	}
}

func TestRegister(t *testing.T) {
	procs := typoscript.NewProcessors()

	if err := Register(procs); err != nil {
		t.Fatal(err)
	}

	want := []string{CaseName, CropName, PathListName, ReplaceName, TrimName, WrapName}
	if got := procs.Names(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Names() = %v, want %v", got, want)
	}

	if err := Register(procs); !errors.Is(err, typoscript.ErrImplementationExists) {
		t.Errorf("Register() twice error = %v, want ErrImplementationExists", err)
	}
}

func TestChain(t *testing.T) {
	reg := typoscript.NewRegistry()
	procs := typoscript.NewProcessors()

	if err := errors.Join(object.Register(reg), Register(procs)); err != nil {
		t.Fatal(err)
	}

	rt := typoscript.NewRuntime(typoscript.Node{
		"teaser": typoscript.Node{
			typoscript.KeyObjectType: "Text",
			"value":                  "  the quick brown fox  ",
			typoscript.KeyProcessors: typoscript.Node{
				"value": typoscript.Node{
					"1": TrimName,
					"2": typoscript.Node{typoscript.KeyProcessorName: CropName, "maximumCharacters": 9, "preOrSuffixString": "…"},
					"3": typoscript.Node{typoscript.KeyProcessorName: CaseName, "mode": "title"},
				},
				typoscript.ProcessorAll: typoscript.Node{
					"1": typoscript.Node{typoscript.KeyProcessorName: WrapName, "prefix": "<p>", "suffix": "</p>"},
				},
			},
		},
	}, typoscript.WithRegistry(reg), typoscript.WithProcessors(procs))

	out, err := rt.Render(t.Context(), "teaser")
	if err != nil {
		t.Fatal(err)
	}

	if out != "<p>The Quick…</p>" {
		t.Errorf("Render() = %q, want %q", out, "<p>The Quick…</p>")
	}
}

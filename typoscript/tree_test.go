package typoscript

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"testing/iotest"
)

const pageYAML = `
__prototypes:
  Page:
    title: Untitled
page:
  __objectType: Page
  title: Home
  items: [1, -2, three]
`

func TestParseTree(t *testing.T) {
	tree, err := ParseTree(t.Context(), strings.NewReader(pageYAML), WithCache(false))
	if err != nil {
		t.Fatalf("ParseTree() error = %v", err)
	}

	want := Node{
		KeyPrototypes: Node{"Page": Node{"title": "Untitled"}},
		"page": Node{
			KeyObjectType: "Page",
			"title":       "Home",
			"items":       []any{1, -2, "three"},
		},
	}

	if !reflect.DeepEqual(tree, want) {
		t.Errorf("ParseTree() = %#v, want %#v", tree, want)
	}
}

func TestParseTree_JSON(t *testing.T) {
	src := `{"a": {"__objectType": "Text", "value": "hi", "n": 3}}`

	tree, err := ParseTree(t.Context(), strings.NewReader(src), WithCache(false))
	if err != nil {
		t.Fatalf("ParseTree() error = %v", err)
	}

	if got := tree.Child("a")["n"]; got != 3 {
		t.Errorf("n = %#v, want 3", got)
	}
}

func TestParseTree_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"sequence", "- a\n- b\n", ErrDecodeTree},
		{"scalar", "just text", ErrDecodeTree},
		{"invalid", "a: [1, 2\n", ErrDecodeTree},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTree(t.Context(), strings.NewReader(tt.src), WithCache(false))
			if !errors.Is(err, tt.want) {
				t.Errorf("ParseTree() error = %v, want %v", err, tt.want)
			}
		})
	}

	_, err := ParseTree(t.Context(), iotest.ErrReader(errBoom))
	if !errors.Is(err, ErrReadInput) || !errors.Is(err, errBoom) {
		t.Errorf("ParseTree() read error = %v, want ErrReadInput wrapping boom", err)
	}
}

func TestParseTree_Empty(t *testing.T) {
	tree, err := ParseTree(t.Context(), bytes.NewReader(nil))
	if err != nil || tree == nil || len(tree) != 0 {
		t.Errorf("ParseTree(empty) = (%v, %v), want empty tree", tree, err)
	}
}

func TestParseTree_Cache(t *testing.T) {
	t.Cleanup(ClearCache)

	src := "cached: {k: v}\n"

	first, err := ParseTree(t.Context(), strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}

	second, err := ParseTree(t.Context(), strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}

	if fmt.Sprintf("%p", first) != fmt.Sprintf("%p", second) {
		t.Error("identical sources decoded twice")
	}

	ClearCache()

	third, err := ParseTree(t.Context(), strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}

	if fmt.Sprintf("%p", first) == fmt.Sprintf("%p", third) {
		t.Error("ClearCache() kept the decoded tree")
	}
}

func TestMergeTrees(t *testing.T) {
	a := Node{"page": Node{"title": "A", "keep": true}}
	b := Node{"page": Node{"title": "B"}, "extra": 1}

	got := MergeTrees(a, b)
	want := Node{"page": Node{"title": "B", "keep": true}, "extra": 1}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("MergeTrees() = %#v, want %#v", got, want)
	}

	if len(MergeTrees()) != 0 {
		t.Error("MergeTrees() of nothing is not empty")
	}
}

func TestParseValue(t *testing.T) {
	tests := map[string]any{
		"42":     42,
		"true":   true,
		"word":   "word",
		"[1, a]": []any{1, "a"},
		"{k: 1}": Node{"k": 1},
		"":       nil,
	}

	for src, want := range tests {
		got, err := ParseValue(src)
		if err != nil || !reflect.DeepEqual(got, want) {
			t.Errorf("ParseValue(%q) = (%#v, %v), want %#v", src, got, err, want)
		}
	}

	if _, err := ParseValue("[1,"); !errors.Is(err, ErrDecodeTree) {
		t.Errorf("ParseValue(invalid) error = %v, want ErrDecodeTree", err)
	}
}

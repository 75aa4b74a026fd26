package typoscript

import (
	"reflect"
	"testing"
)

func TestQuery(t *testing.T) {
	items := []any{
		Node{KeyObjectType: "Text", "title": "one", "n": 1},
		Node{"title": "two"},
		"scalar",
	}

	q := NewQuery(items...)

	if q.Count() != 3 {
		t.Errorf("Count() = %d, want 3", q.Count())
	}

	if q.Last() != "scalar" || q.Get(5) != nil || q.Get(-3) == nil {
		t.Errorf("Get/Last out of shape: %v %v %v", q.Last(), q.Get(5), q.Get(-3))
	}

	titles := q.Property("title").Elements()
	if !reflect.DeepEqual(titles, []any{"one", "two"}) {
		t.Errorf("Property(title) = %v", titles)
	}

	if !q.Is("Text") || q.Is("Other") {
		t.Error("Is() mismatch")
	}

	children := NewQuery(items[0]).Children().Elements()
	if !reflect.DeepEqual(children, []any{1, "one"}) {
		t.Errorf("Children() = %v", children)
	}

	named := NewQuery(items[0]).Children("title").Elements()
	if !reflect.DeepEqual(named, []any{"one"}) {
		t.Errorf("Children(title) = %v", named)
	}

	if NewQuery().First() != nil {
		t.Error("First() of empty query is not nil")
	}
}

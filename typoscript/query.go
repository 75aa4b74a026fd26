package typoscript

import "slices"

// Query is an immutable list of elements for navigating context values from
// expressions, bound as q(...) and context.
//
//	q(node).Property("title").First()
//	q().Children().Count()
type Query struct {
	elems []any
}

// NewQuery returns a query over elems.
func NewQuery(elems ...any) *Query {
	return &Query{elems: slices.Clone(elems)}
}

// Get returns the element at index i, or nil when out of range. Negative
// indexes count from the end.
func (q *Query) Get(i int) any {
	if i < 0 {
		i += len(q.elems)
	}

	if i < 0 || i >= len(q.elems) {
		return nil
	}

	return q.elems[i]
}

// First returns the first element, or nil.
func (q *Query) First() any { return q.Get(0) }

// Last returns the last element, or nil.
func (q *Query) Last() any { return q.Get(-1) }

// Count returns the number of elements.
func (q *Query) Count() int { return len(q.elems) }

// Elements returns a copy of the elements.
func (q *Query) Elements() []any { return slices.Clone(q.elems) }

// Property returns a query over the value of name on every mapping element
// that has it.
func (q *Query) Property(name string) *Query {
	out := make([]any, 0, len(q.elems))

	for _, e := range q.elems {
		if n, ok := AsNode(e); ok {
			if v, exists := n[name]; exists {
				out = append(out, v)
			}
		}
	}

	return &Query{elems: out}
}

// Children returns a query over the non-internal child values of every
// mapping element, in key order. Given names, only those children are kept.
func (q *Query) Children(names ...string) *Query {
	var out []any

	for _, e := range q.elems {
		switch v := e.(type) {
		case []any:
			if len(names) == 0 {
				out = append(out, v...)
			}

		default:
			n, ok := AsNode(v)
			if !ok {
				continue
			}

			for key, child := range n.Properties() {
				if len(names) == 0 || slices.Contains(names, key) {
					out = append(out, child)
				}
			}
		}
	}

	return &Query{elems: out}
}

// Is reports whether any element is a node of objectType.
func (q *Query) Is(objectType string) bool {
	for _, e := range q.elems {
		if n, ok := AsNode(e); ok {
			if t, ok := n.ObjectType(); ok && t == objectType {
				return true
			}
		}
	}

	return false
}

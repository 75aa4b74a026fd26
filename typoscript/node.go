package typoscript

import (
	"iter"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Reserved configuration keys.
const (
	KeyObjectType    = "__objectType"
	KeyPrototypes    = "__prototypes"
	KeyProcessors    = "__processors"
	KeyMeta          = "__meta"
	KeyExpression    = "__expression"
	KeyProcessorName = "__processorName"

	MetaClass    = "class"    // __meta.class
	MetaOverride = "override" // __meta.override
)

// internalMarker prefixes every metadata key.
const internalMarker = "__"

// IsInternal reports whether key is metadata rather than a property.
func IsInternal(key string) bool { return strings.HasPrefix(key, internalMarker) }

// Node is one mapping of the configuration tree. Values are scalars, []any
// lists, or nested nodes. A Node handed out by this package is shared with
// the tree it came from and must not be modified.
type Node map[string]any

// AsNode reports whether v is a mapping and returns it as a [Node].
// Plain map[string]any values are accepted as nodes.
func AsNode(v any) (Node, bool) {
	switch v := v.(type) {
	case Node:
		return v, true
	case map[string]any:
		return Node(v), true
	case Frame:
		return Node(v), true
	default:
		return nil, false
	}
}

// Clone returns a shallow copy of n that is never nil.
func (n Node) Clone() Node {
	c := make(Node, len(n)+1)
	maps.Copy(c, n)

	return c
}

// Child returns the node stored at key. Missing keys and non-mapping values
// yield an empty node so that descent never fails.
func (n Node) Child(key string) Node {
	if c, ok := AsNode(n[key]); ok && c != nil {
		return c
	}

	return Node{}
}

// ObjectType returns the declared object type, if any.
func (n Node) ObjectType() (string, bool) {
	s, ok := n[KeyObjectType].(string)

	return s, ok && s != ""
}

// Meta returns the value stored at __meta.<key>.
func (n Node) Meta(key string) (any, bool) {
	meta, ok := AsNode(n[KeyMeta])
	if !ok {
		return nil, false
	}

	v, ok := meta[key]

	return v, ok
}

// Expression returns the source of an expression marker node.
func (n Node) Expression() (string, bool) {
	s, ok := n[KeyExpression].(string)

	return s, ok
}

// Keys returns the keys of n in evaluation order: integer keys ascending,
// then all other keys lexicographically.
func (n Node) Keys() []string {
	return slices.SortedFunc(maps.Keys(n), CompareKeys)
}

// Properties iterates the non-internal entries of n in [Node.Keys] order.
func (n Node) Properties() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, key := range n.Keys() {
			if IsInternal(key) {
				continue
			}

			if !yield(key, n[key]) {
				return
			}
		}
	}
}

// CompareKeys orders configuration keys: integer keys sort numerically
// before every non-integer key, which sort lexicographically.
func CompareKeys(a, b string) int {
	ai, aerr := strconv.ParseInt(a, 10, 64)
	bi, berr := strconv.ParseInt(b, 10, 64)

	switch {
	case aerr == nil && berr == nil:
		if c := cmpInt(ai, bi); c != 0 {
			return c
		}

		return strings.Compare(a, b)
	case aerr == nil:
		return -1
	case berr == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Frame is one layer of the context stack: variable name to value.
type Frame map[string]any

// Keys returns the variable names of f, sorted.
func (f Frame) Keys() []string { return slices.Sorted(maps.Keys(f)) }

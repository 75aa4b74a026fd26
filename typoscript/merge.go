package typoscript

// MergeOverrule merges override onto base.
//
// Two mappings merge key-wise and recursively. For every other pair of
// values, including a mapping against a scalar or a list, override replaces
// base outright. Neither input is modified; only the mappings along the
// merged spine are newly allocated, every other subtree is shared.
func MergeOverrule(base, override any) any {
	b, ok := AsNode(base)
	if !ok {
		return override
	}

	o, ok := AsNode(override)
	if !ok {
		return override
	}

	out := make(Node, len(b)+len(o))

	for k, v := range b {
		out[k] = v
	}

	for k, ov := range o {
		if bv, exists := out[k]; exists {
			out[k] = MergeOverrule(bv, ov)
		} else {
			out[k] = ov
		}
	}

	return out
}

// MergeNodes is [MergeOverrule] over two nodes. The result is never nil.
func MergeNodes(base, override Node) Node {
	out, _ := MergeOverrule(base, override).(Node)
	if out == nil {
		return Node{}
	}

	return out
}

package typoscript

// Resolve computes the effective configuration of path in tree.
//
// The walk starts at the root with the root's __prototypes as the running
// prototype set. At every segment it descends (missing or non-mapping values
// become empty nodes), folds the segment's own __prototypes into the set,
// and determines the segment type: the path annotation wins over the node's
// __objectType. A typed segment is merged over the prototype of that type,
// whose own __prototypes are folded into the set as well, and its
// __objectType is set to the determined type.
//
// The __prototypes key itself is consumed by the walk and does not appear in
// the result. The tree is never modified.
func Resolve(tree Node, path Path) Node {
	cfg := tree
	if cfg == nil {
		cfg = Node{}
	}

	protos, ok := AsNode(cfg[KeyPrototypes])
	if !ok || protos == nil {
		protos = Node{}
	}

	for _, seg := range path {
		cfg = cfg.Child(seg.Name)
		fresh := false

		if incoming, ok := AsNode(cfg[KeyPrototypes]); ok {
			protos = MergeNodes(protos, incoming)
		}

		typ := seg.Type
		if typ == "" {
			typ, _ = cfg.ObjectType()
		}

		if typ != "" {
			if proto, ok := AsNode(protos[typ]); ok {
				cfg = MergeNodes(proto, cfg)

				if chained, ok := AsNode(proto[KeyPrototypes]); ok {
					protos = MergeNodes(protos, chained)
				}
			} else {
				cfg = cfg.Clone()
			}

			fresh = true
			cfg[KeyObjectType] = typ
		}

		if _, ok := cfg[KeyPrototypes]; ok {
			if !fresh {
				cfg = cfg.Clone()
			}

			delete(cfg, KeyPrototypes)
		}
	}

	return cfg
}

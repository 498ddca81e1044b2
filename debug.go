package futese

import "fmt"

// DebugPrint writes a directory-tree dump of the radix structure to
// standard output: one line per node, showing its edge, its variant, and
// how many keys its bag currently holds. Use this only for development; it
// performs no synchronization of its own, so callers on the Guarded or
// LockFree flavors should quiesce writers first.
func (idx *Index[K]) DebugPrint() {
	printNode(idx.tree.root, "", true, true)
}

func printNode[K comparable](n *node[K], prefix string, isLast, isRoot bool) {
	if n == nil {
		return
	}

	keyCount := 0
	if n.hasKeys() {
		keyCount = n.keys.Len()
	}

	switch {
	case isRoot:
		fmt.Printf(". (%s, keys=%d)\n", n.kind, keyCount)
	case isLast:
		fmt.Printf("%s└─ %q (%s, keys=%d)\n", prefix, n.edge, n.kind, keyCount)
		prefix += "  "
	default:
		fmt.Printf("%s├─ %q (%s, keys=%d)\n", prefix, n.edge, n.kind, keyCount)
		prefix += "│  "
	}

	if !n.hasChildren() {
		return
	}

	var children []*node[K]
	n.children.Range(func(_ byte, child *node[K]) bool {
		children = append(children, child)
		return true
	})

	for i, child := range children {
		printNode(child, prefix, i == len(children)-1, false)
	}
}

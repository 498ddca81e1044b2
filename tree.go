package futese

import (
	"bytes"
	"iter"

	"github.com/smourier/Futese/container"
)

// tree is the byte-radix tree itself: insertion, prefix lookup, full
// traversal and removal. It holds no notion of "how many Add calls has this
// seen" — that bookkeeping belongs to Index, which is also the layer that
// owns the key codec and tokenizers. tree only knows about bytes and keys.
type tree[K comparable] struct {
	root     *node[K]
	factory  container.Factory[K, *node[K]]
	numNodes int
}

func newTree[K comparable](factory container.Factory[K, *node[K]]) *tree[K] {
	return &tree[K]{root: newRoot[K](factory), factory: factory, numNodes: 1}
}

// insertToken implements the insertion/split algorithm from the root. An
// empty token is a documented no-op.
func (tr *tree[K]) insertToken(key K, token []byte) {
	if len(token) == 0 {
		return
	}

	tr.insertInto(tr.root, key, token)
}

func (tr *tree[K]) insertInto(branch *node[K], key K, remaining []byte) {
	child, ok := branch.children.Get(remaining[0])

	if !ok {
		// Case 3: no compatible child at all.
		leaf := newLeaf[K](remaining, tr.factory)
		leaf.keys.Add(key)
		branch.children.Upsert(remaining[0], leaf)
		tr.numNodes++
		return
	}

	if bytes.Equal(child.edge, remaining) {
		// Case 1: exact-edge child exists.
		if child.kind == noKeysBranchKind {
			child.promoteToKeysBranch(tr.factory)
		}

		child.keys.Add(key)
		return
	}

	m := longestCommonPrefixLen(child.edge, remaining)

	if m == len(child.edge) {
		// Case 4: match covers the whole child edge, and remaining has
		// bytes left over (otherwise the exact-match branch above would
		// have already returned). A branch child (NoKeysBranch or
		// KeysBranch) is descended into, so a suffix sharing a leading byte
		// with one of its children is split against that child instead of
		// replacing it.
		if child.hasChildren() {
			tr.insertInto(child, key, remaining[m:])
			return
		}

		// Case 4b: a Leaf child's keys migrate onto a fresh KeysBranch that
		// keeps child's edge; the new key gets a Leaf beneath it.
		children := child.children
		if children == nil {
			children = tr.factory.NewEdgeMap()
		}

		sibling := newLeaf[K](remaining[m:], tr.factory)
		sibling.keys.Add(key)
		children.Upsert(sibling.edge[0], sibling)
		tr.numNodes++

		promoted := &node[K]{edge: child.edge, kind: keysBranchKind, keys: child.keys, children: children}
		branch.children.Upsert(promoted.edge[0], promoted)
		return
	}

	// Case 5: true split. remaining and child.edge diverge strictly inside
	// child.edge (0 < m < len(child.edge)).
	top := &node[K]{edge: remaining[:m], children: tr.factory.NewEdgeMap()}
	tr.numNodes++

	carried := &node[K]{edge: child.edge[m:], kind: child.kind, keys: child.keys, children: child.children}
	top.children.Upsert(carried.edge[0], carried)

	if m == len(remaining) {
		// remaining was fully consumed at the split point: there is no
		// leftover suffix to give a sibling leaf, so top itself holds key.
		top.kind = keysBranchKind
		top.keys = tr.factory.NewKeyBag()
		top.keys.Add(key)
	} else {
		top.kind = noKeysBranchKind

		sibling := newLeaf[K](remaining[m:], tr.factory)
		sibling.keys.Add(key)
		tr.numNodes++

		top.children.Upsert(sibling.edge[0], sibling)
	}

	// top.edge[0] == child.edge[0] == remaining[0], so this Upsert replaces
	// the old child entry in branch.children.
	branch.children.Upsert(top.edge[0], top)
}

// lookupPrefix returns a lazy, undeduplicated, unordered sequence of every
// key reachable from the node whose path first covers prefix. An empty
// prefix matches the whole tree.
func (tr *tree[K]) lookupPrefix(prefix []byte) iter.Seq[K] {
	return func(yield func(K) bool) {
		if len(prefix) == 0 {
			walkSubtree(tr.root, yield)
			return
		}

		if child, ok := tr.root.children.Get(prefix[0]); ok {
			walkEdge(child, prefix, 0, yield)
		}
	}
}

// allKeys returns a lazy sequence of every key in every node's bag, parent
// before children, siblings in child-table order.
func (tr *tree[K]) allKeys() iter.Seq[K] {
	return func(yield func(K) bool) {
		walkSubtree(tr.root, yield)
	}
}

// remove deletes every key in keys from every node's bag it appears in. It
// returns how many distinct input keys were found in at least one bag.
func (tr *tree[K]) remove(keys []K) int {
	if len(keys) == 0 {
		return 0
	}

	found := make(map[K]struct{}, len(keys))

	tr.traverse(func(n *node[K]) bool {
		if n.hasKeys() {
			for _, k := range keys {
				if n.keys.Remove(k) {
					found[k] = struct{}{}
				}
			}
		}

		return true
	})

	return len(found)
}

// traverse visits every node in the tree, pre-order (a node before its
// children), stopping early if visit returns false.
func (tr *tree[K]) traverse(visit func(n *node[K]) bool) bool {
	return traverseNode(tr.root, visit)
}

func traverseNode[K comparable](n *node[K], visit func(n *node[K]) bool) bool {
	if !visit(n) {
		return false
	}

	cont := true

	if n.hasChildren() {
		n.children.Range(func(_ byte, child *node[K]) bool {
			cont = traverseNode(child, visit)
			return cont
		})
	}

	return cont
}

// walkEdge matches n's own edge against query[offset:], and either yields
// n's whole subtree (the query was exhausted within this edge), descends
// into the single child compatible with the remaining bytes (the edge was
// fully consumed by a still-longer query), or matches nothing (the edge
// diverges from the query before either is exhausted). It returns false if
// yield asked to stop early.
func walkEdge[K comparable](n *node[K], query []byte, offset int, yield func(K) bool) bool {
	remaining := query[offset:]
	m := longestCommonPrefixLen(n.edge, remaining)

	if m < len(n.edge) && m < len(remaining) {
		return true
	}

	if m == len(remaining) {
		return walkSubtree(n, yield)
	}

	offset += m

	if !n.hasChildren() {
		return true
	}

	if child, ok := n.children.Get(query[offset]); ok {
		return walkEdge(child, query, offset, yield)
	}

	return true
}

// walkSubtree yields every key under n, n's own bag first, then each child
// in child-table order. It returns false if yield asked to stop early.
func walkSubtree[K comparable](n *node[K], yield func(K) bool) bool {
	cont := true

	if n.hasKeys() {
		n.keys.Range(func(k K) bool {
			cont = yield(k)
			return cont
		})

		if !cont {
			return false
		}
	}

	if n.hasChildren() {
		n.children.Range(func(_ byte, child *node[K]) bool {
			cont = walkSubtree(child, yield)
			return cont
		})
	}

	return cont
}

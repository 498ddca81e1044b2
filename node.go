package futese

import "github.com/smourier/Futese/container"

// nodeKind tags which of the three shapes a node takes. It is the Go
// stand-in for what a Leaf / NoKeysBranch / KeysBranch class hierarchy would
// express through virtual dispatch: the serializer and the tree algorithms
// both switch on it instead of on a type assertion.
type nodeKind uint8

const (
	leafKind         nodeKind = iota // has keys, no children.
	noKeysBranchKind                 // has children, no keys.
	keysBranchKind                   // has both.
)

func (k nodeKind) String() string {
	switch k {
	case leafKind:
		return "Leaf"
	case noKeysBranchKind:
		return "NoKeysBranch"
	case keysBranchKind:
		return "KeysBranch"
	default:
		return "unknown"
	}
}

// node is one edge + destination pair in the radix tree. The root is always
// a noKeysBranchKind node with an empty edge (invariant I1); every other
// node has a non-empty edge (I2) and a variant fixed by whether it carries
// keys, children, or both (I4).
type node[K comparable] struct {
	edge     []byte
	kind     nodeKind
	keys     container.KeyBag[K]
	children container.EdgeMap[*node[K]]
}

func newRoot[K comparable](factory container.Factory[K, *node[K]]) *node[K] {
	return &node[K]{kind: noKeysBranchKind, children: factory.NewEdgeMap()}
}

func newLeaf[K comparable](edge []byte, factory container.Factory[K, *node[K]]) *node[K] {
	return &node[K]{edge: edge, kind: leafKind, keys: factory.NewKeyBag()}
}

func (n *node[K]) hasKeys() bool {
	return n.kind == leafKind || n.kind == keysBranchKind
}

func (n *node[K]) hasChildren() bool {
	return n.kind == noKeysBranchKind || n.kind == keysBranchKind
}

// promoteToKeysBranch turns a NoKeysBranch into a KeysBranch in place,
// keeping its edge and children untouched. This is insertion case 1's
// "promote it in place" step.
func (n *node[K]) promoteToKeysBranch(factory container.Factory[K, *node[K]]) {
	n.kind = keysBranchKind
	n.keys = factory.NewKeyBag()
}

// longestCommonPrefixLen returns the length of the longest common prefix of
// a and b. It is the byte-counting twin of the teacher's
// longestCommonPrefix, which instead returns the shared slice itself; this
// package only ever needs the length, to decide which of the five insertion
// cases applies.
func longestCommonPrefixLen(a, b []byte) int {
	max := len(a)
	if len(b) < max {
		max = len(b)
	}

	i := 0
	for i < max && a[i] == b[i] {
		i++
	}

	return i
}

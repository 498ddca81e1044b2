package futese

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"

	"github.com/smourier/Futese/container"
)

// magicBytes is the 4-byte file signature every saved index starts with.
var magicBytes = [4]byte{'F', 'T', 'S', '0'}

// CompressionLevel selects the Save envelope: plain bytes or gzip. The
// on-disk field is a 32-bit signed integer reserved for future codecs, so
// any value this package doesn't recognize on Load is a malformed stream,
// not silently treated as "none".
type CompressionLevel int32

const (
	// CompressionNone writes the tree body as plain, uncompressed bytes.
	CompressionNone CompressionLevel = 0
	// CompressionGzip wraps everything past the 8-byte header in gzip.
	CompressionGzip CompressionLevel = 1
)

// Save writes idx to w in the format spec'd by the file layout: a 4-byte
// magic, an i32-LE compression level, optionally a gzip envelope, a shared
// key-intern table, and the tree body in depth-first pre-order. The tree
// body is built into a scratch buffer first so the intern table — whose
// size isn't known until the whole tree has been walked — can be written
// ahead of it, matching the two-pass shape of the source format.
func (idx *Index[K]) Save(w io.Writer, level CompressionLevel) error {
	if w == nil {
		return ErrNilStream
	}

	intern := newInternTable[K]()
	var body bytes.Buffer
	serializeNode(&body, idx.tree.root, intern)

	if _, err := w.Write(magicBytes[:]); err != nil {
		return err
	}

	if err := writeInt32(w, int32(level)); err != nil {
		return err
	}

	var out io.Writer = w
	var gz *gzip.Writer
	if level != CompressionNone {
		gz = gzip.NewWriter(w)
		out = gz
	}

	if err := writeInternTable(out, intern, idx.codec); err != nil {
		return err
	}

	if _, err := out.Write(body.Bytes()); err != nil {
		return err
	}

	if gz != nil {
		return gz.Close()
	}

	return nil
}

// Load replaces idx's tree with one rebuilt from r, which must hold bytes
// previously produced by Save. On any failure idx is left untouched: the
// new tree is built entirely in a local variable and only swapped in once
// every frame has parsed successfully.
func (idx *Index[K]) Load(r io.Reader) error {
	if r == nil {
		return ErrNilStream
	}

	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return wrapReadErr(err)
	}

	if magic != magicBytes {
		return fmt.Errorf("futese: %w: bad magic %q", ErrMalformedIndex, magic[:])
	}

	levelRaw, err := readInt32(r)
	if err != nil {
		return wrapReadErr(err)
	}

	var src io.Reader

	switch CompressionLevel(levelRaw) {
	case CompressionNone:
		src = r
	case CompressionGzip:
		gz, err := gzip.NewReader(r)
		if err != nil {
			return fmt.Errorf("futese: %w: invalid gzip envelope: %v", ErrMalformedIndex, err)
		}
		defer gz.Close()
		src = gz
	default:
		return fmt.Errorf("futese: %w: unknown compression level %d", ErrMalformedIndex, levelRaw)
	}

	internedStrings, err := readInternTable(src)
	if err != nil {
		return err
	}

	internedKeys := make([]K, len(internedStrings))
	for i, s := range internedStrings {
		if idx.codec == nil {
			return fmt.Errorf("futese: %w", ErrNoKeyCodec)
		}

		key, err := idx.codec.Parse(s)
		if err != nil {
			return err
		}

		internedKeys[i] = key
	}

	root, err := deserializeNode(src, idx.tree.factory, internedKeys)
	if err != nil {
		return err
	}

	// A saved empty tree has a childless root, which the counts alone would
	// read back as a Leaf; the root is always a NoKeysBranch (I1).
	if !root.hasChildren() {
		root.kind = noKeysBranchKind
		root.keys = nil
		root.children = idx.tree.factory.NewEdgeMap()
	}

	idx.tree = &tree[K]{root: root, factory: idx.tree.factory, numNodes: countNodes(root)}
	idx.keysCount = len(internedKeys) // invariant I6

	return nil
}

// internTable accumulates the distinct keys encountered while walking a
// tree for Save, in first-encounter order, and hands each one back a stable
// index to reference from the tree body.
type internTable[K comparable] struct {
	index map[K]int32
	order []K
}

func newInternTable[K comparable]() *internTable[K] {
	return &internTable[K]{index: make(map[K]int32)}
}

func (t *internTable[K]) intern(key K) int32 {
	if i, ok := t.index[key]; ok {
		return i
	}

	i := int32(len(t.order))
	t.index[key] = i
	t.order = append(t.order, key)
	return i
}

// serializeNode writes one node and its whole subtree, depth-first
// pre-order, into buf: edge length + edge bytes, key count, child count,
// the key indices (interning each key as it's seen), then every child.
func serializeNode[K comparable](buf *bytes.Buffer, n *node[K], intern *internTable[K]) {
	_ = writeInt32(buf, int32(len(n.edge)))
	buf.Write(n.edge)

	var keyIdx []int32
	if n.hasKeys() {
		n.keys.Range(func(k K) bool {
			keyIdx = append(keyIdx, intern.intern(k))
			return true
		})
	}

	var childCount int32
	var children []*node[K]
	if n.hasChildren() {
		n.children.Range(func(_ byte, child *node[K]) bool {
			children = append(children, child)
			childCount++
			return true
		})
	}

	_ = writeInt32(buf, int32(len(keyIdx)))
	_ = writeInt32(buf, childCount)

	for _, idx := range keyIdx {
		_ = writeInt32(buf, idx)
	}

	for _, child := range children {
		serializeNode(buf, child, intern)
	}
}

// deserializeNode is serializeNode's inverse. The variant is derived from
// the counts read, exactly as spec'd: child_count==0 is a Leaf, otherwise
// key_count==0 is a NoKeysBranch, otherwise a KeysBranch.
func deserializeNode[K comparable](r io.Reader, factory container.Factory[K, *node[K]], internedKeys []K) (*node[K], error) {
	edgeLen, err := readInt32(r)
	if err != nil {
		return nil, wrapReadErr(err)
	}

	if edgeLen < 0 {
		return nil, fmt.Errorf("futese: %w: negative edge length %d", ErrMalformedIndex, edgeLen)
	}

	edge := make([]byte, edgeLen)
	if _, err := io.ReadFull(r, edge); err != nil {
		return nil, wrapReadErr(err)
	}

	keyCount, err := readInt32(r)
	if err != nil {
		return nil, wrapReadErr(err)
	}

	childCount, err := readInt32(r)
	if err != nil {
		return nil, wrapReadErr(err)
	}

	if keyCount < 0 || childCount < 0 {
		return nil, fmt.Errorf("futese: %w: negative count (keys=%d, children=%d)", ErrMalformedIndex, keyCount, childCount)
	}

	n := &node[K]{edge: edge}

	switch {
	case childCount == 0:
		n.kind = leafKind
	case keyCount == 0:
		n.kind = noKeysBranchKind
	default:
		n.kind = keysBranchKind
	}

	if n.hasKeys() {
		n.keys = factory.NewKeyBag()
	}

	for i := int32(0); i < keyCount; i++ {
		idx, err := readInt32(r)
		if err != nil {
			return nil, wrapReadErr(err)
		}

		if idx < 0 || int(idx) >= len(internedKeys) {
			return nil, fmt.Errorf("futese: %w: intern index %d out of range (table size %d)", ErrMalformedIndex, idx, len(internedKeys))
		}

		if n.hasKeys() {
			n.keys.Add(internedKeys[idx])
		}
	}

	if n.hasChildren() {
		n.children = factory.NewEdgeMap()

		for i := int32(0); i < childCount; i++ {
			child, err := deserializeNode(r, factory, internedKeys)
			if err != nil {
				return nil, err
			}

			n.children.Upsert(child.edge[0], child)
		}
	}

	return n, nil
}

func countNodes[K comparable](n *node[K]) int {
	count := 1

	if n.hasChildren() {
		n.children.Range(func(_ byte, child *node[K]) bool {
			count += countNodes(child)
			return true
		})
	}

	return count
}

func writeInternTable[K comparable](w io.Writer, intern *internTable[K], codec KeyCodec[K]) error {
	if err := writeInt32(w, int32(len(intern.order))); err != nil {
		return err
	}

	for _, key := range intern.order {
		if codec == nil {
			return fmt.Errorf("futese: %w", ErrNoKeyCodec)
		}

		if err := writeVLQString(w, codec.Stringify(key)); err != nil {
			return err
		}
	}

	return nil
}

func readInternTable(r io.Reader) ([]string, error) {
	u, err := readInt32(r)
	if err != nil {
		return nil, wrapReadErr(err)
	}

	if u < 0 {
		return nil, fmt.Errorf("futese: %w: negative intern count %d", ErrMalformedIndex, u)
	}

	out := make([]string, u)
	for i := range out {
		s, err := readVLQString(r)
		if err != nil {
			return nil, err
		}

		out[i] = s
	}

	return out, nil
}

func writeInt32(w io.Writer, v int32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	_, err := w.Write(b[:])
	return err
}

func readInt32(r io.Reader) (int32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}

	return int32(binary.LittleEndian.Uint32(b[:])), nil
}

// writeVLQString writes s the way .NET's BinaryWriter.Write(string) does: a
// 7-bit variable-length byte count (high bit set on every byte but the
// last), followed by the UTF-8 bytes themselves.
func writeVLQString(w io.Writer, s string) error {
	n := uint32(len(s))

	var lenBuf [5]byte
	i := 0

	for {
		b := byte(n & 0x7f)
		n >>= 7

		if n != 0 {
			b |= 0x80
		}

		lenBuf[i] = b
		i++

		if n == 0 {
			break
		}
	}

	if _, err := w.Write(lenBuf[:i]); err != nil {
		return err
	}

	_, err := io.WriteString(w, s)
	return err
}

// readVLQString is writeVLQString's inverse.
func readVLQString(r io.Reader) (string, error) {
	var n uint32
	var shift uint

	var b [1]byte
	for {
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return "", wrapReadErr(err)
		}

		n |= uint32(b[0]&0x7f) << shift

		if b[0]&0x80 == 0 {
			break
		}

		shift += 7
		if shift >= 35 {
			return "", fmt.Errorf("futese: %w: VLQ length overflow", ErrMalformedIndex)
		}
	}

	data := make([]byte, n)
	if _, err := io.ReadFull(r, data); err != nil {
		return "", wrapReadErr(err)
	}

	return string(data), nil
}

// wrapReadErr distinguishes a truncated stream (MalformedInput, per spec
// §7) from a genuine underlying I/O failure, which propagates as-is.
func wrapReadErr(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("futese: %w: truncated stream: %v", ErrMalformedIndex, err)
	}

	return err
}

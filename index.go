package futese

import (
	"fmt"
	"iter"
	"reflect"

	"github.com/smourier/Futese/container"
)

// Index is the embeddable full-text search index: a byte-radix tree keyed
// by an arbitrary comparable K, plus the tokenizers and key codec that turn
// raw text and raw keys into the bytes the tree actually stores. The three
// package-level constructors pick a concurrency flavor by handing the tree
// a different container.Factory; every other method is flavor-agnostic.
type Index[K comparable] struct {
	tree      *tree[K]
	codec     KeyCodec[K]
	tokenizer TextTokenizer
	queryTok  QueryTokenizer
	keysCount int
}

// Option configures an Index at construction time.
type Option[K comparable] func(*Index[K])

// WithKeyCodec overrides the KeyCodec used to derive text from a key when
// Add is called without an explicit text argument, and to intern keys on
// Save/Load. Required for any K that is neither string nor fmt.Stringer.
func WithKeyCodec[K comparable](codec KeyCodec[K]) Option[K] {
	return func(idx *Index[K]) { idx.codec = codec }
}

// WithTextTokenizer overrides the TextTokenizer used by Add.
func WithTextTokenizer[K comparable](tok TextTokenizer) Option[K] {
	return func(idx *Index[K]) { idx.tokenizer = tok }
}

// WithQueryTokenizer overrides the QueryTokenizer used by Search.
func WithQueryTokenizer[K comparable](tok QueryTokenizer) Option[K] {
	return func(idx *Index[K]) { idx.queryTok = tok }
}

// New returns an Index with no concurrency control: the Basic flavor. Safe
// for use by a single goroutine at a time.
func New[K comparable](opts ...Option[K]) *Index[K] {
	return newIndex(container.NewBasicFactory[K, *node[K]](), opts...)
}

// NewGuarded returns an Index whose child tables and key bags are each
// guarded by their own mutex, safe for concurrent use.
func NewGuarded[K comparable](opts ...Option[K]) *Index[K] {
	return newIndex(container.NewGuardedFactory[K, *node[K]](), opts...)
}

// NewLockFree returns an Index backed by sharded concurrent maps, trading
// memory for finer-grained concurrency than NewGuarded.
func NewLockFree[K comparable](opts ...Option[K]) *Index[K] {
	return newIndex(container.NewLockFreeFactory[K, *node[K]](), opts...)
}

func newIndex[K comparable](factory container.Factory[K, *node[K]], opts ...Option[K]) *Index[K] {
	idx := &Index[K]{
		tree:      newTree[K](factory),
		tokenizer: DefaultTokenizer,
		queryTok:  DefaultQueryTokenizer,
	}

	for _, opt := range opts {
		opt(idx)
	}

	if idx.codec == nil {
		idx.codec, _ = defaultCodec[K]()
	}

	return idx
}

// defaultCodec resolves the codec spec §6 describes: a string identity
// codec when K is string, or a fmt.Stringer-backed one when K implements
// it. ok is false when neither applies and the caller must supply
// WithKeyCodec explicitly.
func defaultCodec[K comparable]() (KeyCodec[K], bool) {
	if codec, ok := any(StringCodec{}).(KeyCodec[K]); ok {
		return codec, true
	}

	var zero K
	if _, ok := any(zero).(fmt.Stringer); ok {
		return stringerCodec[K]{}, true
	}

	return nil, false
}

type stringerCodec[K comparable] struct{}

func (stringerCodec[K]) Stringify(key K) string {
	return any(key).(fmt.Stringer).String()
}

func (stringerCodec[K]) Parse(string) (K, error) {
	var zero K
	return zero, fmt.Errorf("futese: %w", ErrNoKeyCodec)
}

// Add inserts key into the index under the words of text, or, if text is
// omitted, under the words of the key's own codec-derived text. KeysCount
// increases by exactly one per call (I5), regardless of how many tokens the
// text yields.
func (idx *Index[K]) Add(key K, text ...string) error {
	if isNilKey(key) {
		return ErrNilKey
	}

	var t string
	switch {
	case len(text) > 0:
		t = text[0]
	case idx.codec != nil:
		t = idx.codec.Stringify(key)
	default:
		return fmt.Errorf("futese: %w", ErrNoKeyCodec)
	}

	idx.keysCount++

	for _, word := range idx.tokenizer.Tokenize(t) {
		idx.tree.insertToken(key, []byte(word))
	}

	return nil
}

// Search tokenizes query with the Index's QueryTokenizer and evaluates the
// AND/OR/NOT algebra over the radix tree. The returned sequence's dedup and
// ordering guarantees depend on which branch of the evaluator fired (see
// evaluateQuery); the sequence is not deduplicated here, so callers that
// need distinct keys deduplicate it themselves.
func (idx *Index[K]) Search(query string) iter.Seq[K] {
	tokens := idx.queryTok.Tokenize(query)
	hits := evaluateQuery(idx.tree, tokens)

	return func(yield func(K) bool) {
		for _, k := range hits {
			if !yield(k) {
				return
			}
		}
	}
}

// Remove deletes every occurrence of each given key from the tree and
// returns how many of the given keys were found at least once.
func (idx *Index[K]) Remove(keys ...K) int {
	n := idx.tree.remove(keys)
	idx.keysCount -= n
	return n
}

// AllKeys returns every key stored in any node's bag, in tree-traversal
// order, duplicates included if the underlying flavor keeps them.
func (idx *Index[K]) AllKeys() iter.Seq[K] {
	return idx.tree.allKeys()
}

// Len returns the number of nodes currently in the tree — a structural
// count, not a key count. See KeysCount for the latter.
func (idx *Index[K]) Len() int {
	return idx.tree.numNodes
}

// Empty reports whether KeysCount is zero: true for a new index, after
// Clear, and after Remove has brought the counter back to zero.
func (idx *Index[K]) Empty() bool {
	return idx.keysCount == 0
}

// KeysCount returns the number of Add calls that have incremented the
// counter, per invariant I5 — not the number of distinct keys. After Load
// it instead equals the number of distinct interned keys, per I6.
func (idx *Index[K]) KeysCount() int {
	return idx.keysCount
}

// Clear resets the index to an empty tree, discarding every node.
func (idx *Index[K]) Clear() {
	idx.tree = newTree[K](idx.tree.factory)
	idx.keysCount = 0
}

// isNilKey reports whether key is the nil value of one of Go's nilable
// kinds. Most K instantiations (string, int, a struct) can never be nil, so
// this only matters for pointer, interface, map, slice, chan, and func key
// types; reflect is the only way to ask that question generically.
func isNilKey[K comparable](key K) bool {
	v := reflect.ValueOf(key)

	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return v.IsNil()
	default:
		return false
	}
}

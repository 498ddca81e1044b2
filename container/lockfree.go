package container

import "github.com/puzpuzpuz/xsync/v4"

// NewLockFreeFactory returns a Factory producing containers backed by
// github.com/puzpuzpuz/xsync's sharded concurrent maps, the same type
// github.com/bluesky-social/indigo's cmd/tap worker registry is built on
// (xsync.NewMap[string, *DIDWorker]()). It gives per-entry linearizability
// without a single container-wide lock. Range sees a weakly-consistent
// snapshot of the map, which is sufficient for the "no dedup, no ordering"
// contract prefix search and all-keys traversal already promise their
// callers. Key bags use set semantics, same as the Guarded flavor.
func NewLockFreeFactory[K comparable, V any]() Factory[K, V] {
	return lockFreeFactory[K, V]{}
}

type lockFreeFactory[K comparable, V any] struct{}

func (lockFreeFactory[K, V]) NewEdgeMap() EdgeMap[V] {
	return &lockFreeEdgeMap[V]{m: xsync.NewMap[byte, V]()}
}

func (lockFreeFactory[K, V]) NewKeyBag() KeyBag[K] {
	return &lockFreeKeyBag[K]{m: xsync.NewMap[K, struct{}]()}
}

type lockFreeEdgeMap[V any] struct {
	m *xsync.Map[byte, V]
}

func (e *lockFreeEdgeMap[V]) Len() int {
	return e.m.Size()
}

func (e *lockFreeEdgeMap[V]) Get(firstByte byte) (V, bool) {
	return e.m.Load(firstByte)
}

func (e *lockFreeEdgeMap[V]) Upsert(firstByte byte, value V) {
	e.m.Store(firstByte, value)
}

func (e *lockFreeEdgeMap[V]) Delete(firstByte byte) {
	e.m.Delete(firstByte)
}

func (e *lockFreeEdgeMap[V]) Range(fn func(firstByte byte, value V) bool) {
	e.m.Range(func(firstByte byte, value V) bool {
		return fn(firstByte, value)
	})
}

type lockFreeKeyBag[K comparable] struct {
	m *xsync.Map[K, struct{}]
}

func (b *lockFreeKeyBag[K]) Len() int {
	return b.m.Size()
}

func (b *lockFreeKeyBag[K]) Add(key K) {
	b.m.Store(key, struct{}{})
}

func (b *lockFreeKeyBag[K]) Remove(key K) bool {
	_, found := b.m.LoadAndDelete(key)
	return found
}

func (b *lockFreeKeyBag[K]) Range(fn func(key K) bool) {
	b.m.Range(func(key K, _ struct{}) bool {
		return fn(key)
	})
}

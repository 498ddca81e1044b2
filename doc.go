// Copyright Simon Mourier
// SPDX-License-Identifier: MIT

// Package futese implements an embeddable, in-memory full-text search index
// keyed by arbitrary user values. Text associated with a key is tokenized
// into words, and each word is inserted into a byte-level radix tree whose
// leaves and branches hold sets of keys. Queries are tokenized into a small
// boolean language (AND / OR / NOT over prefix tokens) and evaluated against
// the tree. The index can be serialized to and restored from a compact,
// optionally gzip-compressed binary stream.
//
// Three concurrency flavors share the same tree algorithms and on-disk
// format, differing only in the container.Factory they are built from: New
// is single-threaded, NewGuarded serializes access with a mutex per
// container, and NewLockFree uses sharded concurrent maps for fine-grained
// concurrency.
package futese

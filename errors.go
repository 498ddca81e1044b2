package futese

import "errors"

var (
	// ErrNilKey is returned when Add is given a nil key (a nil pointer,
	// interface, map, slice, chan or func). Zero values of non-nilable key
	// types, such as "" or a zero struct, are accepted.
	ErrNilKey = errors.New("futese: key cannot be nil")

	// ErrNilStream is returned when Save or Load is given a nil writer or
	// reader.
	ErrNilStream = errors.New("futese: stream cannot be nil")

	// ErrMalformedIndex is the sentinel wrapped by every structural Load
	// failure: bad magic, unknown compression level, a truncated stream, or
	// an intern-table index out of range. Callers can test for any of these
	// with errors.Is(err, ErrMalformedIndex) while still getting the
	// specific cause from err.Error().
	ErrMalformedIndex = errors.New("futese: malformed index stream")

	// ErrNoKeyCodec is returned when no WithKeyCodec was supplied and Add is
	// called without explicit text for a K that is neither string nor
	// fmt.Stringer, or when Load needs to parse an interned key back into a
	// K that is not string (the fmt.Stringer default codec cannot parse).
	ErrNoKeyCodec = errors.New("futese: no KeyCodec configured for this key type")
)

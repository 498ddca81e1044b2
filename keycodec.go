package futese

// KeyCodec converts between a user key and its text representation, used
// both to derive searchable text from a key when Add is called without an
// explicit text argument, and to intern keys into the on-disk format (§6 of
// the design: "a dedicated string-ize hook... or a default invariant-culture
// conversion"). Go has no culture-invariant universal stringifier, so
// callers whose key type isn't already a string must supply one.
type KeyCodec[K comparable] interface {
	// Stringify returns the text representation of key.
	Stringify(key K) string

	// Parse is Stringify's inverse. It is used while loading a saved index
	// to resurrect interned keys. A parse failure is a KeyCodecError and is
	// propagated to the caller of Load as-is.
	Parse(text string) (K, error)
}

// StringCodec is the identity KeyCodec for K = string, used by every
// constructor in this package unless the caller supplies a different one.
type StringCodec struct{}

func (StringCodec) Stringify(key string) string       { return key }
func (StringCodec) Parse(text string) (string, error) { return text, nil }

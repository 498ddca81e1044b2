package futese

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// TextTokenizer splits free-form text into the words that get inserted
// into the radix tree. It is an external collaborator (spec §6): Add
// derives tokens from whatever TextTokenizer the Index was built with.
type TextTokenizer interface {
	Tokenize(text string) []string
}

// QueryTokenizer splits a search query into classified QueryTokens. It is
// built on top of a TextTokenizer the same way DefaultQueryTokenizer is
// built on DefaultTokenize.
type QueryTokenizer interface {
	Tokenize(query string) []QueryToken
}

type defaultTextTokenizer struct{}

// DefaultTokenizer normalizes to NFD, drops non-spacing marks, lowercases,
// and splits on any rune that isn't an ASCII letter, dropping empty tokens.
var DefaultTokenizer TextTokenizer = defaultTextTokenizer{}

func (defaultTextTokenizer) Tokenize(text string) []string {
	return DefaultTokenize(text)
}

// DefaultTokenize is the free function backing DefaultTokenizer.
func DefaultTokenize(text string) []string {
	folded := foldDiacritics(text)
	lower := strings.ToLower(folded)

	return strings.FieldsFunc(lower, func(r rune) bool {
		return !isASCIILetter(r)
	})
}

type defaultQueryTokenizer struct{}

// DefaultQueryTokenizer layers the -, |, + sigils on top of DefaultTokenize's
// word-splitting rule: a sigil occurring anywhere between the previous word
// and the next one classifies the next word (NOT, OR, or explicit AND); the
// sigil closest to the word wins if more than one appears in the gap.
// Unmarked words default to AND.
var DefaultQueryTokenizer QueryTokenizer = defaultQueryTokenizer{}

func (defaultQueryTokenizer) Tokenize(query string) []QueryToken {
	folded := foldDiacritics(query)
	lower := strings.ToLower(folded)

	tokens := make([]QueryToken, 0)
	prevEnd := 0
	wordStart := -1

	flush := func(end int) {
		if wordStart == -1 {
			return
		}

		op := classifySigilGap(lower[prevEnd:wordStart])
		tokens = append(tokens, QueryToken{Op: op, Text: lower[wordStart:end]})
		prevEnd = end
		wordStart = -1
	}

	for i, r := range lower {
		if isASCIILetter(r) {
			if wordStart == -1 {
				wordStart = i
			}

			continue
		}

		flush(i)
	}

	flush(len(lower))

	return tokens
}

// classifySigilGap inspects the non-word run preceding a query word and
// returns the operator it signals. Scanning from the end means the sigil
// closest to the word wins when a gap contains more than one.
func classifySigilGap(gap string) Operator {
	for i := len(gap) - 1; i >= 0; i-- {
		switch gap[i] {
		case '-':
			return OpNot
		case '|':
			return OpOr
		case '+':
			return OpAnd
		}
	}

	return OpAnd
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// foldDiacritics strips non-spacing marks after an NFD decomposition and
// recomposes to NFC, the same chain
// github.com/bluesky-social/indigo's automod/keyword.TokenizeTextWithRegex
// uses to fold "café" down to a comparable "cafe".
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}

	return out
}

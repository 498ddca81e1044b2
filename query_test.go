package futese

import (
	"sort"
	"testing"
)

func buildStringsTree(t *testing.T) *tree[string] {
	t.Helper()

	tr := newBasicTree()
	for _, w := range []string{"this", "is", "a", "simple", "phrase"} {
		tr.insertToken("a", []byte(w))
	}

	for _, w := range []string{"and", "this", "one", "is", "another", "phrase", "a", "bit", "longer"} {
		tr.insertToken("b", []byte(w))
	}

	for _, w := range []string{"the", "last", "phrase", "this", "one", "contains"} {
		tr.insertToken("c", []byte(w))
	}

	return tr
}

func evalSorted(tr *tree[string], tokens []QueryToken) []string {
	out := evaluateQuery(tr, tokens)
	seen := make(map[string]struct{})
	var dedup []string
	for _, k := range out {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		dedup = append(dedup, k)
	}
	sort.Strings(dedup)
	return dedup
}

func TestEvaluateQueryEmpty(t *testing.T) {
	tr := buildStringsTree(t)
	if got := evaluateQuery(tr, nil); got != nil {
		t.Errorf("evaluateQuery(nil): got:%v, want:nil", got)
	}
}

func TestEvaluateQuerySingleToken(t *testing.T) {
	tr := buildStringsTree(t)

	got := evalSorted(tr, []QueryToken{{Op: OpAnd, Text: "this"}})
	if !equalStrings(got, []string{"a", "b", "c"}) {
		t.Errorf("Search(\"this\"): got:%v, want:%v", got, []string{"a", "b", "c"})
	}
}

func TestEvaluateQuerySingleNotToken(t *testing.T) {
	tr := buildStringsTree(t)

	got := evalSorted(tr, []QueryToken{{Op: OpNot, Text: "one"}})
	if !equalStrings(got, []string{"a"}) {
		t.Errorf("Search(\"-one\"): got:%v, want:%v", got, []string{"a"})
	}
}

func TestEvaluateQueryAllOrFastPath(t *testing.T) {
	tr := buildStringsTree(t)

	got := evalSorted(tr, []QueryToken{{Op: OpAnd, Text: "simple"}, {Op: OpOr, Text: "with"}})
	if !equalStrings(got, []string{"a"}) {
		t.Errorf("Search(\"simple | with\"): got:%v, want:%v", got, []string{"a"})
	}
}

func TestEvaluateQueryGeneralAnd(t *testing.T) {
	tr := buildStringsTree(t)

	got := evalSorted(tr, []QueryToken{{Op: OpAnd, Text: "this"}, {Op: OpAnd, Text: "is"}})
	if !equalStrings(got, []string{"a", "b"}) {
		t.Errorf("Search(\"this is\"): got:%v, want:%v", got, []string{"a", "b"})
	}
}

func TestEvaluateQueryNoMatch(t *testing.T) {
	tr := buildStringsTree(t)

	got := evalSorted(tr, []QueryToken{{Op: OpAnd, Text: "that"}})
	if len(got) != 0 {
		t.Errorf("Search(\"that\"): got:%v, want:[]", got)
	}
}

func TestEvaluateQueryNotThenOr(t *testing.T) {
	tr := buildStringsTree(t)

	// "-this | last": allOr fast path requires head != NOT; head is NOT
	// here so it falls through to the general case: OR union {last} minus
	// NOT {this} -> {c} \ {c} == {}.
	got := evalSorted(tr, []QueryToken{{Op: OpNot, Text: "this"}, {Op: OpOr, Text: "last"}})
	if len(got) != 0 {
		t.Errorf("Search(\"-this | last\"): got:%v, want:[]", got)
	}
}

func TestIsAllOrQuery(t *testing.T) {
	tests := []struct {
		name   string
		tokens []QueryToken
		want   bool
	}{
		{"single or", []QueryToken{{Op: OpOr, Text: "x"}}, true},
		{"single and", []QueryToken{{Op: OpAnd, Text: "x"}}, true},
		{"single not", []QueryToken{{Op: OpNot, Text: "x"}}, false},
		{"and then or", []QueryToken{{Op: OpAnd, Text: "x"}, {Op: OpOr, Text: "y"}}, true},
		{"and then and", []QueryToken{{Op: OpAnd, Text: "x"}, {Op: OpAnd, Text: "y"}}, false},
		{"not then or", []QueryToken{{Op: OpNot, Text: "x"}, {Op: OpOr, Text: "y"}}, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := isAllOrQuery(test.tokens); got != test.want {
				t.Errorf("isAllOrQuery(%v): got:%t, want:%t", test.tokens, got, test.want)
			}
		})
	}
}

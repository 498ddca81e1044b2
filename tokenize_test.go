package futese

import "testing"

func TestDefaultTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"simple", "This is a simple phrase", []string{"this", "is", "a", "simple", "phrase"}},
		{"diacritics", "réveillez-vous à l'heure!", []string{"reveillez", "vous", "a", "l", "heure"}},
		{"digits and punctuation dropped", "a1b2c3 d-e_f", []string{"a", "b", "c", "d", "e", "f"}},
		{"empty", "", nil},
		{"only separators", "   --- !!! ", nil},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := DefaultTokenize(test.in)
			if !equalStrings(got, test.want) {
				t.Errorf("DefaultTokenize(%q): got:%v, want:%v", test.in, got, test.want)
			}
		})
	}
}

func TestDefaultQueryTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []QueryToken
	}{
		{
			"unmarked words default to and",
			"hello world",
			[]QueryToken{{OpAnd, "hello"}, {OpAnd, "world"}},
		},
		{
			"not sigil",
			"-one",
			[]QueryToken{{OpNot, "one"}},
		},
		{
			"or sigil",
			"simple | with",
			[]QueryToken{{OpAnd, "simple"}, {OpOr, "with"}},
		},
		{
			"explicit and sigil",
			"a +b",
			[]QueryToken{{OpAnd, "a"}, {OpAnd, "b"}},
		},
		{
			"mixed",
			"-this | last",
			[]QueryToken{{OpNot, "this"}, {OpOr, "last"}},
		},
		{
			"closest sigil wins in a gap",
			"a -|b",
			[]QueryToken{{OpAnd, "a"}, {OpOr, "b"}},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := DefaultQueryTokenizer.Tokenize(test.in)
			if len(got) != len(test.want) {
				t.Fatalf("Tokenize(%q): got:%v, want:%v", test.in, got, test.want)
			}

			for i := range got {
				if got[i] != test.want[i] {
					t.Errorf("Tokenize(%q)[%d]: got:%+v, want:%+v", test.in, i, got[i], test.want[i])
				}
			}
		})
	}
}

func TestOperatorString(t *testing.T) {
	tests := []struct {
		op   Operator
		want string
	}{
		{OpAnd, "AND"},
		{OpOr, "OR"},
		{OpNot, "NOT"},
	}

	for _, test := range tests {
		if got := test.op.String(); got != test.want {
			t.Errorf("%d.String(): got:%q, want:%q", test.op, got, test.want)
		}
	}
}

package search

import (
	"reflect"
	"testing"
)

func TestParseFTS(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"single term", `hello`, `("hello")`},
		{"two terms anded", `hello world`, `("hello" "world")`},
		{"quoted phrase", `"hello world"`, `("hello world")`},
		{"phrase plus term", `"hello world" goodbye`, `("hello world" "goodbye")`},
		{"prefix", `gen*`, `("gen"*)`},
		{"or union", `hello OR goodbye`, `("hello") OR ("goodbye")`},
		{"lowercase or", `hello or goodbye`, `("hello") OR ("goodbye")`},
		{"or groups", `big dog OR small cat`, `("big" "dog") OR ("small" "cat")`},
		{"embedded quote stripped", `it"s`, `("it" "s")`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Parse(tt.input).FTS(); got != tt.want {
				t.Errorf("Parse(%q).FTS() = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseMalformedDegradesToLiteral(t *testing.T) {
	// Unterminated quote: operators are stripped, words survive.
	q := Parse(`"hello world`)
	if q.IsEmpty() {
		t.Fatal("degraded parse lost all terms")
	}
	if got := q.FTS(); got != `("hello" "world")` {
		t.Errorf("FTS() = %q", got)
	}
}

func TestParseEdgeCases(t *testing.T) {
	if !Parse("").IsEmpty() {
		t.Error("empty input should produce empty query")
	}
	if !Parse("   ").IsEmpty() {
		t.Error("blank input should produce empty query")
	}
	if !Parse("OR OR").IsEmpty() {
		t.Error("operator-only input should produce empty query")
	}
	if Parse(`** hello`).IsEmpty() {
		t.Error("bare stars should not erase real terms")
	}
	if got := Parse(`""`).IsEmpty(); !got {
		t.Error("empty phrase should be dropped")
	}
}

func TestParseTermKinds(t *testing.T) {
	q := Parse(`"exact phrase" pref* word`)
	if len(q.Groups) != 1 || len(q.Groups[0]) != 3 {
		t.Fatalf("unexpected structure: %+v", q.Groups)
	}

	want := []Term{
		{Kind: KindPhrase, Text: "exact phrase"},
		{Kind: KindPrefix, Text: "pref"},
		{Kind: KindTerm, Text: "word"},
	}
	if !reflect.DeepEqual(q.Groups[0], want) {
		t.Errorf("Groups[0] = %+v, want %+v", q.Groups[0], want)
	}
}

func TestQueryTerms(t *testing.T) {
	q := Parse(`"Hello World" OR pref* Goodbye`)
	want := []string{"hello", "world", "pref", "goodbye"}
	if got := q.Terms(); !reflect.DeepEqual(got, want) {
		t.Errorf("Terms() = %v, want %v", got, want)
	}
}

func TestEmbeddedQuoteNeverBreaksFTS(t *testing.T) {
	// Whatever the input, the compiled expression keeps quotes balanced.
	inputs := []string{`a"b`, `"""`, `"" ""`, `*"*"*`, `or OR or`}
	for _, in := range inputs {
		q := Parse(in)
		fts := q.FTS()
		count := 0
		for _, r := range fts {
			if r == '"' {
				count++
			}
		}
		if count%2 != 0 {
			t.Errorf("Parse(%q).FTS() = %q has unbalanced quotes", in, fts)
		}
	}
}

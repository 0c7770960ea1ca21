package search

import (
	"strings"
	"unicode"
)

// TermKind distinguishes the ways a query token can match.
type TermKind int

const (
	// KindTerm matches a whole word (after stemming).
	KindTerm TermKind = iota
	// KindPhrase matches an exact adjacent word sequence.
	KindPhrase
	// KindPrefix matches words beginning with the token.
	KindPrefix
)

// Term is one atom of a parsed query.
type Term struct {
	Kind TermKind
	Text string
}

// Query is a parsed user query: an OR-union of AND-groups of terms.
// The grammar is closed; whatever the user typed compiles to a
// well-formed FTS expression, so malformed operator usage degrades to
// literal matching instead of erroring.
type Query struct {
	Groups [][]Term
}

// Parse turns a raw query string into a Query. Supported syntax:
// quoted phrases, trailing * for prefix match, OR (case-insensitive)
// between terms; everything else is ANDed. An unterminated quote
// downgrades the whole input to literal terms.
func Parse(raw string) Query {
	tokens, ok := tokenize(raw)
	if !ok {
		tokens = literalTokens(raw)
	}

	var q Query
	var group []Term
	for _, tok := range tokens {
		if tok.isOr {
			if len(group) > 0 {
				q.Groups = append(q.Groups, group)
				group = nil
			}
			continue
		}
		group = append(group, tok.term)
	}
	if len(group) > 0 {
		q.Groups = append(q.Groups, group)
	}
	return q
}

// IsEmpty reports whether the query contains no usable terms.
func (q Query) IsEmpty() bool {
	return len(q.Groups) == 0
}

// FTS compiles the query to an FTS5 MATCH expression. Each AND-group
// is parenthesized, groups are joined with OR.
func (q Query) FTS() string {
	groups := make([]string, 0, len(q.Groups))
	for _, group := range q.Groups {
		parts := make([]string, 0, len(group))
		for _, t := range group {
			switch t.Kind {
			case KindPhrase:
				parts = append(parts, `"`+escapeFTS(t.Text)+`"`)
			case KindPrefix:
				parts = append(parts, `"`+escapeFTS(t.Text)+`"*`)
			default:
				parts = append(parts, `"`+escapeFTS(t.Text)+`"`)
			}
		}
		groups = append(groups, "("+strings.Join(parts, " ")+")")
	}
	return strings.Join(groups, " OR ")
}

// Terms returns every bare word of the query, lowercased, for fuzzy
// matching. Phrases contribute their individual words.
func (q Query) Terms() []string {
	var words []string
	for _, t := range q.allTerms() {
		for _, w := range strings.Fields(strings.ToLower(t.Text)) {
			words = append(words, w)
		}
	}
	return words
}

func (q Query) allTerms() []Term {
	var terms []Term
	for _, group := range q.Groups {
		terms = append(terms, group...)
	}
	return terms
}

type token struct {
	isOr bool
	term Term
}

// tokenize splits raw input into tokens, honoring quoted phrases.
// Returns ok=false on an unterminated quote.
func tokenize(raw string) ([]token, bool) {
	var tokens []token
	rest := raw
	for {
		rest = strings.TrimLeft(rest, " \t\r\n")
		if rest == "" {
			return tokens, true
		}

		if rest[0] == '"' {
			end := strings.IndexByte(rest[1:], '"')
			if end < 0 {
				return nil, false
			}
			phrase := strings.TrimSpace(rest[1 : 1+end])
			if hasWordChar(phrase) {
				tokens = append(tokens, token{term: Term{Kind: KindPhrase, Text: phrase}})
			}
			rest = rest[2+end:]
			continue
		}

		word := rest
		if i := strings.IndexAny(rest, " \t\r\n\""); i >= 0 {
			word, rest = rest[:i], rest[i:]
		} else {
			rest = ""
		}

		if tok, ok := wordToken(word); ok {
			tokens = append(tokens, tok)
		}
	}
}

// wordToken classifies one unquoted word.
func wordToken(word string) (token, bool) {
	if strings.EqualFold(word, "OR") {
		return token{isOr: true}, true
	}

	if trimmed := strings.TrimRight(word, "*"); trimmed != word {
		if !hasWordChar(trimmed) {
			return token{}, false
		}
		return token{term: Term{Kind: KindPrefix, Text: trimmed}}, true
	}
	if !hasWordChar(word) {
		return token{}, false
	}
	return token{term: Term{Kind: KindTerm, Text: word}}, true
}

// hasWordChar reports whether s contains at least one letter or digit,
// the minimum for FTS5 to extract a token from it.
func hasWordChar(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// literalTokens is the degraded parse for malformed input: strip the
// operator characters and treat every remaining word as a plain term.
func literalTokens(raw string) []token {
	cleaned := strings.NewReplacer(`"`, " ", "*", " ").Replace(raw)
	var tokens []token
	for _, word := range strings.Fields(cleaned) {
		if hasWordChar(word) {
			tokens = append(tokens, token{term: Term{Kind: KindTerm, Text: word}})
		}
	}
	return tokens
}

// escapeFTS doubles embedded quotes so terms are always safe inside a
// quoted FTS5 string.
func escapeFTS(s string) string {
	return strings.ReplaceAll(s, `"`, `""`)
}

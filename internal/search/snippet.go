package search

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// snippetContext is the number of characters of context kept on either
// side of the first match when a segment is truncated.
const snippetContext = 100

// buildSnippet trims text to a window around the first matching term
// and wraps every term occurrence in <mark> tags. Multiple terms are
// highlighted independently.
func buildSnippet(text string, q Query) string {
	terms := q.allTerms()

	window := snippetWindow(text, terms)
	for _, t := range terms {
		if re := termPattern(t); re != nil {
			window = re.ReplaceAllString(window, "<mark>$1</mark>")
		}
	}
	return window
}

// snippetWindow returns text clipped around the first occurrence of
// any term, with ellipses marking truncation. Without a match the
// window is the head of the text.
func snippetWindow(text string, terms []Term) string {
	lower := strings.ToLower(text)

	first := -1
	for _, t := range terms {
		needle := strings.ToLower(t.Text)
		if needle == "" {
			continue
		}
		if pos := strings.Index(lower, needle); pos >= 0 && (first < 0 || pos < first) {
			first = pos
		}
	}

	start := 0
	if first > snippetContext {
		start = first - snippetContext
	}
	end := start + 2*snippetContext
	if end > len(text) {
		end = len(text)
	}

	// Clamp to rune boundaries so truncation never splits a character.
	for start > 0 && !utf8.RuneStart(text[start]) {
		start--
	}
	for end < len(text) && !utf8.RuneStart(text[end]) {
		end++
	}

	window := text[start:end]
	if start > 0 {
		window = "..." + window
	}
	if end < len(text) {
		window += "..."
	}
	return window
}

// termPattern builds the highlight regexp for one term. Prefix terms
// extend the highlight across the rest of the word; phrases match
// their words across any whitespace.
func termPattern(t Term) *regexp.Regexp {
	text := strings.TrimSpace(t.Text)
	if text == "" {
		return nil
	}

	var expr string
	switch t.Kind {
	case KindPrefix:
		expr = `(?i)\b(` + regexp.QuoteMeta(text) + `\w*)`
	case KindPhrase:
		words := strings.Fields(text)
		quoted := make([]string, len(words))
		for i, w := range words {
			quoted[i] = regexp.QuoteMeta(w)
		}
		expr = `(?i)\b(` + strings.Join(quoted, `\s+`) + `)\b`
	default:
		expr = `(?i)\b(` + regexp.QuoteMeta(text) + `)\b`
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil
	}
	return re
}

// Package search translates user queries into ranked, highlighted
// results.
//
// A query is parsed once into a small closed grammar (terms, quoted
// phrases, prefix tokens, OR groups) and compiled to an FTS5 MATCH
// expression, so operator handling lives in one place and malformed
// input degrades to literal matching. Exact search always runs first;
// the fuzzy path is strictly a fallback for zero exact hits.
package search

package database

import (
	"database/sql"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
)

var wordRe = regexp.MustCompile(`\w+`)

// fuzzyCandidate is a scored row prior to pagination.
type fuzzyCandidate struct {
	hit   SegmentHit
	score int
}

// SearchFuzzy executes an approximate match over segment text. The
// trigram FTS table narrows the candidate set to segments sharing at
// least one trigram with any query term; candidates are then scored by
// word-level edit distance. Distance tolerance scales with term
// length: terms under 3 characters must match exactly, terms under 6
// tolerate one edit, longer terms two.
//
// Total and ordering are computed over the full candidate set before
// pagination so offset/limit windows are stable.
func (d *Database) SearchFuzzy(terms []string, opts SearchOptions) (*SearchResult, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("search_fuzzy", start, err) }()

	result := &SearchResult{Hits: []SegmentHit{}}

	lowered := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			lowered = append(lowered, t)
		}
	}
	if len(lowered) == 0 {
		return result, nil
	}

	rows, err := d.fuzzyCandidates(lowered, opts.Basename)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []fuzzyCandidate
	for rows.Next() {
		var hit SegmentHit
		if err = rows.Scan(&hit.VideoBasename, &hit.RelPath, &hit.Ext,
			&hit.StartMS, &hit.EndMS, &hit.SearchText); err != nil {
			return nil, fmt.Errorf("fuzzy search scan failed: %w", err)
		}
		if score := scoreFuzzy(hit.SearchText, lowered); score > 0 {
			candidates = append(candidates, fuzzyCandidate{hit: hit, score: score})
		}
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("fuzzy search rows failed: %w", err)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		if candidates[i].hit.StartMS != candidates[j].hit.StartMS {
			return candidates[i].hit.StartMS < candidates[j].hit.StartMS
		}
		return candidates[i].hit.VideoBasename < candidates[j].hit.VideoBasename
	})

	result.Total = len(candidates)
	if opts.Offset >= len(candidates) {
		return result, nil
	}
	end := opts.Offset + opts.Limit
	if end > len(candidates) {
		end = len(candidates)
	}
	for _, c := range candidates[opts.Offset:end] {
		result.Hits = append(result.Hits, c.hit)
	}

	return result, nil
}

// fuzzyCandidates returns the rows to score. When at least one term is
// long enough to carry a trigram, the trigram FTS table prefilters;
// otherwise every (optionally filtered) segment is scanned, which only
// happens for queries made entirely of one and two letter terms.
func (d *Database) fuzzyCandidates(terms []string, basename string) (*sql.Rows, error) {
	match := trigramMatch(terms)

	var query string
	var args []interface{}

	if match != "" {
		query = `
			SELECT v.basename, v.rel_path, v.ext, s.start_ms, s.end_ms, s.search_text
			FROM segments_trigram
			JOIN segments s ON segments_trigram.rowid = s.id
			JOIN videos v ON s.video_id = v.id
			WHERE segments_trigram MATCH ?
		`
		args = append(args, match)
	} else {
		query = `
			SELECT v.basename, v.rel_path, v.ext, s.start_ms, s.end_ms, s.search_text
			FROM segments s
			JOIN videos v ON s.video_id = v.id
			WHERE 1=1
		`
	}
	if basename != "" {
		query += ` AND v.basename = ?`
		args = append(args, basename)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fuzzy candidate query failed: %w", err)
	}
	return rows, nil
}

// trigramMatch builds an OR expression over every trigram of every
// term, so any segment sharing a single trigram becomes a candidate.
func trigramMatch(terms []string) string {
	seen := make(map[string]bool)
	var parts []string
	for _, term := range terms {
		runes := []rune(term)
		for i := 0; i+3 <= len(runes); i++ {
			tri := string(runes[i : i+3])
			if seen[tri] {
				continue
			}
			seen[tri] = true
			parts = append(parts, `"`+strings.ReplaceAll(tri, `"`, `""`)+`"`)
		}
	}
	return strings.Join(parts, " OR ")
}

// scoreFuzzy scores a segment against the query terms. Each term
// contributes (tolerance+1-distance) for its best-matching word, so
// closer matches rank higher; a term with no word inside tolerance
// contributes nothing.
func scoreFuzzy(text string, terms []string) int {
	words := wordRe.FindAllString(strings.ToLower(text), -1)
	if len(words) == 0 {
		return 0
	}

	score := 0
	for _, term := range terms {
		tolerance := fuzzyTolerance(term)
		best := tolerance + 1
		for _, word := range words {
			// Cheap length gate before the DP table.
			if abs(len(word)-len(term)) > tolerance {
				continue
			}
			if dist := levenshtein(term, word); dist < best {
				best = dist
				if best == 0 {
					break
				}
			}
		}
		if best <= tolerance {
			score += tolerance + 1 - best
		}
	}
	return score
}

// fuzzyTolerance returns the maximum edit distance allowed for a term.
// Short terms would otherwise explode into false positives.
func fuzzyTolerance(term string) int {
	switch n := len([]rune(term)); {
	case n < 3:
		return 0
	case n < 6:
		return 1
	default:
		return 2
	}
}

// levenshtein computes the edit distance between two strings using the
// two-row dynamic programming formulation.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

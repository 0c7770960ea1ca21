package srt

import (
	"bytes"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Cue is one timed subtitle entry.
type Cue struct {
	StartMS int
	EndMS   int
	// Text preserves the original line structure, lines joined with "\n".
	Text string
	// SearchText is the derived searchable form: markup stripped,
	// whitespace collapsed to single spaces.
	SearchText string
}

// Result is the outcome of parsing one subtitle file.
type Result struct {
	Cues []Cue
	// Skipped counts blocks that could not be parsed.
	Skipped int
}

var (
	utf8BOM = []byte{0xEF, 0xBB, 0xBF}

	cueTimingRe = regexp.MustCompile(
		`(\d{1,2}:\d{1,2}:\d{1,2}[,.]\d{1,3})\s*-->\s*(\d{1,2}:\d{1,2}:\d{1,2}[,.]\d{1,3})`)
	blockSplitRe = regexp.MustCompile(`\n\s*\n`)
	markupRe     = regexp.MustCompile(`<[^>]+>`)
	spaceRe      = regexp.MustCompile(`\s+`)
)

// Parse converts raw subtitle file bytes into an ordered sequence of
// cues, in source block order. Cues are stored exactly as parsed; out
// of order or overlapping timestamps are preserved, not normalized.
func Parse(data []byte) Result {
	content := decode(data)
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	var result Result
	for _, block := range blockSplitRe.Split(strings.TrimSpace(content), -1) {
		if strings.TrimSpace(block) == "" {
			continue
		}
		cue, ok := parseBlock(block)
		if !ok {
			result.Skipped++
			continue
		}
		result.Cues = append(result.Cues, cue)
	}

	return result
}

// decode interprets raw bytes as UTF-8 when possible, otherwise falls
// back to Latin-1, which accepts any byte sequence.
func decode(data []byte) string {
	data = bytes.TrimPrefix(data, utf8BOM)

	if utf8.Valid(data) {
		return string(data)
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		// ISO 8859-1 maps every byte; this path is unreachable in
		// practice, but returning the raw bytes keeps parsing going.
		return string(data)
	}
	return string(decoded)
}

// parseBlock extracts one cue from a block. The numeric index line is
// optional and any lines before the timecode line are ignored.
func parseBlock(block string) (Cue, bool) {
	lines := strings.Split(block, "\n")

	timingLine := -1
	var start, end int
	for i, line := range lines {
		m := cueTimingRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		s, err := ParseTimecode(m[1])
		if err != nil {
			continue
		}
		e, err := ParseTimecode(m[2])
		if err != nil {
			continue
		}
		timingLine, start, end = i, s, e
		break
	}

	if timingLine < 0 {
		return Cue{}, false
	}

	var textLines []string
	for _, line := range lines[timingLine+1:] {
		line = strings.TrimSpace(line)
		if line != "" {
			textLines = append(textLines, line)
		}
	}

	text := strings.Join(textLines, "\n")
	searchText := normalizeForSearch(text)
	if searchText == "" {
		return Cue{}, false
	}

	return Cue{
		StartMS:    start,
		EndMS:      end,
		Text:       text,
		SearchText: searchText,
	}, true
}

// normalizeForSearch strips markup tags and collapses all whitespace,
// including the embedded line breaks, to single spaces.
func normalizeForSearch(text string) string {
	text = markupRe.ReplaceAllString(text, "")
	text = spaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

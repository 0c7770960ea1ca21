// Package srt parses SubRip subtitle files into ordered, timed cues.
//
// Subtitle files in the wild are messy: mixed encodings, missing index
// lines, stray blank lines, comma or period millisecond separators,
// and occasional junk blocks. The parser is deliberately tolerant; a
// block is accepted whenever a valid timecode line and at least one
// text line can be located, and anything else is skipped and counted
// rather than failing the whole file.
package srt

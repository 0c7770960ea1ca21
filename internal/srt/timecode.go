package srt

import (
	"fmt"
	"regexp"
	"strconv"
)

var timecodeRe = regexp.MustCompile(`^(\d{1,2}):(\d{1,2}):(\d{1,2})[,.](\d{1,3})$`)

// ParseTimecode converts an SRT timecode of the form HH:MM:SS,mmm to
// milliseconds. A period millisecond separator is accepted as well.
func ParseTimecode(s string) (int, error) {
	m := timecodeRe.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid timecode format: %q", s)
	}

	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	seconds, _ := strconv.Atoi(m[3])
	millis, _ := strconv.Atoi(m[4])

	return ((hours*60+minutes)*60+seconds)*1000 + millis, nil
}

// FormatTimecode converts milliseconds to a display timecode of the
// form HH:MM:SS.
func FormatTimecode(ms int) string {
	if ms < 0 {
		ms = 0
	}
	hours := ms / 3600000
	minutes := (ms % 3600000) / 60000
	seconds := (ms % 60000) / 1000
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

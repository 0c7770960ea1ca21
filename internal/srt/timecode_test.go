package srt

import "testing"

func TestParseTimecode(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"00:00:01,000", 1000, false},
		{"00:00:03,500", 3500, false},
		{"01:02:03,004", 3723004, false},
		{"00:00:01.250", 1250, false},
		{"1:2:3,4", 3723004, false},
		{"10:00:00,000", 36000000, false},
		{"not a timecode", 0, true},
		{"00:00,000", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTimecode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTimecode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseTimecode(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatTimecode(t *testing.T) {
	tests := []struct {
		ms   int
		want string
	}{
		{0, "00:00:00"},
		{1000, "00:00:01"},
		{3500, "00:00:03"},
		{3723004, "01:02:03"},
		{-5, "00:00:00"},
	}

	for _, tt := range tests {
		if got := FormatTimecode(tt.ms); got != tt.want {
			t.Errorf("FormatTimecode(%d) = %q, want %q", tt.ms, got, tt.want)
		}
	}
}

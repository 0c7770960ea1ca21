package mediatypes

import "testing"

func TestGetFileType(t *testing.T) {
	tests := []struct {
		ext  string
		want FileType
	}{
		{".mp4", FileTypeVideo},
		{".MKV", FileTypeVideo},
		{".avi", FileTypeVideo},
		{".srt", FileTypeSubtitle},
		{".SRT", FileTypeSubtitle},
		{".txt", FileTypeOther},
		{".nfo", FileTypeOther},
		{"", FileTypeOther},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			if got := GetFileType(tt.ext); got != tt.want {
				t.Errorf("GetFileType(%q) = %q, want %q", tt.ext, got, tt.want)
			}
		})
	}
}

func TestGetMimeType(t *testing.T) {
	if got := GetMimeType(".mp4"); got != "video/mp4" {
		t.Errorf("GetMimeType(.mp4) = %q", got)
	}
	if got := GetMimeType(".unknown"); got != "application/octet-stream" {
		t.Errorf("GetMimeType(.unknown) = %q", got)
	}
}

package mediatypes

import "strings"

// FileType represents the classification of a discovered file.
type FileType string

const (
	// FileTypeVideo represents a playable video container.
	FileTypeVideo FileType = "video"
	// FileTypeSubtitle represents a time-coded subtitle file.
	FileTypeSubtitle FileType = "subtitle"
	// FileTypeOther represents a file the indexer ignores.
	FileTypeOther FileType = "other"
)

// VideoExtensions maps file extensions to whether the playback layer
// understands them.
var VideoExtensions = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".avi":  true,
	".mov":  true,
	".wmv":  true,
	".flv":  true,
	".m4v":  true,
	".mpeg": true,
	".mpg":  true,
	".webm": true,
	".ts":   true,
}

// SubtitleExtensions maps file extensions to whether they are supported
// subtitle formats.
var SubtitleExtensions = map[string]bool{
	".srt": true,
}

// MimeTypes maps file extensions to their MIME types for media serving.
var MimeTypes = map[string]string{
	".mp4":  "video/mp4",
	".mkv":  "video/x-matroska",
	".avi":  "video/x-msvideo",
	".mov":  "video/quicktime",
	".wmv":  "video/x-ms-wmv",
	".flv":  "video/x-flv",
	".m4v":  "video/x-m4v",
	".mpeg": "video/mpeg",
	".mpg":  "video/mpeg",
	".webm": "video/webm",
	".ts":   "video/mp2t",
	".srt":  "text/plain",
}

// GetFileType returns the file type for a given extension.
// The extension comparison is case-insensitive.
func GetFileType(ext string) FileType {
	ext = strings.ToLower(ext)
	switch {
	case VideoExtensions[ext]:
		return FileTypeVideo
	case SubtitleExtensions[ext]:
		return FileTypeSubtitle
	default:
		return FileTypeOther
	}
}

// GetMimeType returns the MIME type for a given extension, or
// "application/octet-stream" when unknown.
func GetMimeType(ext string) string {
	if mime, ok := MimeTypes[strings.ToLower(ext)]; ok {
		return mime
	}
	return "application/octet-stream"
}

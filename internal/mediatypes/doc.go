// Package mediatypes classifies files discovered in the media tree by
// extension into videos, subtitles, and everything else, and maps
// extensions to MIME types for the media-serving handlers.
package mediatypes

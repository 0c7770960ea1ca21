package matcher

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/wimjan123/srt-search/internal/logging"
	"github.com/wimjan123/srt-search/internal/mediatypes"
)

// Match pairs one discovered video with zero or one subtitle file.
type Match struct {
	Basename string
	RelPath  string
	Ext      string
	Size     int64
	ModTime  time.Time

	HasSubtitle  bool
	SubtitlePath string // absolute path, set when HasSubtitle is true
}

// ScanResult is the outcome of one full media tree scan.
type ScanResult struct {
	Matches []Match
	// Warnings counts files skipped due to read errors or duplicate
	// video basenames.
	Warnings int
}

type videoFile struct {
	absPath string
	relPath string
	ext     string
	size    int64
	modTime time.Time
}

type subtitleFile struct {
	absPath string
	relPath string
}

// Scan recursively enumerates root, classifies files by extension and
// pairs videos with subtitles. The returned matches are sorted by
// basename for deterministic output.
//
// An unreadable root is a configuration error and fails the scan;
// errors on individual entries are counted and skipped.
func Scan(root string) (*ScanResult, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("media root not accessible: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("media root is not a directory: %s", root)
	}

	// Videos keyed by lower-cased basename; duplicates resolved below.
	videos := make(map[string][]videoFile)
	subtitles := make(map[string][]subtitleFile)
	warnings := 0

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			logging.Warn("Skipping unreadable path %s: %v", path, walkErr)
			warnings++
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		name := d.Name()
		if strings.HasPrefix(name, ".") {
			if d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		ext := filepath.Ext(name)
		key := strings.ToLower(strings.TrimSuffix(name, ext))

		switch mediatypes.GetFileType(ext) {
		case mediatypes.FileTypeVideo:
			fi, err := d.Info()
			if err != nil {
				logging.Warn("Skipping video %s: %v", path, err)
				warnings++
				return nil
			}
			videos[key] = append(videos[key], videoFile{
				absPath: path,
				relPath: relPath,
				ext:     strings.ToLower(ext),
				size:    fi.Size(),
				modTime: fi.ModTime(),
			})
		case mediatypes.FileTypeSubtitle:
			subtitles[key] = append(subtitles[key], subtitleFile{
				absPath: path,
				relPath: relPath,
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("media scan failed: %w", err)
	}

	result := &ScanResult{Warnings: warnings}
	for key, candidates := range videos {
		video, dropped := pickVideo(candidates)
		if dropped > 0 {
			logging.Warn("Basename %q maps to %d videos; keeping %s",
				key, len(candidates), video.relPath)
			result.Warnings += dropped
		}

		match := Match{
			Basename: strings.TrimSuffix(filepath.Base(video.relPath), filepath.Ext(video.relPath)),
			RelPath:  filepath.ToSlash(video.relPath),
			Ext:      video.ext,
			Size:     video.size,
			ModTime:  video.modTime,
		}

		if sub, ok := pickSubtitle(video, subtitles[key]); ok {
			match.HasSubtitle = true
			match.SubtitlePath = sub.absPath
		}

		result.Matches = append(result.Matches, match)
	}

	sort.Slice(result.Matches, func(i, j int) bool {
		return result.Matches[i].Basename < result.Matches[j].Basename
	})
	return result, nil
}

// pickVideo resolves duplicate video basenames deterministically: the
// lexicographically smallest relative path wins, the rest are dropped
// and reported as warnings.
func pickVideo(candidates []videoFile) (videoFile, int) {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.relPath < best.relPath {
			best = c
		}
	}
	return best, len(candidates) - 1
}

// pickSubtitle selects the subtitle for a video. A candidate in the
// same directory as the video is preferred; among several
// same-directory candidates (case variants) the lexicographically
// smallest relative path wins, likewise among cross-directory
// candidates when no same-directory one exists.
func pickSubtitle(video videoFile, candidates []subtitleFile) (subtitleFile, bool) {
	if len(candidates) == 0 {
		return subtitleFile{}, false
	}

	videoDir := filepath.Dir(video.absPath)

	var best subtitleFile
	bestSameDir := false
	for _, c := range candidates {
		sameDir := filepath.Dir(c.absPath) == videoDir
		switch {
		case best.absPath == "":
			best, bestSameDir = c, sameDir
		case sameDir && !bestSameDir:
			best, bestSameDir = c, true
		case sameDir == bestSameDir && c.relPath < best.relPath:
			best = c
		}
	}
	return best, true
}
